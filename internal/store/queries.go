package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Catalog queries.
const (
	queryListProducts = `
		SELECT id, name, price, category_paths, tags,
			COALESCE(description, ''), COALESCE(specs, '{}'),
			created_at, updated_at
		FROM products
		ORDER BY id`

	queryGetProduct = `
		SELECT id, name, price, category_paths, tags,
			COALESCE(description, ''), COALESCE(specs, '{}'),
			created_at, updated_at
		FROM products
		WHERE id = $1`

	queryListRecentProducts = `
		SELECT id, name, price, category_paths, tags,
			COALESCE(description, ''), COALESCE(specs, '{}'),
			created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1`

	queryListOpinions = `
		SELECT id, product_id, user_id, rating, COALESCE(text, ''), created_at
		FROM opinions
		ORDER BY created_at`

	queryListProductOpinions = `
		SELECT id, product_id, user_id, rating, COALESCE(text, ''), created_at
		FROM opinions
		WHERE product_id = $1
		ORDER BY created_at`

	queryListOrders = `
		SELECT o.id, o.user_id, array_agg(ol.product_id ORDER BY ol.product_id), o.placed_at
		FROM orders o
		JOIN order_lines ol ON ol.order_id = o.id
		GROUP BY o.id, o.user_id, o.placed_at
		ORDER BY o.placed_at`

	queryListPurchaseEvents = `
		SELECT o.user_id, ol.product_id,
			COALESCE(p.category_paths[1], ''), ol.quantity, o.placed_at
		FROM orders o
		JOIN order_lines ol ON ol.order_id = o.id
		LEFT JOIN products p ON p.id = ol.product_id
		ORDER BY o.placed_at`

	queryListUserPurchases = `
		SELECT o.user_id, ol.product_id,
			COALESCE(p.category_paths[1], ''), ol.quantity, o.placed_at
		FROM orders o
		JOIN order_lines ol ON ol.order_id = o.id
		LEFT JOIN products p ON p.id = ol.product_id
		WHERE o.user_id = $1
		ORDER BY o.placed_at`
)

// Similarity queries.
const (
	queryDeleteSimilarities = `
		DELETE FROM similarities WHERE strategy = $1`

	queryInsertSimilarity = `
		INSERT INTO similarities (product_a, product_b, score, strategy, computed_at)
		VALUES (@product_a, @product_b, @score, @strategy, @computed_at)`

	queryListSimilarities = `
		SELECT product_a, product_b, score, strategy, computed_at
		FROM similarities
		WHERE strategy = $1
		ORDER BY score DESC, product_a, product_b
		LIMIT $2`
)

// Association rule queries.
const (
	queryDeleteRules = `DELETE FROM association_rules`

	queryInsertRule = `
		INSERT INTO association_rules (antecedent, consequent, support, confidence, lift)
		VALUES (@antecedent, @consequent, @support, @confidence, @lift)`

	queryListRules = `
		SELECT antecedent, consequent, support, confidence, lift
		FROM association_rules
		ORDER BY lift DESC, antecedent, consequent
		LIMIT $1`

	queryListProductRules = `
		SELECT antecedent, consequent, support, confidence, lift
		FROM association_rules
		WHERE antecedent = $1
		ORDER BY confidence DESC, consequent
		LIMIT $2`
)

// Sentiment queries.
const (
	queryDeleteSentiments = `DELETE FROM sentiment_records`

	queryInsertSentiment = `
		INSERT INTO sentiment_records (
			product_id, score, category,
			positive_count, negative_count, neutral_count,
			sources, computed_at
		) VALUES (
			@product_id, @score, @category,
			@positive_count, @negative_count, @neutral_count,
			@sources, @computed_at
		)`

	queryGetSentiment = `
		SELECT product_id, score, category,
			positive_count, negative_count, neutral_count,
			sources, computed_at
		FROM sentiment_records
		WHERE product_id = $1`

	queryListSentiments = `
		SELECT product_id, score, category,
			positive_count, negative_count, neutral_count,
			sources, computed_at
		FROM sentiment_records
		ORDER BY score DESC, product_id
		LIMIT $1`
)

// Forecast queries.
const (
	queryDeleteForecasts = `DELETE FROM forecasts`

	queryInsertForecast = `
		INSERT INTO forecasts (product_id, date, predicted, low, high, accuracy)
		VALUES (@product_id, @date, @predicted, @low, @high, @accuracy)`

	queryListForecasts = `
		SELECT product_id, date, predicted, low, high, accuracy
		FROM forecasts
		WHERE product_id = $1
		ORDER BY date`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, status, started_at)
		VALUES ($1, 'running', now())
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			status = $2,
			error = NULLIF($3, ''),
			rows_affected = $4,
			finished_at = now()
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, status, COALESCE(error, ''), rows_affected,
			started_at, finished_at
		FROM job_runs
		WHERE ($1 = '' OR job_name = $1)
		ORDER BY started_at DESC
		LIMIT $2`
)

// System state query.
const querySystemState = `
	SELECT
		(SELECT count(*) FROM products),
		(SELECT count(*) FROM orders),
		(SELECT count(*) FROM opinions),
		(SELECT count(*) FROM similarities WHERE strategy = 'content_based'),
		(SELECT count(*) FROM similarities WHERE strategy = 'collaborative'),
		(SELECT count(*) FROM association_rules),
		(SELECT count(*) FROM sentiment_records),
		(SELECT count(*) FROM forecasts),
		(SELECT max(finished_at) FROM job_runs WHERE job_name = 'similarity_refresh' AND status = 'succeeded'),
		(SELECT max(finished_at) FROM job_runs WHERE job_name = 'rule_mining' AND status = 'succeeded'),
		(SELECT max(finished_at) FROM job_runs WHERE job_name = 'sentiment_refresh' AND status = 'succeeded'),
		(SELECT max(finished_at) FROM job_runs WHERE job_name = 'forecast_refresh' AND status = 'succeeded')`
