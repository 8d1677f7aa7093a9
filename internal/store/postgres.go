package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// PostgresStore methods require live Postgres; they are covered by the
// integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// --- Catalog ---

// ListProducts returns the full product catalog.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListProducts)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProduct retrieves a single product by id.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, id))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListRecentProducts returns the newest products, for cold-start sampling.
func (s *PostgresStore) ListRecentProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListRecentProducts, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	var specs []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.CategoryPaths, &p.Tags,
		&p.Description, &specs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(specs, &p.Specs); err != nil {
		return nil, fmt.Errorf("unmarshaling specs for %s: %w", p.ID, err)
	}
	return p, nil
}

// ListOpinions returns every opinion in the catalog.
func (s *PostgresStore) ListOpinions(ctx context.Context) ([]domain.Opinion, error) {
	return s.queryOpinions(ctx, queryListOpinions)
}

// ListProductOpinions returns the opinions for one product.
func (s *PostgresStore) ListProductOpinions(ctx context.Context, productID string) ([]domain.Opinion, error) {
	return s.queryOpinions(ctx, queryListProductOpinions, productID)
}

func (s *PostgresStore) queryOpinions(ctx context.Context, sql string, args ...any) ([]domain.Opinion, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing opinions: %w", err)
	}
	defer rows.Close()

	var out []domain.Opinion
	for rows.Next() {
		var o domain.Opinion
		if err := rows.Scan(&o.ID, &o.ProductID, &o.UserID, &o.Rating, &o.Text, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOrders returns every order with its product id set.
func (s *PostgresStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, queryListOrders)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductIDs, &o.PlacedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListPurchaseEvents returns the flattened purchase history for all users.
func (s *PostgresStore) ListPurchaseEvents(ctx context.Context) ([]domain.PurchaseEvent, error) {
	return s.queryEvents(ctx, queryListPurchaseEvents)
}

// ListUserPurchases returns one user's chronological purchase history.
func (s *PostgresStore) ListUserPurchases(ctx context.Context, userID string) ([]domain.PurchaseEvent, error) {
	return s.queryEvents(ctx, queryListUserPurchases, userID)
}

func (s *PostgresStore) queryEvents(ctx context.Context, sql string, args ...any) ([]domain.PurchaseEvent, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchase events: %w", err)
	}
	defer rows.Close()

	var out []domain.PurchaseEvent
	for rows.Next() {
		var ev domain.PurchaseEvent
		if err := rows.Scan(&ev.UserID, &ev.ProductID, &ev.Category, &ev.Quantity, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// --- Derived artifacts ---

// ReplaceSimilarities swaps one strategy's similarity table in a single
// transaction, so concurrent readers see either the old or the new set.
func (s *PostgresStore) ReplaceSimilarities(
	ctx context.Context,
	strategy domain.Strategy,
	entries []domain.SimilarityEntry,
) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteSimilarities, string(strategy)); err != nil {
			return fmt.Errorf("clearing %s similarities: %w", strategy, err)
		}

		for i := range entries {
			e := &entries[i]
			args := pgx.NamedArgs{
				"product_a":   e.ProductA,
				"product_b":   e.ProductB,
				"score":       e.Score,
				"strategy":    string(e.Strategy),
				"computed_at": e.ComputedAt,
			}
			if _, err := tx.Exec(ctx, queryInsertSimilarity, args); err != nil {
				return fmt.Errorf("inserting similarity (%s,%s): %w", e.ProductA, e.ProductB, err)
			}
		}
		return nil
	})
}

// ListSimilarities returns a strategy's cached pairs, best first.
func (s *PostgresStore) ListSimilarities(
	ctx context.Context,
	strategy domain.Strategy,
	limit int,
) ([]domain.SimilarityEntry, error) {
	rows, err := s.pool.Query(ctx, queryListSimilarities, string(strategy), limit)
	if err != nil {
		return nil, fmt.Errorf("listing similarities: %w", err)
	}
	defer rows.Close()

	var out []domain.SimilarityEntry
	for rows.Next() {
		var e domain.SimilarityEntry
		if err := rows.Scan(&e.ProductA, &e.ProductB, &e.Score, &e.Strategy, &e.ComputedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReplaceRules swaps the whole association rule table transactionally.
func (s *PostgresStore) ReplaceRules(ctx context.Context, rules []domain.AssociationRule) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteRules); err != nil {
			return fmt.Errorf("clearing rules: %w", err)
		}

		for i := range rules {
			r := &rules[i]
			args := pgx.NamedArgs{
				"antecedent": r.Antecedent,
				"consequent": r.Consequent,
				"support":    r.Support,
				"confidence": r.Confidence,
				"lift":       r.Lift,
			}
			if _, err := tx.Exec(ctx, queryInsertRule, args); err != nil {
				return fmt.Errorf("inserting rule %s->%s: %w", r.Antecedent, r.Consequent, err)
			}
		}
		return nil
	})
}

// ListRules returns the strongest rules overall.
func (s *PostgresStore) ListRules(ctx context.Context, limit int) ([]domain.AssociationRule, error) {
	return s.queryRules(ctx, queryListRules, limit)
}

// ListProductRules returns rules whose antecedent is the given product.
func (s *PostgresStore) ListProductRules(
	ctx context.Context,
	antecedent string,
	limit int,
) ([]domain.AssociationRule, error) {
	return s.queryRules(ctx, queryListProductRules, antecedent, limit)
}

func (s *PostgresStore) queryRules(ctx context.Context, sql string, args ...any) ([]domain.AssociationRule, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var out []domain.AssociationRule
	for rows.Next() {
		var r domain.AssociationRule
		if err := rows.Scan(&r.Antecedent, &r.Consequent, &r.Support, &r.Confidence, &r.Lift); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceSentiments swaps the whole sentiment table transactionally.
func (s *PostgresStore) ReplaceSentiments(ctx context.Context, records []domain.SentimentRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteSentiments); err != nil {
			return fmt.Errorf("clearing sentiments: %w", err)
		}

		for i := range records {
			r := &records[i]
			sources, err := json.Marshal(r.Sources)
			if err != nil {
				return fmt.Errorf("marshaling sources for %s: %w", r.ProductID, err)
			}

			args := pgx.NamedArgs{
				"product_id":     r.ProductID,
				"score":          r.Score,
				"category":       string(r.Category),
				"positive_count": r.PositiveCount,
				"negative_count": r.NegativeCount,
				"neutral_count":  r.NeutralCount,
				"sources":        sources,
				"computed_at":    r.ComputedAt,
			}
			if _, err := tx.Exec(ctx, queryInsertSentiment, args); err != nil {
				return fmt.Errorf("inserting sentiment for %s: %w", r.ProductID, err)
			}
		}
		return nil
	})
}

// GetSentiment returns one product's sentiment record with its full
// per-source breakdown.
func (s *PostgresStore) GetSentiment(ctx context.Context, productID string) (*domain.SentimentRecord, error) {
	r := &domain.SentimentRecord{}
	var sources []byte

	err := s.pool.QueryRow(ctx, queryGetSentiment, productID).Scan(
		&r.ProductID, &r.Score, &r.Category,
		&r.PositiveCount, &r.NegativeCount, &r.NeutralCount,
		&sources, &r.ComputedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sources, &r.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources for %s: %w", productID, err)
	}
	return r, nil
}

// ListSentiments returns the highest-scoring sentiment records.
func (s *PostgresStore) ListSentiments(ctx context.Context, limit int) ([]domain.SentimentRecord, error) {
	rows, err := s.pool.Query(ctx, queryListSentiments, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sentiments: %w", err)
	}
	defer rows.Close()

	var out []domain.SentimentRecord
	for rows.Next() {
		var r domain.SentimentRecord
		var sources []byte
		err := rows.Scan(
			&r.ProductID, &r.Score, &r.Category,
			&r.PositiveCount, &r.NegativeCount, &r.NeutralCount,
			&sources, &r.ComputedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sources, &r.Sources); err != nil {
			return nil, fmt.Errorf("unmarshaling sources for %s: %w", r.ProductID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceForecasts swaps the whole forecast table transactionally.
func (s *PostgresStore) ReplaceForecasts(ctx context.Context, points []domain.ForecastPoint) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteForecasts); err != nil {
			return fmt.Errorf("clearing forecasts: %w", err)
		}

		for i := range points {
			p := &points[i]
			args := pgx.NamedArgs{
				"product_id": p.ProductID,
				"date":       p.Date,
				"predicted":  p.Predicted,
				"low":        p.Low,
				"high":       p.High,
				"accuracy":   p.Accuracy,
			}
			if _, err := tx.Exec(ctx, queryInsertForecast, args); err != nil {
				return fmt.Errorf("inserting forecast for %s: %w", p.ProductID, err)
			}
		}
		return nil
	})
}

// ListForecasts returns one product's forecast horizon in date order.
func (s *PostgresStore) ListForecasts(ctx context.Context, productID string) ([]domain.ForecastPoint, error) {
	rows, err := s.pool.Query(ctx, queryListForecasts, productID)
	if err != nil {
		return nil, fmt.Errorf("listing forecasts: %w", err)
	}
	defer rows.Close()

	var out []domain.ForecastPoint
	for rows.Next() {
		var p domain.ForecastPoint
		if err := rows.Scan(&p.ProductID, &p.Date, &p.Predicted, &p.Low, &p.High, &p.Accuracy); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- Job ledger ---

// InsertJobRun records the start of a recompute job.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun finalizes a job run with its status and row count.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	if _, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected); err != nil {
		return fmt.Errorf("completing job run %s: %w", id, err)
	}
	return nil
}

// ListJobRuns returns recent runs, optionally filtered by job name.
func (s *PostgresStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("listing job runs: %w", err)
	}
	defer rows.Close()

	var out []domain.JobRun
	for rows.Next() {
		var j domain.JobRun
		if err := rows.Scan(&j.ID, &j.JobName, &j.Status, &j.Error, &j.RowsAffected, &j.StartedAt, &j.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// GetSystemState returns aggregate counts for operator tooling.
func (s *PostgresStore) GetSystemState(ctx context.Context) (*domain.SystemState, error) {
	st := &domain.SystemState{}
	err := s.pool.QueryRow(ctx, querySystemState).Scan(
		&st.Products, &st.Orders, &st.Opinions,
		&st.ContentSimilarities, &st.CollabSimilarities,
		&st.AssociationRules, &st.SentimentRecords, &st.ForecastPoints,
		&st.LastSimilarityRun, &st.LastRuleMiningRun,
		&st.LastSentimentRun, &st.LastForecastRun,
	)
	if err != nil {
		return nil, fmt.Errorf("getting system state: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
