//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lmoretti/storeiq/internal/store"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func setupPostgres(t *testing.T) (*store.PostgresStore, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storeiq_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	// Raw pool for seeding catalog rows; the store itself only reads the
	// catalog side.
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return s, pool
}

// seedCatalog inserts a small catalog: three products, two orders
// (u1 buys laptop+mouse, u2 buys laptop), and two opinions on the laptop.
func seedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	products := []struct {
		id, name   string
		price      float64
		categories []string
	}{
		{"p-laptop", "Ultralight Laptop", 899, []string{"electronics.laptops"}},
		{"p-mouse", "Wireless Mouse", 25, []string{"electronics.accessories"}},
		{"p-kettle", "Electric Kettle", 40, []string{"kitchen"}},
	}
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category_paths, tags, description, specs)
			VALUES ($1, $2, $3, $4, '{}', '', '{}')`,
			p.id, p.name, p.price, p.categories)
		require.NoError(t, err)
	}

	orders := []struct {
		id, userID string
		placedAt   time.Time
		products   []string
	}{
		{"o-1", "u1", time.Now().Add(-48 * time.Hour), []string{"p-laptop", "p-mouse"}},
		{"o-2", "u2", time.Now().Add(-24 * time.Hour), []string{"p-laptop"}},
	}
	for _, o := range orders {
		_, err := pool.Exec(ctx,
			`INSERT INTO orders (id, user_id, placed_at) VALUES ($1, $2, $3)`,
			o.id, o.userID, o.placedAt)
		require.NoError(t, err)
		for _, pid := range o.products {
			_, err := pool.Exec(ctx,
				`INSERT INTO order_lines (order_id, product_id, quantity) VALUES ($1, $2, 1)`,
				o.id, pid)
			require.NoError(t, err)
		}
	}

	opinions := []struct {
		userID, text string
		rating       int
	}{
		{"u1", "excellent laptop, love the battery", 5},
		{"u2", "screen is disappointing", 2},
	}
	for _, o := range opinions {
		_, err := pool.Exec(ctx,
			`INSERT INTO opinions (product_id, user_id, rating, text) VALUES ('p-laptop', $1, $2, $3)`,
			o.userID, o.rating, o.text)
		require.NoError(t, err)
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s, _ := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_Catalog(t *testing.T) {
	s, pool := setupPostgres(t)
	ctx := context.Background()
	seedCatalog(t, pool)

	t.Run("list products", func(t *testing.T) {
		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		// Ordered by id.
		assert.Equal(t, "p-kettle", products[0].ID)
		assert.Equal(t, "p-laptop", products[1].ID)
		assert.Equal(t, []string{"electronics.laptops"}, products[1].CategoryPaths)
	})

	t.Run("get product", func(t *testing.T) {
		p, err := s.GetProduct(ctx, "p-mouse")
		require.NoError(t, err)
		assert.Equal(t, "Wireless Mouse", p.Name)
		assert.InDelta(t, 25, p.Price, 0.001)
	})

	t.Run("get missing product", func(t *testing.T) {
		_, err := s.GetProduct(ctx, "p-nope")
		assert.Error(t, err)
	})

	t.Run("list recent products respects limit", func(t *testing.T) {
		products, err := s.ListRecentProducts(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("list orders aggregates lines", func(t *testing.T) {
		orders, err := s.ListOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		// Oldest first; line products sorted.
		assert.Equal(t, "u1", orders[0].UserID)
		assert.Equal(t, []string{"p-laptop", "p-mouse"}, orders[0].ProductIDs)
		assert.Equal(t, []string{"p-laptop"}, orders[1].ProductIDs)
	})

	t.Run("purchase events carry top-level category", func(t *testing.T) {
		events, err := s.ListPurchaseEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 3)

		mine, err := s.ListUserPurchases(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		// Both lines share an order, so only the set is determined.
		var categories []string
		for _, ev := range mine {
			categories = append(categories, ev.Category)
			assert.Equal(t, 1, ev.Quantity)
		}
		assert.ElementsMatch(t, []string{"electronics.laptops", "electronics.accessories"}, categories)
	})

	t.Run("opinions", func(t *testing.T) {
		all, err := s.ListOpinions(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		byProduct, err := s.ListProductOpinions(ctx, "p-laptop")
		require.NoError(t, err)
		require.Len(t, byProduct, 2)
		assert.Equal(t, 5, byProduct[0].Rating)

		none, err := s.ListProductOpinions(ctx, "p-kettle")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestPostgresStore_Similarities(t *testing.T) {
	s, _ := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	content := []domain.SimilarityEntry{
		{ProductA: "a", ProductB: "b", Score: 0.9, Strategy: domain.StrategyContentBased, ComputedAt: now},
		{ProductA: "a", ProductB: "c", Score: 0.4, Strategy: domain.StrategyContentBased, ComputedAt: now},
	}
	collab := []domain.SimilarityEntry{
		{ProductA: "b", ProductB: "c", Score: 0.7, Strategy: domain.StrategyCollaborative, ComputedAt: now},
	}
	require.NoError(t, s.ReplaceSimilarities(ctx, domain.StrategyContentBased, content))
	require.NoError(t, s.ReplaceSimilarities(ctx, domain.StrategyCollaborative, collab))

	t.Run("list is per strategy, best first", func(t *testing.T) {
		got, err := s.ListSimilarities(ctx, domain.StrategyContentBased, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ProductB)
		assert.InDelta(t, 0.9, got[0].Score, 1e-9)
		assert.WithinDuration(t, now, got[0].ComputedAt, time.Second)
	})

	t.Run("replace swaps only its strategy", func(t *testing.T) {
		next := []domain.SimilarityEntry{
			{ProductA: "a", ProductB: "d", Score: 0.5, Strategy: domain.StrategyContentBased, ComputedAt: now},
		}
		require.NoError(t, s.ReplaceSimilarities(ctx, domain.StrategyContentBased, next))

		got, err := s.ListSimilarities(ctx, domain.StrategyContentBased, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d", got[0].ProductB)

		other, err := s.ListSimilarities(ctx, domain.StrategyCollaborative, 10)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})

	t.Run("failed replace rolls back", func(t *testing.T) {
		// product_a must sort before product_b; the bad row aborts the
		// transaction and the previous set survives.
		bad := []domain.SimilarityEntry{
			{ProductA: "z", ProductB: "a", Score: 0.1, Strategy: domain.StrategyContentBased, ComputedAt: now},
		}
		require.Error(t, s.ReplaceSimilarities(ctx, domain.StrategyContentBased, bad))

		got, err := s.ListSimilarities(ctx, domain.StrategyContentBased, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d", got[0].ProductB)
	})
}

func TestPostgresStore_Rules(t *testing.T) {
	s, _ := setupPostgres(t)
	ctx := context.Background()

	rules := []domain.AssociationRule{
		{Antecedent: "p-laptop", Consequent: "p-mouse", Support: 0.5, Confidence: 0.8, Lift: 1.6},
		{Antecedent: "p-mouse", Consequent: "p-laptop", Support: 0.5, Confidence: 1.0, Lift: 1.6},
		{Antecedent: "p-laptop", Consequent: "p-kettle", Support: 0.1, Confidence: 0.2, Lift: 1.1},
	}
	require.NoError(t, s.ReplaceRules(ctx, rules))

	t.Run("list strongest first", func(t *testing.T) {
		got, err := s.ListRules(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.InDelta(t, 1.6, got[0].Lift, 1e-9)
		assert.InDelta(t, 1.1, got[2].Lift, 1e-9)
	})

	t.Run("product rules filter by antecedent", func(t *testing.T) {
		got, err := s.ListProductRules(ctx, "p-laptop", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Highest confidence first.
		assert.Equal(t, "p-mouse", got[0].Consequent)

		none, err := s.ListProductRules(ctx, "p-kettle", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("replace wipes previous rules", func(t *testing.T) {
		require.NoError(t, s.ReplaceRules(ctx, nil))
		got, err := s.ListRules(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPostgresStore_Sentiments(t *testing.T) {
	s, _ := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	records := []domain.SentimentRecord{
		{
			ProductID:     "p-laptop",
			Score:         0.42,
			Category:      domain.SentimentPositive,
			PositiveCount: 3,
			NegativeCount: 1,
			NeutralCount:  1,
			Sources: []domain.SourceScore{
				{
					Source:        "opinions",
					Weight:        0.4,
					Score:         0.6,
					Category:      domain.SentimentPositive,
					PositiveWords: []string{"excellent", "love"},
					PositiveCount: 2,
					TotalWords:    9,
				},
				{Source: "specs", Weight: 0.12, Absent: true},
			},
			ComputedAt: now,
		},
		{
			ProductID:     "p-kettle",
			Score:         -0.2,
			Category:      domain.SentimentNegative,
			NegativeCount: 2,
			ComputedAt:    now,
		},
	}
	require.NoError(t, s.ReplaceSentiments(ctx, records))

	t.Run("round-trips the source breakdown", func(t *testing.T) {
		got, err := s.GetSentiment(ctx, "p-laptop")
		require.NoError(t, err)
		assert.InDelta(t, 0.42, got.Score, 1e-9)
		assert.Equal(t, domain.SentimentPositive, got.Category)
		require.Len(t, got.Sources, 2)
		assert.Equal(t, []string{"excellent", "love"}, got.Sources[0].PositiveWords)
		assert.True(t, got.Sources[1].Absent)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetSentiment(ctx, "p-nope")
		assert.Error(t, err)
	})

	t.Run("list is highest score first", func(t *testing.T) {
		got, err := s.ListSentiments(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "p-laptop", got[0].ProductID)
		assert.Equal(t, "p-kettle", got[1].ProductID)

		limited, err := s.ListSentiments(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestPostgresStore_Forecasts(t *testing.T) {
	s, _ := setupPostgres(t)
	ctx := context.Background()
	day := time.Now().UTC().Truncate(24 * time.Hour)

	points := []domain.ForecastPoint{
		{ProductID: "p-laptop", Date: day.AddDate(0, 0, 2), Predicted: 3, Low: 1, High: 5, Accuracy: 0.8},
		{ProductID: "p-laptop", Date: day.AddDate(0, 0, 1), Predicted: 2, Low: 0, High: 4, Accuracy: 0.8},
		{ProductID: "p-mouse", Date: day.AddDate(0, 0, 1), Predicted: 7, Low: 5, High: 9, Accuracy: 0.6},
	}
	require.NoError(t, s.ReplaceForecasts(ctx, points))

	t.Run("lists one product in date order", func(t *testing.T) {
		got, err := s.ListForecasts(ctx, "p-laptop")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Date.Before(got[1].Date))
		assert.InDelta(t, 2, got[0].Predicted, 1e-9)
	})

	t.Run("replace wipes previous horizon", func(t *testing.T) {
		next := []domain.ForecastPoint{
			{ProductID: "p-mouse", Date: day.AddDate(0, 0, 1), Predicted: 1, Low: 0, High: 2},
		}
		require.NoError(t, s.ReplaceForecasts(ctx, next))

		got, err := s.ListForecasts(ctx, "p-laptop")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPostgresStore_JobLedger(t *testing.T) {
	s, _ := setupPostgres(t)
	ctx := context.Background()

	id1, err := s.InsertJobRun(ctx, "similarity_refresh")
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	t.Run("open run is listed as running", func(t *testing.T) {
		runs, err := s.ListJobRuns(ctx, "similarity_refresh", 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "running", runs[0].Status)
		assert.Nil(t, runs[0].FinishedAt)
	})

	require.NoError(t, s.CompleteJobRun(ctx, id1, "succeeded", "", 42))

	id2, err := s.InsertJobRun(ctx, "rule_mining")
	require.NoError(t, err)
	require.NoError(t, s.CompleteJobRun(ctx, id2, "failed", "connection reset", 0))

	t.Run("completion records status and rows", func(t *testing.T) {
		runs, err := s.ListJobRuns(ctx, "similarity_refresh", 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "succeeded", runs[0].Status)
		assert.Equal(t, 42, runs[0].RowsAffected)
		assert.Empty(t, runs[0].Error)
		require.NotNil(t, runs[0].FinishedAt)
	})

	t.Run("failures keep the error text", func(t *testing.T) {
		runs, err := s.ListJobRuns(ctx, "rule_mining", 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "failed", runs[0].Status)
		assert.Equal(t, "connection reset", runs[0].Error)
	})

	t.Run("empty name lists every job, newest first", func(t *testing.T) {
		runs, err := s.ListJobRuns(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "rule_mining", runs[0].JobName)

		limited, err := s.ListJobRuns(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestPostgresStore_GetSystemState(t *testing.T) {
	s, pool := setupPostgres(t)
	ctx := context.Background()
	seedCatalog(t, pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, s.ReplaceSimilarities(ctx, domain.StrategyContentBased, []domain.SimilarityEntry{
		{ProductA: "p-laptop", ProductB: "p-mouse", Score: 0.8, Strategy: domain.StrategyContentBased, ComputedAt: now},
	}))
	require.NoError(t, s.ReplaceRules(ctx, []domain.AssociationRule{
		{Antecedent: "p-laptop", Consequent: "p-mouse", Support: 0.5, Confidence: 1, Lift: 2},
	}))

	id, err := s.InsertJobRun(ctx, "similarity_refresh")
	require.NoError(t, err)
	require.NoError(t, s.CompleteJobRun(ctx, id, "succeeded", "", 1))

	st, err := s.GetSystemState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Products)
	assert.Equal(t, 2, st.Orders)
	assert.Equal(t, 2, st.Opinions)
	assert.Equal(t, 1, st.ContentSimilarities)
	assert.Equal(t, 0, st.CollabSimilarities)
	assert.Equal(t, 1, st.AssociationRules)
	assert.Equal(t, 0, st.SentimentRecords)
	assert.Equal(t, 0, st.ForecastPoints)
	require.NotNil(t, st.LastSimilarityRun)
	assert.Nil(t, st.LastRuleMiningRun)
}
