package engine_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/config"
	"github.com/lmoretti/storeiq/internal/engine"
	"github.com/lmoretti/storeiq/internal/store/mocks"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) (*engine.Engine, *mocks.MockStore) {
	t.Helper()
	st := mocks.NewMockStore(t)
	eng := engine.NewEngine(st, config.Default(), engine.WithLogger(quietLogger()))
	return eng, st
}

func TestSetActiveStrategy(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t)
	require.Equal(t, domain.StrategyCollaborative, eng.ActiveStrategy())

	require.NoError(t, eng.SetActiveStrategy(domain.StrategyContentBased))
	assert.Equal(t, domain.StrategyContentBased, eng.ActiveStrategy())

	err := eng.SetActiveStrategy(domain.Strategy("hybrid"))
	require.Error(t, err)
	assert.Equal(t, domain.StrategyContentBased, eng.ActiveStrategy())
}

func TestAllowTrigger(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t)

	// Default burst is 2; the refill rate is far too slow to matter here.
	assert.True(t, eng.AllowTrigger())
	assert.True(t, eng.AllowTrigger())
	assert.False(t, eng.AllowTrigger())
}

func TestSimilarProducts_BeforeFirstRefresh(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t)

	rec, err := eng.SimilarProducts(context.Background(), "p1", 10)
	require.NoError(t, err)

	assert.Empty(t, rec.Products)
	assert.Equal(t, domain.StrategyCollaborative, rec.Strategy)
	assert.False(t, rec.Fallback)
}

func TestRecommendForUser_ColdStart(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)

	st.On("ListUserPurchases", mock.Anything, "newbie").Return([]domain.PurchaseEvent{}, nil)
	st.On("ListRecentProducts", mock.Anything, 5).Return([]domain.Product{
		{ID: "p1"}, {ID: "p2"},
	}, nil)

	rec, err := eng.RecommendForUser(context.Background(), "newbie", 5)
	require.NoError(t, err)

	assert.True(t, rec.Fallback)
	require.Len(t, rec.Products, 2)
	assert.Equal(t, "p1", rec.Products[0].ProductID)
}

func TestRecommendForUser_MergesNeighbors(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)

	// Two users with identical baskets make A and B perfect co-purchase
	// neighbors under the collaborative strategy.
	now := time.Now()
	st.On("InsertJobRun", mock.Anything, engine.JobSimilarity).Return("run-1", nil)
	st.On("ListProducts", mock.Anything).Return([]domain.Product{
		{ID: "A", CategoryPaths: []string{"books"}},
		{ID: "B", CategoryPaths: []string{"games"}},
	}, nil)
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{
		{UserID: "u1", ProductID: "A", OccurredAt: now},
		{UserID: "u1", ProductID: "B", OccurredAt: now},
		{UserID: "u2", ProductID: "A", OccurredAt: now},
		{UserID: "u2", ProductID: "B", OccurredAt: now},
	}, nil)
	st.On("ReplaceSimilarities", mock.Anything, domain.StrategyContentBased, mock.Anything).Return(nil)
	st.On("ReplaceSimilarities", mock.Anything, domain.StrategyCollaborative, mock.Anything).Return(nil)
	st.On("CompleteJobRun", mock.Anything, "run-1", "succeeded", "", mock.Anything).Return(nil)

	require.NoError(t, eng.RunSimilarityRefresh(context.Background()))

	st.On("ListUserPurchases", mock.Anything, "u3").Return([]domain.PurchaseEvent{
		{UserID: "u3", ProductID: "A", OccurredAt: now},
	}, nil)

	rec, err := eng.RecommendForUser(context.Background(), "u3", 10)
	require.NoError(t, err)

	assert.False(t, rec.Fallback)
	assert.Equal(t, domain.StrategyCollaborative, rec.Strategy)
	require.Len(t, rec.Products, 1)
	assert.Equal(t, "B", rec.Products[0].ProductID)
	assert.InDelta(t, 1.0, rec.Products[0].Score, 1e-9)
}

func TestFuzzyRecommend(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)

	now := time.Now()
	st.On("ListProducts", mock.Anything).Return([]domain.Product{
		{ID: "p1", Price: 50, CategoryPaths: []string{"books"}},
		{ID: "p2", Price: 900, CategoryPaths: []string{"tools"}},
	}, nil)
	st.On("ListOpinions", mock.Anything).Return([]domain.Opinion{
		{ProductID: "p1", UserID: "u2", Rating: 5},
	}, nil)
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{
		{UserID: "u1", ProductID: "p1", Category: "books", OccurredAt: now.Add(-24 * time.Hour)},
	}, nil)

	results, err := eng.FuzzyRecommend(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The well-rated product in the user's category wins.
	assert.Equal(t, "p1", results[0].ProductID)
	assert.NotEmpty(t, results[0].Activations)
}

func TestFuzzyRecommend_TruncatesToK(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)

	st.On("ListProducts", mock.Anything).Return([]domain.Product{
		{ID: "p1", Price: 10}, {ID: "p2", Price: 20}, {ID: "p3", Price: 30},
	}, nil)
	st.On("ListOpinions", mock.Anything).Return([]domain.Opinion{}, nil)
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{}, nil)

	results, err := eng.FuzzyRecommend(context.Background(), "u1", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDemandForecast_DegradesSoftly(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{}, nil)

	df, err := eng.DemandForecast(context.Background(), "p1")
	require.NoError(t, err)

	assert.True(t, df.Insufficient)
	assert.Equal(t, "p1", df.ProductID)
	assert.Empty(t, df.Points)
}

func TestNextPurchase_DegradesSoftly(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{}, nil)

	np, err := eng.NextPurchase(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, np.Insufficient)
	assert.Equal(t, "u1", np.UserID)
}

func TestUserInsights(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)

	now := time.Now()
	st.On("ListPurchaseEvents", mock.Anything).Return([]domain.PurchaseEvent{
		{UserID: "u1", ProductID: "p1", Category: "books", OccurredAt: now.AddDate(0, 0, -11)},
		{UserID: "u1", ProductID: "p2", Category: "books", OccurredAt: now.AddDate(0, 0, -6)},
		{UserID: "u1", ProductID: "p3", Category: "games", OccurredAt: now.AddDate(0, 0, -1)},
		{UserID: "u2", ProductID: "p4", Category: "tools", OccurredAt: now},
	}, nil)

	posterior, churn, err := eng.UserInsights(context.Background(), "u1")
	require.NoError(t, err)

	// The category set spans all users; the evidence is u1's alone.
	require.Len(t, posterior.Probs, 3)
	assert.Equal(t, 3, posterior.Observations)
	assert.Greater(t, posterior.Probs["books"], posterior.Probs["tools"])

	assert.False(t, churn.Insufficient)
	assert.Equal(t, domain.ChurnLow, churn.Risk)
}

func TestDebug_SentimentCarriesTopRecords(t *testing.T) {
	t.Parallel()

	eng, st := newTestEngine(t)
	now := time.Now().UTC()

	st.On("ListRules", mock.Anything, 5).Return([]domain.AssociationRule{
		{Antecedent: "p1", Consequent: "p2", Support: 0.5, Confidence: 1, Lift: 2},
	}, nil)
	st.On("GetSystemState", mock.Anything).Return(&domain.SystemState{
		Products:         2,
		Orders:           2,
		Opinions:         3,
		SentimentRecords: 2,
	}, nil)
	st.On("ListSentiments", mock.Anything, 5).Return([]domain.SentimentRecord{
		{
			ProductID:     "p1",
			Score:         0.6,
			Category:      domain.SentimentPositive,
			PositiveCount: 2,
			Sources: []domain.SourceScore{
				{Source: "opinions", Weight: 0.4, Score: 0.75, PositiveCount: 3, TotalWords: 4},
			},
			ComputedAt: now,
		},
		{ProductID: "p2", Score: -0.2, Category: domain.SentimentNegative, ComputedAt: now},
	}, nil)

	report, err := eng.Debug(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report.Sentiment)
	assert.True(t, report.Sentiment.CanCompute)

	top, ok := report.Sentiment.Top.([]domain.SentimentRecord)
	require.True(t, ok)
	require.Len(t, top, 2)
	assert.Equal(t, "p1", top[0].ProductID)
	require.Len(t, top[0].Sources, 1)
	assert.InDelta(t, 0.75, top[0].Sources[0].Score, 1e-9)
}
