package fuzzy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoretti/storeiq/internal/fuzzy"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

func testBounds() fuzzy.Bounds {
	return fuzzy.Bounds{MaxPrice: 1000, MaxPopularity: 100}
}

func neutralProfile() domain.FuzzyProfile {
	return domain.FuzzyProfile{
		UserID:            "u1",
		PriceSensitivity:  0.5,
		QualityPreference: 0.5,
		CategoryInterest:  map[string]float64{},
	}
}

func candidate(id string, price, rating, popularity float64, categories ...string) fuzzy.Candidate {
	return fuzzy.Candidate{
		Product: domain.Product{
			ID:            id,
			Price:         price,
			CategoryPaths: categories,
		},
		Rating:     rating,
		Popularity: popularity,
	}
}

func TestRecommend_RatingMonotonic(t *testing.T) {
	t.Parallel()

	rec := fuzzy.NewRecommender(nil, testBounds())

	// Sweep the rating over its whole range with price, popularity and
	// profile fixed; the score must never decrease, including across the
	// medium/high crossover.
	prev := -1.0
	for rating := 0.0; rating <= 5.0; rating += 0.25 {
		results := rec.Recommend(neutralProfile(), []fuzzy.Candidate{
			candidate("p", 450, rating, 10),
		})
		require.Len(t, results, 1)
		assert.GreaterOrEqual(t, results[0].Score, prev, "rating=%v", rating)
		prev = results[0].Score
	}

	results := rec.Recommend(neutralProfile(), []fuzzy.Candidate{
		candidate("low-rated", 100, 1.0, 10),
		candidate("high-rated", 100, 4.8, 10),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "high-rated", results[0].ProductID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRecommend_CategoryInterestBoostsRanking(t *testing.T) {
	t.Parallel()

	profile := neutralProfile()
	profile.CategoryInterest["electronics"] = 1.0

	rec := fuzzy.NewRecommender(nil, testBounds())
	results := rec.Recommend(profile, []fuzzy.Candidate{
		candidate("other", 100, 4.5, 50, "kitchen.pans"),
		candidate("loved-category", 100, 4.5, 50, "electronics.laptops"),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "loved-category", results[0].ProductID)
	assert.InDelta(t, 1.0, results[0].CategoryMatch, 1e-9)
	assert.Zero(t, results[1].CategoryMatch)
}

func TestRecommend_CarriesActivationTrace(t *testing.T) {
	t.Parallel()

	rec := fuzzy.NewRecommender(nil, testBounds())
	results := rec.Recommend(neutralProfile(), []fuzzy.Candidate{
		candidate("p1", 50, 4.5, 80),
	})

	require.Len(t, results, 1)
	require.Len(t, results[0].Activations, len(fuzzy.DefaultRules()))
	for _, a := range results[0].Activations {
		assert.NotEmpty(t, a.Rule)
		assert.GreaterOrEqual(t, a.Strength, 0.0)
		assert.LessOrEqual(t, a.Strength, 1.0)
	}
}

func TestRecommend_ScoreBounds(t *testing.T) {
	t.Parallel()

	rec := fuzzy.NewRecommender(nil, testBounds())
	candidates := []fuzzy.Candidate{
		candidate("cheap-good", 10, 5, 100),
		candidate("pricey-bad", 990, 0.5, 1),
		candidate("nothing", 0, 0, 0),
	}

	for _, res := range rec.Recommend(neutralProfile(), candidates) {
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 1.0)
	}
}

func TestBuildProfile_NoHistory(t *testing.T) {
	t.Parallel()

	profile := fuzzy.BuildProfile("u1", nil, nil, time.Now())

	assert.Equal(t, "u1", profile.UserID)
	assert.InDelta(t, 0.5, profile.PriceSensitivity, 1e-9)
	assert.InDelta(t, 0.5, profile.QualityPreference, 1e-9)
	assert.Empty(t, profile.CategoryInterest)
}

func TestBuildProfile_CheapBuyerIsPriceSensitive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := []domain.PurchaseEvent{
		{UserID: "u1", ProductID: "p1", Category: "kitchen", OccurredAt: now.Add(-24 * time.Hour)},
		{UserID: "u1", ProductID: "p2", Category: "kitchen", OccurredAt: now.Add(-48 * time.Hour)},
	}
	prices := map[string]float64{"p1": 10, "p2": 15}

	profile := fuzzy.BuildProfile("u1", events, func(id string) float64 { return prices[id] }, now)

	assert.Greater(t, profile.PriceSensitivity, 0.5)
	assert.Less(t, profile.QualityPreference, 0.5)
	assert.InDelta(t, 1.0, profile.CategoryInterest["kitchen"], 1e-9)
}

func TestBuildProfile_RecencyWeightsCategories(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := []domain.PurchaseEvent{
		{UserID: "u1", ProductID: "p1", Category: "old", OccurredAt: now.Add(-365 * 24 * time.Hour)},
		{UserID: "u1", ProductID: "p2", Category: "recent", OccurredAt: now.Add(-24 * time.Hour)},
	}

	profile := fuzzy.BuildProfile("u1", events, nil, now)

	// The dominant (recent) category normalizes to 1.
	assert.InDelta(t, 1.0, profile.CategoryInterest["recent"], 1e-9)
	assert.Less(t, profile.CategoryInterest["old"], profile.CategoryInterest["recent"])
}
