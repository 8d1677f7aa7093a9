package client

import (
	"context"
	"fmt"

	"github.com/lmoretti/storeiq/internal/engine"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// SimilarProducts returns the top-k neighbors of a product under the
// active strategy.
func (c *Client) SimilarProducts(ctx context.Context, productID string, k int) (*engine.Recommendation, error) {
	var rec engine.Recommendation
	path := fmt.Sprintf("/api/v1/products/%s/similar?k=%d", productID, k)
	if err := c.get(ctx, path, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UserRecommendations returns personalized recommendations for a user.
func (c *Client) UserRecommendations(ctx context.Context, userID string, k int) (*engine.Recommendation, error) {
	var rec engine.Recommendation
	path := fmt.Sprintf("/api/v1/users/%s/recommendations?k=%d", userID, k)
	if err := c.get(ctx, path, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FuzzyRecommendations returns fuzzy-logic recommendations for a user.
func (c *Client) FuzzyRecommendations(ctx context.Context, userID string, k int) ([]domain.FuzzyResult, error) {
	var results []domain.FuzzyResult
	path := fmt.Sprintf("/api/v1/users/%s/fuzzy-recommendations?k=%d", userID, k)
	if err := c.get(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}
