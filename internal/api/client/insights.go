package client

import (
	"context"
	"fmt"

	"github.com/lmoretti/storeiq/internal/forecast"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// ListRules returns mined association rules ordered by lift.
func (c *Client) ListRules(ctx context.Context, limit int) ([]domain.AssociationRule, error) {
	var rules []domain.AssociationRule
	if err := c.get(ctx, fmt.Sprintf("/api/v1/rules?limit=%d", limit), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// ProductRules returns frequently-bought-together rules for a product.
func (c *Client) ProductRules(ctx context.Context, productID string, limit int) ([]domain.AssociationRule, error) {
	var rules []domain.AssociationRule
	path := fmt.Sprintf("/api/v1/products/%s/rules?limit=%d", productID, limit)
	if err := c.get(ctx, path, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// GetSentiment returns a product's sentiment record with its source breakdown.
func (c *Client) GetSentiment(ctx context.Context, productID string) (*domain.SentimentRecord, error) {
	var rec domain.SentimentRecord
	if err := c.get(ctx, "/api/v1/products/"+productID+"/sentiment", &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DemandForecast returns a product's demand projection.
func (c *Client) DemandForecast(ctx context.Context, productID string) (*forecast.DemandForecast, error) {
	var df forecast.DemandForecast
	if err := c.get(ctx, "/api/v1/products/"+productID+"/forecast", &df); err != nil {
		return nil, err
	}
	return &df, nil
}

// NextPurchase returns a user's next-purchase prediction.
func (c *Client) NextPurchase(ctx context.Context, userID string) (*forecast.NextPurchase, error) {
	var np forecast.NextPurchase
	if err := c.get(ctx, "/api/v1/users/"+userID+"/next-purchase", &np); err != nil {
		return nil, err
	}
	return &np, nil
}

// UserInsights holds a user's preference posterior and churn risk.
type UserInsights struct {
	Preferences forecast.CategoryPosterior `json:"preferences"`
	Churn       forecast.ChurnInsight      `json:"churn"`
}

// GetUserInsights returns a user's Bayesian preferences and churn risk.
func (c *Client) GetUserInsights(ctx context.Context, userID string) (*UserInsights, error) {
	var out UserInsights
	if err := c.get(ctx, "/api/v1/users/"+userID+"/insights", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
