package client

import (
	"context"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/api/v1/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/v1/products/"+productID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
