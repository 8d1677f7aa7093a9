package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/store"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// ProductsHandler handles catalog read operations.
type ProductsHandler struct {
	store store.Store
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(s store.Store) *ProductsHandler {
	return &ProductsHandler{store: s}
}

// ListProductsOutput is the response for listing the catalog.
type ListProductsOutput struct {
	Body []domain.Product
}

// GetProductInput is the input for getting a single product.
type GetProductInput struct {
	ProductID string `path:"product_id" doc:"Product ID"`
}

// GetProductOutput is the response for getting a single product.
type GetProductOutput struct {
	Body domain.Product
}

// ListProducts returns the full catalog.
func (h *ProductsHandler) ListProducts(
	ctx context.Context,
	_ *struct{},
) (*ListProductsOutput, error) {
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list products: " + err.Error())
	}

	if products == nil {
		products = []domain.Product{}
	}

	return &ListProductsOutput{Body: products}, nil
}

// GetProduct returns a single product by ID.
func (h *ProductsHandler) GetProduct(
	ctx context.Context,
	input *GetProductInput,
) (*GetProductOutput, error) {
	p, err := h.store.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, huma.Error404NotFound("product not found")
	}

	return &GetProductOutput{Body: *p}, nil
}

// RegisterProductRoutes registers catalog read endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Returns the full catalog.",
		Tags:        []string{"catalog"},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{product_id}",
		Summary:     "Get a product",
		Description: "Returns a single product by ID.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetProduct)
}
