package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/store"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// SentimentHandler handles sentiment record reads.
type SentimentHandler struct {
	store store.Store
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(s store.Store) *SentimentHandler {
	return &SentimentHandler{store: s}
}

// GetSentimentInput is the input for getting a product's sentiment.
type GetSentimentInput struct {
	ProductID string `path:"product_id" doc:"Product ID"`
}

// GetSentimentOutput is the response for getting a product's sentiment.
type GetSentimentOutput struct {
	Body domain.SentimentRecord
}

// GetSentiment returns the last computed sentiment record for a product,
// including the per-source score breakdown.
func (h *SentimentHandler) GetSentiment(
	ctx context.Context,
	input *GetSentimentInput,
) (*GetSentimentOutput, error) {
	rec, err := h.store.GetSentiment(ctx, input.ProductID)
	if err != nil {
		return nil, huma.Error404NotFound("sentiment record not found")
	}

	return &GetSentimentOutput{Body: *rec}, nil
}

// RegisterSentimentRoutes registers sentiment endpoints with the Huma API.
func RegisterSentimentRoutes(api huma.API, h *SentimentHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-sentiment",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{product_id}/sentiment",
		Summary:     "Get a product's sentiment",
		Description: "Returns the weighted multi-source sentiment score with its per-source breakdown.",
		Tags:        []string{"sentiment"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetSentiment)
}
