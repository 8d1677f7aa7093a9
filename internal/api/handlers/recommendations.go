package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/engine"
	"github.com/lmoretti/storeiq/internal/store"
)

// Recommender serves similarity-based recommendations.
type Recommender interface {
	SimilarProducts(ctx context.Context, productID string, k int) (*engine.Recommendation, error)
	RecommendForUser(ctx context.Context, userID string, k int) (*engine.Recommendation, error)
}

// RecommendationsHandler handles similarity recommendation reads.
type RecommendationsHandler struct {
	engine Recommender
	store  store.Store
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(eng Recommender, s store.Store) *RecommendationsHandler {
	return &RecommendationsHandler{engine: eng, store: s}
}

// --- Input/Output types ---

// SimilarProductsInput is the input for listing a product's neighbors.
type SimilarProductsInput struct {
	ProductID string `path:"product_id" doc:"Product ID"`
	K         int    `query:"k" default:"10" minimum:"1" maximum:"100" doc:"Maximum neighbors to return"`
}

// SimilarProductsOutput is the response for listing a product's neighbors.
type SimilarProductsOutput struct {
	Body engine.Recommendation
}

// UserRecommendationsInput is the input for a user's recommendations.
type UserRecommendationsInput struct {
	UserID string `path:"user_id" doc:"User ID"`
	K      int    `query:"k" default:"10" minimum:"1" maximum:"100" doc:"Maximum products to return"`
}

// UserRecommendationsOutput is the response for a user's recommendations.
type UserRecommendationsOutput struct {
	Body engine.Recommendation
}

// --- Handlers ---

// SimilarProducts returns the top-k neighbors of a product under the
// active strategy. An unknown product yields 404.
func (h *RecommendationsHandler) SimilarProducts(
	ctx context.Context,
	input *SimilarProductsInput,
) (*SimilarProductsOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ProductID); err != nil {
		return nil, huma.Error404NotFound("product not found")
	}

	rec, err := h.engine.SimilarProducts(ctx, input.ProductID, input.K)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute similar products: " + err.Error())
	}

	return &SimilarProductsOutput{Body: *rec}, nil
}

// UserRecommendations returns personalized recommendations for a user,
// falling back to recent products when the user has no history.
func (h *RecommendationsHandler) UserRecommendations(
	ctx context.Context,
	input *UserRecommendationsInput,
) (*UserRecommendationsOutput, error) {
	rec, err := h.engine.RecommendForUser(ctx, input.UserID, input.K)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute recommendations: " + err.Error())
	}

	return &UserRecommendationsOutput{Body: *rec}, nil
}

// RegisterRecommendationRoutes registers recommendation endpoints with the Huma API.
func RegisterRecommendationRoutes(api huma.API, h *RecommendationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "similar-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{product_id}/similar",
		Summary:     "List similar products",
		Description: "Returns the most similar products under the active strategy, ordered by score.",
		Tags:        []string{"recommendations"},
		Errors:      []int{http.StatusNotFound},
	}, h.SimilarProducts)

	huma.Register(api, huma.Operation{
		OperationID: "user-recommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{user_id}/recommendations",
		Summary:     "Recommend products for a user",
		Description: "Merges neighbor lists of the user's purchase history. " +
			"Users without history receive a recent-product fallback.",
		Tags: []string{"recommendations"},
	}, h.UserRecommendations)
}
