package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// FuzzyRecommender serves fuzzy-logic recommendations.
type FuzzyRecommender interface {
	FuzzyRecommend(ctx context.Context, userID string, k int) ([]domain.FuzzyResult, error)
}

// FuzzyHandler handles fuzzy recommendation reads.
type FuzzyHandler struct {
	engine FuzzyRecommender
}

// NewFuzzyHandler creates a new FuzzyHandler.
func NewFuzzyHandler(eng FuzzyRecommender) *FuzzyHandler {
	return &FuzzyHandler{engine: eng}
}

// FuzzyRecommendationsInput is the input for fuzzy recommendations.
type FuzzyRecommendationsInput struct {
	UserID string `path:"user_id" doc:"User ID"`
	K      int    `query:"k" default:"10" minimum:"1" maximum:"100" doc:"Maximum products to return"`
}

// FuzzyRecommendationsOutput is the response for fuzzy recommendations.
type FuzzyRecommendationsOutput struct {
	Body []domain.FuzzyResult
}

// FuzzyRecommendations ranks products for a user with the fuzzy rule base.
// Each result carries the fired rules so the ranking can be audited.
func (h *FuzzyHandler) FuzzyRecommendations(
	ctx context.Context,
	input *FuzzyRecommendationsInput,
) (*FuzzyRecommendationsOutput, error) {
	results, err := h.engine.FuzzyRecommend(ctx, input.UserID, input.K)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute fuzzy recommendations: " + err.Error())
	}

	if results == nil {
		results = []domain.FuzzyResult{}
	}

	return &FuzzyRecommendationsOutput{Body: results}, nil
}

// RegisterFuzzyRoutes registers fuzzy recommendation endpoints with the Huma API.
func RegisterFuzzyRoutes(api huma.API, h *FuzzyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "fuzzy-recommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{user_id}/fuzzy-recommendations",
		Summary:     "Fuzzy-logic recommendations for a user",
		Description: "Ranks the catalog with Mamdani inference over the user's taste profile, " +
			"returning per-rule activation traces.",
		Tags: []string{"recommendations"},
	}, h.FuzzyRecommendations)
}
