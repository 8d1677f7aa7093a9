package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/store"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// RulesHandler handles association rule reads.
type RulesHandler struct {
	store store.Store
}

// NewRulesHandler creates a new RulesHandler.
func NewRulesHandler(s store.Store) *RulesHandler {
	return &RulesHandler{store: s}
}

// --- Input/Output types ---

// ListRulesInput is the input for listing association rules.
type ListRulesInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum rules to return"`
}

// ListRulesOutput is the response for listing association rules.
type ListRulesOutput struct {
	Body []domain.AssociationRule
}

// ProductRulesInput is the input for a product's bought-together rules.
type ProductRulesInput struct {
	ProductID string `path:"product_id" doc:"Product ID (rule antecedent)"`
	Limit     int    `query:"limit" default:"10" minimum:"1" maximum:"100" doc:"Maximum rules to return"`
}

// ProductRulesOutput is the response for a product's bought-together rules.
type ProductRulesOutput struct {
	Body []domain.AssociationRule
}

// --- Handlers ---

// ListRules returns mined association rules ordered by lift.
func (h *RulesHandler) ListRules(
	ctx context.Context,
	input *ListRulesInput,
) (*ListRulesOutput, error) {
	rules, err := h.store.ListRules(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list rules: " + err.Error())
	}

	if rules == nil {
		rules = []domain.AssociationRule{}
	}

	return &ListRulesOutput{Body: rules}, nil
}

// ProductRules returns "frequently bought together" rules with the given
// product as antecedent. A product with no rules yields an empty list.
func (h *RulesHandler) ProductRules(
	ctx context.Context,
	input *ProductRulesInput,
) (*ProductRulesOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ProductID); err != nil {
		return nil, huma.Error404NotFound("product not found")
	}

	rules, err := h.store.ListProductRules(ctx, input.ProductID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list product rules: " + err.Error())
	}

	if rules == nil {
		rules = []domain.AssociationRule{}
	}

	return &ProductRulesOutput{Body: rules}, nil
}

// RegisterRuleRoutes registers association rule endpoints with the Huma API.
func RegisterRuleRoutes(api huma.API, h *RulesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/api/v1/rules",
		Summary:     "List association rules",
		Description: "Returns mined pair rules ordered by lift descending.",
		Tags:        []string{"rules"},
	}, h.ListRules)

	huma.Register(api, huma.Operation{
		OperationID: "product-rules",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{product_id}/rules",
		Summary:     "List frequently-bought-together rules for a product",
		Description: "Returns rules whose antecedent is the given product, ordered by lift.",
		Tags:        []string{"rules"},
		Errors:      []int{http.StatusNotFound},
	}, h.ProductRules)
}
