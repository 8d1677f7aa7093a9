package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// StrategySwitcher exposes the engine's active-strategy control.
type StrategySwitcher interface {
	ActiveStrategy() domain.Strategy
	SetActiveStrategy(s domain.Strategy) error
}

// StrategyHandler handles active-strategy reads and switches.
type StrategyHandler struct {
	engine StrategySwitcher
}

// NewStrategyHandler creates a new StrategyHandler.
func NewStrategyHandler(eng StrategySwitcher) *StrategyHandler {
	return &StrategyHandler{engine: eng}
}

// StrategyBody is the active strategy representation.
type StrategyBody struct {
	Strategy domain.Strategy `json:"strategy" example:"collaborative" doc:"Active recommendation strategy"`
}

// GetStrategyOutput is the response for reading the active strategy.
type GetStrategyOutput struct {
	Body StrategyBody
}

// SetStrategyInput is the input for switching the active strategy.
type SetStrategyInput struct {
	Body StrategyBody
}

// SetStrategyOutput is the response for switching the active strategy.
type SetStrategyOutput struct {
	Body StrategyBody
}

// GetStrategy returns the strategy currently serving recommendations.
func (h *StrategyHandler) GetStrategy(
	ctx context.Context,
	_ *struct{},
) (*GetStrategyOutput, error) {
	return &GetStrategyOutput{Body: StrategyBody{Strategy: h.engine.ActiveStrategy()}}, nil
}

// SetStrategy switches the serving strategy at runtime. Unknown strategy
// names are rejected with 422.
func (h *StrategyHandler) SetStrategy(
	ctx context.Context,
	input *SetStrategyInput,
) (*SetStrategyOutput, error) {
	if err := h.engine.SetActiveStrategy(input.Body.Strategy); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	return &SetStrategyOutput{Body: StrategyBody{Strategy: input.Body.Strategy}}, nil
}

// RegisterStrategyRoutes registers strategy endpoints with the Huma API.
func RegisterStrategyRoutes(api huma.API, h *StrategyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-strategy",
		Method:      http.MethodGet,
		Path:        "/api/v1/strategy",
		Summary:     "Get the active recommendation strategy",
		Tags:        []string{"system"},
	}, h.GetStrategy)

	huma.Register(api, huma.Operation{
		OperationID: "set-strategy",
		Method:      http.MethodPut,
		Path:        "/api/v1/strategy",
		Summary:     "Switch the active recommendation strategy",
		Description: "Switches between content_based and collaborative at runtime.",
		Tags:        []string{"system"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.SetStrategy)
}
