package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/forecast"
	"github.com/lmoretti/storeiq/internal/store"
)

// Forecaster serves demand forecasts and user purchase predictions.
type Forecaster interface {
	DemandForecast(ctx context.Context, productID string) (forecast.DemandForecast, error)
	NextPurchase(ctx context.Context, userID string) (forecast.NextPurchase, error)
	UserInsights(ctx context.Context, userID string) (forecast.CategoryPosterior, forecast.ChurnInsight, error)
}

// ForecastsHandler handles forecasting reads.
type ForecastsHandler struct {
	engine Forecaster
	store  store.Store
}

// NewForecastsHandler creates a new ForecastsHandler.
func NewForecastsHandler(eng Forecaster, s store.Store) *ForecastsHandler {
	return &ForecastsHandler{engine: eng, store: s}
}

// --- Input/Output types ---

// DemandForecastInput is the input for a product demand forecast.
type DemandForecastInput struct {
	ProductID string `path:"product_id" doc:"Product ID"`
}

// DemandForecastOutput is the response for a product demand forecast.
type DemandForecastOutput struct {
	Body forecast.DemandForecast
}

// NextPurchaseInput is the input for a user's next-purchase prediction.
type NextPurchaseInput struct {
	UserID string `path:"user_id" doc:"User ID"`
}

// NextPurchaseOutput is the response for a user's next-purchase prediction.
type NextPurchaseOutput struct {
	Body forecast.NextPurchase
}

// UserInsightsInput is the input for a user's preference and churn insights.
type UserInsightsInput struct {
	UserID string `path:"user_id" doc:"User ID"`
}

// UserInsightsOutput is the response for a user's preference and churn insights.
type UserInsightsOutput struct {
	Body struct {
		Preferences forecast.CategoryPosterior `json:"preferences"`
		Churn       forecast.ChurnInsight      `json:"churn"`
	}
}

// --- Handlers ---

// DemandForecast projects demand for one product over the configured
// horizon. Products with too little history return a flagged result, not
// an error.
func (h *ForecastsHandler) DemandForecast(
	ctx context.Context,
	input *DemandForecastInput,
) (*DemandForecastOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ProductID); err != nil {
		return nil, huma.Error404NotFound("product not found")
	}

	df, err := h.engine.DemandForecast(ctx, input.ProductID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute forecast: " + err.Error())
	}

	return &DemandForecastOutput{Body: df}, nil
}

// NextPurchase predicts the user's next purchase category distribution.
func (h *ForecastsHandler) NextPurchase(
	ctx context.Context,
	input *NextPurchaseInput,
) (*NextPurchaseOutput, error) {
	np, err := h.engine.NextPurchase(ctx, input.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to predict next purchase: " + err.Error())
	}

	return &NextPurchaseOutput{Body: np}, nil
}

// UserInsights returns the user's Bayesian category preferences and churn risk.
func (h *ForecastsHandler) UserInsights(
	ctx context.Context,
	input *UserInsightsInput,
) (*UserInsightsOutput, error) {
	prefs, churn, err := h.engine.UserInsights(ctx, input.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to compute user insights: " + err.Error())
	}

	resp := &UserInsightsOutput{}
	resp.Body.Preferences = prefs
	resp.Body.Churn = churn
	return resp, nil
}

// RegisterForecastRoutes registers forecasting endpoints with the Huma API.
func RegisterForecastRoutes(api huma.API, h *ForecastsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "demand-forecast",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{product_id}/forecast",
		Summary:     "Forecast product demand",
		Description: "Projects daily demand with confidence intervals over the configured horizon.",
		Tags:        []string{"forecasts"},
		Errors:      []int{http.StatusNotFound},
	}, h.DemandForecast)

	huma.Register(api, huma.Operation{
		OperationID: "next-purchase",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{user_id}/next-purchase",
		Summary:     "Predict a user's next purchase",
		Description: "Returns the Markov next-category distribution and expected days to purchase.",
		Tags:        []string{"forecasts"},
	}, h.NextPurchase)

	huma.Register(api, huma.Operation{
		OperationID: "user-insights",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{user_id}/insights",
		Summary:     "Get user preference and churn insights",
		Description: "Returns Bayesian category preferences and the recency/frequency churn risk.",
		Tags:        []string{"forecasts"},
	}, h.UserInsights)
}
