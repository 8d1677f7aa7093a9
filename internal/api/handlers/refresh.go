package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Refresher triggers derived-artifact refresh jobs, subject to the
// engine's trigger rate limit.
type Refresher interface {
	RunRefresh(ctx context.Context, job string) error
	AllowTrigger() bool
}

// RefreshHandler handles manual recompute triggers.
type RefreshHandler struct {
	engine Refresher
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(eng Refresher) *RefreshHandler {
	return &RefreshHandler{engine: eng}
}

// RefreshInput is the input for a manual refresh trigger.
type RefreshInput struct {
	Job string `path:"job" enum:"similarity_refresh,rule_mining,sentiment_refresh,forecast_refresh,all" doc:"Refresh job to run"`
}

// RefreshOutput is the response for a manual refresh trigger.
type RefreshOutput struct {
	Body struct {
		Status string `json:"status" example:"refresh completed" doc:"Refresh status"`
		Job    string `json:"job" example:"similarity_refresh" doc:"Job that ran"`
	}
}

// Refresh runs a named refresh job synchronously. Triggers beyond the
// rate budget are rejected with 429 so admin tooling cannot stack
// full-catalog recomputes.
func (h *RefreshHandler) Refresh(
	ctx context.Context,
	input *RefreshInput,
) (*RefreshOutput, error) {
	if !h.engine.AllowTrigger() {
		return nil, huma.Error429TooManyRequests("refresh trigger rate limit exceeded")
	}

	if err := h.engine.RunRefresh(ctx, input.Job); err != nil {
		return nil, huma.Error500InternalServerError("refresh failed: " + err.Error())
	}

	resp := &RefreshOutput{}
	resp.Body.Status = "refresh completed"
	resp.Body.Job = input.Job
	return resp, nil
}

// RegisterRefreshRoutes registers refresh trigger endpoints with the Huma API.
func RegisterRefreshRoutes(api huma.API, h *RefreshHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/refresh/{job}",
		Summary:     "Trigger a derived-artifact refresh",
		Description: "Runs one refresh job (or all) synchronously. Rate limited.",
		Tags:        []string{"system"},
		Errors:      []int{http.StatusTooManyRequests, http.StatusInternalServerError},
	}, h.Refresh)
}
