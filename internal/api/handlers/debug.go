package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmoretti/storeiq/internal/engine"
)

// Debugger produces algorithm introspection reports.
type Debugger interface {
	Debug(ctx context.Context) (*engine.DebugReport, error)
}

// DebugHandler handles the introspection endpoint.
type DebugHandler struct {
	engine Debugger
}

// NewDebugHandler creates a new DebugHandler.
func NewDebugHandler(eng Debugger) *DebugHandler {
	return &DebugHandler{engine: eng}
}

// DebugOutput is the response for the debug endpoint.
type DebugOutput struct {
	Body engine.DebugReport
}

// Debug returns every algorithm's formula, dataset statistics, top
// artifacts, and whether it can currently compute.
func (h *DebugHandler) Debug(
	ctx context.Context,
	_ *struct{},
) (*DebugOutput, error) {
	report, err := h.engine.Debug(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to build debug report: " + err.Error())
	}

	return &DebugOutput{Body: *report}, nil
}

// RegisterDebugRoutes registers the debug endpoint with the Huma API.
func RegisterDebugRoutes(api huma.API, h *DebugHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "debug-report",
		Method:      http.MethodGet,
		Path:        "/api/v1/debug",
		Summary:     "Get the algorithm introspection report",
		Description: "Explains each algorithm: formula, dataset statistics, top artifacts, " +
			"and diagnostics when a subsystem cannot compute.",
		Tags: []string{"system"},
	}, h.Debug)
}
