package client

import (
	"context"
	"fmt"

	"github.com/lmoretti/storeiq/internal/engine"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// GetStrategy returns the active recommendation strategy.
func (c *Client) GetStrategy(ctx context.Context) (domain.Strategy, error) {
	var out struct {
		Strategy domain.Strategy `json:"strategy"`
	}
	if err := c.get(ctx, "/api/v1/strategy", &out); err != nil {
		return "", err
	}
	return out.Strategy, nil
}

// SetStrategy switches the active recommendation strategy.
func (c *Client) SetStrategy(ctx context.Context, strategy domain.Strategy) error {
	body := struct {
		Strategy domain.Strategy `json:"strategy"`
	}{Strategy: strategy}
	return c.put(ctx, "/api/v1/strategy", body, nil)
}

// TriggerRefresh runs a named refresh job ("all" runs everything).
func (c *Client) TriggerRefresh(ctx context.Context, job string) error {
	return c.post(ctx, "/api/v1/refresh/"+job, nil, nil)
}

// ListJobs returns refresh job runs, optionally filtered by job name.
func (c *Client) ListJobs(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	path := fmt.Sprintf("/api/v1/jobs?limit=%d", limit)
	if jobName != "" {
		path += "&job=" + jobName
	}
	var runs []domain.JobRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetSystemState returns aggregate catalog and artifact counts.
func (c *Client) GetSystemState(ctx context.Context) (*domain.SystemState, error) {
	var state domain.SystemState
	if err := c.get(ctx, "/api/v1/system/state", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetDebugReport returns the algorithm introspection report.
func (c *Client) GetDebugReport(ctx context.Context) (*engine.DebugReport, error) {
	var report engine.DebugReport
	if err := c.get(ctx, "/api/v1/debug", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
