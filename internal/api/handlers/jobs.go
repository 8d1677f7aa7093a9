package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

// JobsProvider defines the store methods required by the jobs handler.
type JobsProvider interface {
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
}

// JobsHandler handles refresh job history requests.
type JobsHandler struct {
	store JobsProvider
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(s JobsProvider) *JobsHandler {
	return &JobsHandler{store: s}
}

// ListJobsInput is the input for listing refresh job runs.
type ListJobsInput struct {
	Job   string `query:"job" doc:"Filter to one job name (e.g. similarity_refresh)"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Maximum runs to return"`
}

// ListJobsOutput is the response body for listing refresh job runs.
type ListJobsOutput struct {
	Body []domain.JobRun
}

// ListJobs returns refresh job runs, newest first, optionally filtered to
// one job name.
func (h *JobsHandler) ListJobs(
	ctx context.Context,
	input *ListJobsInput,
) (*ListJobsOutput, error) {
	runs, err := h.store.ListJobRuns(ctx, input.Job, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing jobs failed: " + err.Error())
	}

	if runs == nil {
		runs = []domain.JobRun{}
	}

	return &ListJobsOutput{Body: runs}, nil
}

// RegisterJobRoutes registers refresh job endpoints with the Huma API.
func RegisterJobRoutes(api huma.API, h *JobsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List refresh job runs",
		Description: "Returns refresh job runs newest first, optionally filtered by job name.",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListJobs)
}
