package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

// ListRunsQuery lists archived runs, most recently updated first
type ListRunsQuery struct {
	Limit int
}

// ListRunsResponse represents the result of the query
type ListRunsResponse struct {
	Runs []run.Summary
}

// ListRunsHandler handles the ListRuns query
type ListRunsHandler struct {
	runRepo run.Repository
}

// NewListRunsHandler creates a new ListRunsHandler
func NewListRunsHandler(runRepo run.Repository) *ListRunsHandler {
	return &ListRunsHandler{runRepo: runRepo}
}

// Handle executes the ListRuns query
func (h *ListRunsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRunsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRunsQuery")
	}
	if h.runRepo == nil {
		return nil, fmt.Errorf("run archive is not configured")
	}

	runs, err := h.runRepo.List(ctx, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return &ListRunsResponse{Runs: runs}, nil
}
