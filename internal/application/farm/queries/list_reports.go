package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
)

// ReportSource is the running engine's in-memory settlement history
type ReportSource interface {
	RunID() string
	Reports() []economy.WeeklyReport
}

// ListReportsQuery lists weekly settlements of a run, newest first. An empty
// RunID means the running engine's run.
type ListReportsQuery struct {
	RunID string
	Limit int
}

// ListReportsResponse represents the result of the query
type ListReportsResponse struct {
	Reports  []economy.WeeklyReport
	TotalNet float64
}

// ListReportsHandler handles the ListReports query
type ListReportsHandler struct {
	reportRepo economy.ReportRepository
	source     ReportSource
}

// NewListReportsHandler creates a new ListReportsHandler
func NewListReportsHandler(reportRepo economy.ReportRepository, source ReportSource) *ListReportsHandler {
	return &ListReportsHandler{
		reportRepo: reportRepo,
		source:     source,
	}
}

// Handle executes the ListReports query
func (h *ListReportsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListReportsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListReportsQuery")
	}

	runID := query.RunID
	if runID == "" && h.source != nil {
		runID = h.source.RunID()
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	var reports []economy.WeeklyReport
	if h.reportRepo != nil {
		found, err := h.reportRepo.FindByRun(ctx, runID, query.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		reports = found
	} else {
		if h.source == nil || h.source.RunID() != runID {
			return nil, fmt.Errorf("run %s is not archived and not running", runID)
		}
		all := h.source.Reports()
		for i := len(all) - 1; i >= 0; i-- {
			if query.Limit > 0 && len(reports) == query.Limit {
				break
			}
			reports = append(reports, all[i])
		}
	}

	response := &ListReportsResponse{Reports: reports}
	for _, r := range reports {
		response.TotalNet += r.Net
	}
	return response, nil
}
