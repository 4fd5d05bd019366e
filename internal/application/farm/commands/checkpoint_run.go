package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

// SummarySource produces the registry entry of the running engine
type SummarySource interface {
	RunSummary() run.Summary
}

// CheckpointRunCommand refreshes the run registry entry
type CheckpointRunCommand struct{}

// CheckpointRunResponse carries the summary that was written
type CheckpointRunResponse struct {
	Summary run.Summary
	Saved   bool
}

// CheckpointRunHandler handles the CheckpointRun command
type CheckpointRunHandler struct {
	source  SummarySource
	runRepo run.Repository
}

// NewCheckpointRunHandler creates a new CheckpointRunHandler. Without a
// repository the summary is computed but not stored.
func NewCheckpointRunHandler(source SummarySource, runRepo run.Repository) *CheckpointRunHandler {
	return &CheckpointRunHandler{source: source, runRepo: runRepo}
}

// Handle executes the CheckpointRun command
func (h *CheckpointRunHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*CheckpointRunCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckpointRunCommand")
	}

	summary := h.source.RunSummary()
	if h.runRepo == nil {
		return &CheckpointRunResponse{Summary: summary}, nil
	}
	if err := h.runRepo.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to checkpoint run %s: %w", summary.ID, err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Run checkpointed", map[string]interface{}{
		"run_id": summary.ID,
		"week":   summary.Week,
		"money":  summary.Money,
	})
	return &CheckpointRunResponse{Summary: summary, Saved: true}, nil
}
