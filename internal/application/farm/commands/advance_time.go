package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
)

// TickingEngine is the part of the simulation that advances time
type TickingEngine interface {
	RunID() string
	Tick(elapsed time.Duration) simulation.TickReport
	Reports() []economy.WeeklyReport
}

// AdvanceTimeCommand feeds elapsed wall time to the engine
type AdvanceTimeCommand struct {
	Elapsed time.Duration `validate:"gte=0"`
}

// AdvanceTimeResponse reports what the tick did
type AdvanceTimeResponse struct {
	Report          simulation.TickReport
	ReportsArchived int
}

// AdvanceTimeHandler ticks the engine and archives the weekly settlements the
// tick produced
type AdvanceTimeHandler struct {
	engine     TickingEngine
	reportRepo economy.ReportRepository

	mu           sync.Mutex
	archivedWeek uint32
}

// NewAdvanceTimeHandler creates a new AdvanceTimeHandler. A nil repository
// skips archiving.
func NewAdvanceTimeHandler(engine TickingEngine, reportRepo economy.ReportRepository) *AdvanceTimeHandler {
	return &AdvanceTimeHandler{
		engine:     engine,
		reportRepo: reportRepo,
	}
}

// Handle executes the AdvanceTime command
func (h *AdvanceTimeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AdvanceTimeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AdvanceTimeCommand")
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("invalid advance command: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	report := h.engine.Tick(cmd.Elapsed)
	response := &AdvanceTimeResponse{Report: report}
	if report.WeeksAdvanced == 0 || h.reportRepo == nil {
		return response, nil
	}

	logger := logging.LoggerFromContext(ctx)
	for _, weekly := range h.engine.Reports() {
		if weekly.Week <= h.archivedWeek {
			continue
		}
		if err := h.reportRepo.Save(ctx, h.engine.RunID(), weekly); err != nil {
			logger.Log(logging.LevelError, "Failed to archive weekly report", map[string]interface{}{
				"week":  weekly.Week,
				"error": err.Error(),
			})
			return response, fmt.Errorf("failed to archive week %d: %w", weekly.Week, err)
		}
		h.archivedWeek = weekly.Week
		response.ReportsArchived++
	}

	return response, nil
}
