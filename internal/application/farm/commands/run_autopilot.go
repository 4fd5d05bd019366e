package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
)

// RunAutopilotCommand lets the built-in strategy take one round of decisions
type RunAutopilotCommand struct{}

// RunAutopilotResponse lists the decisions the strategy made
type RunAutopilotResponse struct {
	Results []simulation.Result
	Applied int
}

// RunAutopilotHandler handles the RunAutopilot command
type RunAutopilotHandler struct {
	engine       *simulation.Engine
	pilot        *simulation.Autopilot
	decisionRepo decision.Repository
}

// NewRunAutopilotHandler creates a new RunAutopilotHandler
func NewRunAutopilotHandler(engine *simulation.Engine, pilot *simulation.Autopilot, decisionRepo decision.Repository) *RunAutopilotHandler {
	if pilot == nil {
		pilot = simulation.NewAutopilot(simulation.DefaultAutopilotConfig(), engine.Catalog())
	}
	return &RunAutopilotHandler{
		engine:       engine,
		pilot:        pilot,
		decisionRepo: decisionRepo,
	}
}

// Handle executes the RunAutopilot command
func (h *RunAutopilotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*RunAutopilotCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunAutopilotCommand")
	}

	results := h.pilot.Step(h.engine)
	response := &RunAutopilotResponse{Results: results}
	for _, r := range results {
		if r.Decision == nil {
			continue
		}
		if r.Decision.Succeeded() {
			response.Applied++
		}
		if err := archiveDecision(ctx, h.decisionRepo, r.Decision); err != nil {
			return response, err
		}
	}

	if len(results) > 0 {
		logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Autopilot step", map[string]interface{}{
			"decisions": len(results),
			"applied":   response.Applied,
		})
	}
	return response, nil
}
