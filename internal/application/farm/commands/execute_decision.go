package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

var validate = validator.New()

// DecisionEngine is the part of the simulation a decision command needs
type DecisionEngine interface {
	Execute(cmd simulation.Command) (simulation.Result, error)
}

// ExecuteDecisionCommand is a player action as it arrives from a CLI or API
type ExecuteDecisionCommand struct {
	Action     string  `validate:"required,oneof=plant irrigate fertilize harvest sell change_farm_type"`
	CropType   string  `validate:"required_if=Action plant,required_if=Action harvest,required_if=Action sell"`
	Area       float64 `validate:"required_if=Action plant,omitempty,gt=0"`
	Intensity  string  `validate:"required_if=Action irrigate"`
	Fertilizer string  `validate:"required_if=Action fertilize"`
	Amount     float64 `validate:"required_if=Action sell,omitempty,gt=0"`
	FarmType   string  `validate:"required_if=Action change_farm_type"`
}

// ExecuteDecisionResponse reports the recorded decision
type ExecuteDecisionResponse struct {
	DecisionID string
	Kind       string
	Outcome    string
	Score      float64
	Reason     string
	Message    string
	Result     simulation.Result
}

// Applied reports whether the action changed the farm
func (r *ExecuteDecisionResponse) Applied() bool {
	return r.Outcome == string(decision.OutcomeApplied)
}

// ExecuteDecisionHandler runs an action against the engine and archives the
// recorded decision
type ExecuteDecisionHandler struct {
	engine       DecisionEngine
	decisionRepo decision.Repository
}

// NewExecuteDecisionHandler creates a new ExecuteDecisionHandler. A nil
// repository keeps decisions in the run's memory only.
func NewExecuteDecisionHandler(engine DecisionEngine, decisionRepo decision.Repository) *ExecuteDecisionHandler {
	return &ExecuteDecisionHandler{
		engine:       engine,
		decisionRepo: decisionRepo,
	}
}

// Handle executes the ExecuteDecision command.
//
// A rule rejection (not enough land, wrong season for harvest, ...) is a
// normal outcome and comes back in the response with a nil error. Errors are
// reserved for malformed commands and archive failures.
func (h *ExecuteDecisionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExecuteDecisionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteDecisionCommand")
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("invalid decision command: %w", err)
	}

	simCmd, err := toSimulationCommand(cmd)
	if err != nil {
		return nil, err
	}

	result, execErr := h.engine.Execute(simCmd)
	var vErr *shared.ValidationError
	if execErr != nil && !errors.As(execErr, &vErr) {
		return nil, fmt.Errorf("failed to execute %s: %w", cmd.Action, execErr)
	}
	if result.Decision == nil {
		return nil, fmt.Errorf("%s produced no decision record", cmd.Action)
	}

	if err := archiveDecision(ctx, h.decisionRepo, result.Decision); err != nil {
		return nil, err
	}

	logger := logging.LoggerFromContext(ctx)
	logger.Log(logging.LevelInfo, "Decision recorded", map[string]interface{}{
		"decision_id": result.Decision.ID().String(),
		"kind":        string(result.Decision.Kind()),
		"outcome":     string(result.Decision.Outcome()),
		"score":       result.Decision.Score(),
	})

	return &ExecuteDecisionResponse{
		DecisionID: result.Decision.ID().String(),
		Kind:       string(result.Decision.Kind()),
		Outcome:    string(result.Decision.Outcome()),
		Score:      result.Decision.Score(),
		Reason:     result.Decision.Reason(),
		Message:    result.Decision.Message(),
		Result:     result,
	}, nil
}

func toSimulationCommand(cmd *ExecuteDecisionCommand) (simulation.Command, error) {
	var filter *crop.Type
	if cmd.CropType != "" {
		t := crop.Type(strings.ToLower(strings.TrimSpace(cmd.CropType)))
		filter = &t
	}

	switch cmd.Action {
	case "plant":
		return simulation.PlantCommand{CropType: *filter, Area: cmd.Area}, nil
	case "irrigate":
		return simulation.IrrigateCommand{Filter: filter, Intensity: cmd.Intensity}, nil
	case "fertilize":
		return simulation.FertilizeCommand{Filter: filter, Kind: cmd.Fertilizer}, nil
	case "harvest":
		return simulation.HarvestCommand{CropType: *filter}, nil
	case "sell":
		return simulation.SellCommand{CropType: *filter, Amount: cmd.Amount}, nil
	case "change_farm_type":
		return simulation.ChangeFarmTypeCommand{FarmType: cmd.FarmType}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func archiveDecision(ctx context.Context, repo decision.Repository, d *decision.Decision) error {
	if repo == nil {
		return nil
	}
	if err := repo.Save(ctx, d); err != nil {
		return fmt.Errorf("failed to archive decision %s: %w", d.ID(), err)
	}
	return nil
}
