package simulation

import (
	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

// CropView is a crop plus derived read-only fields
type CropView struct {
	crop.State
	EstimatedWeeksRemaining float64 `json:"estimated_weeks_remaining"`
}

// State is a deep copy of the whole simulation for hosts and reports
type State struct {
	RunID       string                 `json:"run_id"`
	FarmType    economy.FarmType       `json:"farm_type"`
	Clock       calendar.State         `json:"clock"`
	Crops       []CropView             `json:"crops"`
	Land        land.State             `json:"land"`
	Resources   economy.Resources      `json:"resources"`
	Inventory   economy.Inventory      `json:"inventory"`
	Costs       economy.OperatingCosts `json:"costs"`
	Environment environment.Snapshot   `json:"environment"`
	WeekIncome  float64                `json:"week_income"`
	Decisions   decision.Summary       `json:"decisions"`
}

// Snapshot returns a deep copy of the current state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	crops := make([]CropView, 0, len(e.farm.crops))
	for _, c := range e.farm.crops {
		crops = append(crops, CropView{
			State:                   e.processor.cropState(c),
			EstimatedWeeksRemaining: e.lifecycle.EstimatedWeeksRemaining(c),
		})
	}

	return State{
		RunID:       e.cfg.RunID,
		FarmType:    e.farm.preset.Type,
		Clock:       e.clock.State(),
		Crops:       crops,
		Land:        e.farm.land.State(),
		Resources:   e.farm.resources,
		Inventory:   e.farm.inventory.Clone(),
		Costs:       e.farm.costs,
		Environment: e.env,
		WeekIncome:  e.farm.weekIncome,
		Decisions:   e.decisions.Summarize(),
	}
}

// RunSummary returns the registry entry for this run
func (e *Engine) RunSummary() run.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := e.decisions.Summarize()
	return run.Summary{
		ID:         e.cfg.RunID,
		FarmType:   string(e.farm.preset.Type),
		StartedAt:  e.startedAt,
		UpdatedAt:  e.wall.Now(),
		Week:       e.clock.Week(),
		Year:       e.clock.Year(),
		Money:      e.farm.resources.Money,
		Decisions:  summary.Total,
		TotalScore: summary.TotalScore,
	}
}
