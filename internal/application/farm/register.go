package farm

import (
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

// Dependencies are what the farm handlers are built from. Repositories are
// optional; without them decisions and reports live only in the engine.
type Dependencies struct {
	Engine       *simulation.Engine
	Autopilot    *simulation.Autopilot
	DecisionRepo decision.Repository
	ReportRepo   economy.ReportRepository
	RunRepo      run.Repository
}

// RegisterHandlers wires every farm command and query into m
func RegisterHandlers(m mediator.Mediator, deps Dependencies) error {
	if deps.Engine == nil {
		return fmt.Errorf("engine is required")
	}

	registrations := []func() error{
		func() error {
			return mediator.RegisterHandler[*commands.ExecuteDecisionCommand](m, commands.NewExecuteDecisionHandler(deps.Engine, deps.DecisionRepo))
		},
		func() error {
			return mediator.RegisterHandler[*commands.AdvanceTimeCommand](m, commands.NewAdvanceTimeHandler(deps.Engine, deps.ReportRepo))
		},
		func() error {
			return mediator.RegisterHandler[*commands.RunAutopilotCommand](m, commands.NewRunAutopilotHandler(deps.Engine, deps.Autopilot, deps.DecisionRepo))
		},
		func() error {
			return mediator.RegisterHandler[*commands.CheckpointRunCommand](m, commands.NewCheckpointRunHandler(deps.Engine, deps.RunRepo))
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetFarmStatusQuery](m, queries.NewGetFarmStatusHandler(deps.Engine))
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetMarketPricesQuery](m, queries.NewGetMarketPricesHandler(deps.Engine))
		},
		func() error {
			return mediator.RegisterHandler[*queries.GetHarvestForecastQuery](m, queries.NewGetHarvestForecastHandler(deps.Engine))
		},
		func() error {
			return mediator.RegisterHandler[*queries.ListDecisionsQuery](m, queries.NewListDecisionsHandler(deps.DecisionRepo, deps.Engine))
		},
		func() error {
			return mediator.RegisterHandler[*queries.ListReportsQuery](m, queries.NewListReportsHandler(deps.ReportRepo, deps.Engine))
		},
		func() error {
			return mediator.RegisterHandler[*queries.ListRunsQuery](m, queries.NewListRunsHandler(deps.RunRepo))
		},
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register farm handler: %w", err)
		}
	}
	return nil
}

// RegisterArchiveHandlers wires the read-only archive queries for hosts that
// inspect past runs without starting an engine
func RegisterArchiveHandlers(m mediator.Mediator, decisionRepo decision.Repository, reportRepo economy.ReportRepository, runRepo run.Repository) error {
	if decisionRepo == nil || reportRepo == nil || runRepo == nil {
		return fmt.Errorf("archive repositories are required")
	}
	if err := mediator.RegisterHandler[*queries.ListDecisionsQuery](m, queries.NewListDecisionsHandler(decisionRepo, nil)); err != nil {
		return fmt.Errorf("failed to register archive handler: %w", err)
	}
	if err := mediator.RegisterHandler[*queries.ListReportsQuery](m, queries.NewListReportsHandler(reportRepo, nil)); err != nil {
		return fmt.Errorf("failed to register archive handler: %w", err)
	}
	if err := mediator.RegisterHandler[*queries.ListRunsQuery](m, queries.NewListRunsHandler(runRepo)); err != nil {
		return fmt.Errorf("failed to register archive handler: %w", err)
	}
	return nil
}
