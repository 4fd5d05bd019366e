package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

// runFlags are the engine overrides shared by run and play
type runFlags struct {
	farmType  string
	farmSize  float64
	seed      int64
	priceMode string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.farmType, "farm-type", "", "Farm preset: smallholder, industrial or organic")
	cmd.Flags().Float64Var(&f.farmSize, "farm-size", 0, "Override the preset's land in hectares")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Market volatility seed (0 = random)")
	cmd.Flags().StringVar(&f.priceMode, "price-mode", "", "Market price mode: spot or weekly")
}

// apply layers flags over config, then the user's default farm type
func (f *runFlags) apply(cfg *config.Config) {
	switch {
	case f.farmType != "":
		cfg.Simulation.FarmType = f.farmType
	default:
		if handler, err := config.NewUserConfigHandler(); err == nil {
			if userCfg, err := handler.Load(); err == nil && userCfg.DefaultFarmType != "" {
				cfg.Simulation.FarmType = userCfg.DefaultFarmType
			}
		}
	}
	if f.farmSize > 0 {
		cfg.Simulation.FarmSize = f.farmSize
	}
	if f.seed != 0 {
		cfg.Economy.VolatilitySeed = f.seed
	}
	if f.priceMode != "" {
		cfg.Economy.PriceMode = f.priceMode
	}
}

// NewRunCommand creates the batch run command
func NewRunCommand() *cobra.Command {
	var (
		flags     runFlags
		weeks     int
		autopilot bool
		showLast  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a number of game weeks without waiting",
		Long: `Run the simulation for a fixed number of game weeks as fast as possible.

With --autopilot the built-in strategy plants, tends, harvests and sells after
every week. Without it the farm only pays its running costs, which is useful
for checking a preset's burn rate.

Examples:
  farmsim run --weeks 52 --autopilot
  farmsim run --weeks 104 --autopilot --farm-type industrial --seed 7
  farmsim run --weeks 10 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if weeks < 1 {
				return fmt.Errorf("--weeks must be at least 1")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg)

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := a.context(cmd.Context())

			runner := farm.NewRunner(a.mediator, farm.RunnerConfig{
				WeekDuration: WeekDuration(cfg),
				Autopilot:    autopilot,
			}, nil, a.logger)
			if err := runner.RunWeeks(ctx, weeks); err != nil {
				return fmt.Errorf("run failed after %d weeks: %w", runner.WeeksAdvanced(), err)
			}

			if _, err := a.mediator.Send(ctx, &commands.CheckpointRunCommand{}); err != nil {
				return err
			}
			rememberRun(a.engine.RunID())

			return printRunResult(ctx, cmd, a, showLast)
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVar(&weeks, "weeks", 52, "Game weeks to simulate")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "Let the built-in strategy make decisions")
	cmd.Flags().IntVar(&showLast, "reports", 4, "Weekly reports to print at the end")

	return cmd
}

func printRunResult(ctx context.Context, cmd *cobra.Command, a *app, showLast int) error {
	resp, err := a.mediator.Send(ctx, &queries.GetFarmStatusQuery{})
	if err != nil {
		return err
	}
	state := resp.(*queries.GetFarmStatusResponse).State

	resp, err = a.mediator.Send(ctx, &queries.ListReportsQuery{Limit: showLast})
	if err != nil {
		return err
	}
	reports := resp.(*queries.ListReportsResponse)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]interface{}{
			"state":   state,
			"reports": reports.Reports,
		})
	}

	printStatus(out, state)
	if len(reports.Reports) > 0 {
		fmt.Fprintln(out)
		printReports(out, reports.Reports, reports.TotalNet)
	}
	return nil
}
