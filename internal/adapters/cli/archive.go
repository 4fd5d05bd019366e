package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
)

// withArchive opens the configured database and hands fn a mediator serving
// the archive queries
func withArchive(fn func(m mediator.Mediator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Disabled {
		return fmt.Errorf("the archive is disabled (database.disabled); only 'farmsim play' can show in-memory history")
	}
	arch, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer arch.close()

	m := mediator.NewMediator()
	if err := farm.RegisterArchiveHandlers(m, arch.decisions, arch.reports, arch.runs); err != nil {
		return err
	}
	return fn(m)
}

// NewDecisionsCommand creates the decisions command
func NewDecisionsCommand() *cobra.Command {
	var (
		kind     string
		outcome  string
		fromWeek uint32
		toWeek   uint32
		limit    int
		offset   int
		oldest   bool
	)

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List archived decisions of a run",
		Long: `List the scored decisions of a run, newest first.

Examples:
  farmsim decisions
  farmsim decisions --kind harvest --outcome applied
  farmsim decisions --run run-1a2b --from-week 10 --to-week 20 --oldest-first`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveRunID()
			if err != nil {
				return err
			}

			query := &queries.ListDecisionsQuery{RunID: id, Limit: limit, Offset: offset}
			if kind != "" {
				query.Kind = &kind
			}
			if outcome != "" {
				query.Outcome = &outcome
			}
			if cmd.Flags().Changed("from-week") {
				query.FromWeek = &fromWeek
			}
			if cmd.Flags().Changed("to-week") {
				query.ToWeek = &toWeek
			}
			if oldest {
				query.OrderBy = "timestamp ASC"
			}

			return withArchive(func(m mediator.Mediator) error {
				resp, err := m.Send(context.Background(), query)
				if err != nil {
					return err
				}
				list := resp.(*queries.ListDecisionsResponse)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), list)
				}
				printDecisions(cmd.OutOrStdout(), list.Decisions, list.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (plant, irrigate, fertilize, harvest, sell, change_farm_type)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Filter by outcome (applied, no_effect, rejected)")
	cmd.Flags().Uint32Var(&fromWeek, "from-week", 0, "First game week to include")
	cmd.Flags().Uint32Var(&toWeek, "to-week", 0, "Last game week to include")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum decisions to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Decisions to skip")
	cmd.Flags().BoolVar(&oldest, "oldest-first", false, "List in chronological order")

	return cmd
}

// NewReportsCommand creates the reports command
func NewReportsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List archived weekly settlements of a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveRunID()
			if err != nil {
				return err
			}
			return withArchive(func(m mediator.Mediator) error {
				resp, err := m.Send(context.Background(), &queries.ListReportsQuery{RunID: id, Limit: limit})
				if err != nil {
					return err
				}
				list := resp.(*queries.ListReportsResponse)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), list)
				}
				printReports(cmd.OutOrStdout(), list.Reports, list.TotalNet)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 12, "Maximum weeks to show (0 = all)")
	return cmd
}

// NewRunsCommand creates the runs command
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(func(m mediator.Mediator) error {
				resp, err := m.Send(context.Background(), &queries.ListRunsQuery{Limit: limit})
				if err != nil {
					return err
				}
				runs := resp.(*queries.ListRunsResponse).Runs
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), runs)
				}
				printRuns(cmd.OutOrStdout(), runs)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 = all)")
	return cmd
}
