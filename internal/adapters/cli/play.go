package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
)

const playHelp = `Actions:
  plant <crop> <hectares>        sow a crop on available land
  irrigate <light|moderate|heavy> [crop]
  fertilize <npk|compost|organic> [crop]
  harvest <crop>                 harvest every ready crop of a type
  sell <crop> <amount>           sell from inventory at the market price
  farm-type <type>               switch preset (empty farm only)
  autopilot                      let the built-in strategy act once
Time:
  wait [weeks]                   advance the game (default 1 week)
Views:
  status | prices | forecast | decisions [n] | reports [n]
  help | quit`

// NewPlayCommand creates the interactive session command
func NewPlayCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Manage a farm interactively, one command per line",
		Long: `Start an interactive session. The game only advances when you type
'wait', so there is no hurry. Commands are read from stdin, so a session
can also be scripted:

  printf 'plant wheat 20\nwait 10\nharvest wheat\nsell wheat 500\n' | farmsim play

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			rememberRun(a.engine.RunID())

			s := &session{
				mediator: a.mediator,
				drain:    a.engine.DrainEvents,
				week:     WeekDuration(cfg),
				out:      cmd.OutOrStdout(),
			}
			err = s.loop(a.context(cmd.Context()), cmd.InOrStdin())
			if _, cpErr := a.mediator.Send(a.context(cmd.Context()), &commands.CheckpointRunCommand{}); cpErr != nil && err == nil {
				err = cpErr
			}
			return err
		},
	}

	flags.bind(cmd)
	return cmd
}

// session reads one command per line and sends it through the mediator
type session struct {
	mediator mediator.Mediator
	drain    func() []events.Event
	week     time.Duration
	out      io.Writer
}

func (s *session) loop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Type 'help' for commands.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := s.dispatch(ctx, strings.Fields(line))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		s.printEvents()
		if quit {
			return nil
		}
	}
}

func (s *session) dispatch(ctx context.Context, fields []string) (bool, error) {
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, playHelp)
	case "plant", "irrigate", "fertilize", "harvest", "sell", "farm-type":
		cmd, err := parseAction(verb, args)
		if err != nil {
			return false, err
		}
		return false, s.execute(ctx, cmd)
	case "autopilot":
		resp, err := s.mediator.Send(ctx, &commands.RunAutopilotCommand{})
		if err != nil {
			return false, err
		}
		results := resp.(*commands.RunAutopilotResponse).Results
		if len(results) == 0 {
			fmt.Fprintln(s.out, "autopilot: nothing to do")
		}
		for _, r := range results {
			fmt.Fprintf(s.out, "autopilot: %s %s (%+.1f) %s\n", r.Decision.Kind(), r.Decision.Outcome(), r.Decision.Score(), r.Message)
		}
	case "wait":
		weeks := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return false, fmt.Errorf("wait takes a positive number of weeks")
			}
			weeks = n
		}
		resp, err := s.mediator.Send(ctx, &commands.AdvanceTimeCommand{Elapsed: time.Duration(weeks) * s.week})
		if err != nil {
			return false, err
		}
		report := resp.(*commands.AdvanceTimeResponse).Report
		fmt.Fprintf(s.out, "week %d (%s)\n", report.Week, report.Season)
	case "status":
		resp, err := s.mediator.Send(ctx, &queries.GetFarmStatusQuery{})
		if err != nil {
			return false, err
		}
		printStatus(s.out, resp.(*queries.GetFarmStatusResponse).State)
	case "prices":
		resp, err := s.mediator.Send(ctx, &queries.GetMarketPricesQuery{})
		if err != nil {
			return false, err
		}
		printPrices(s.out, resp.(*queries.GetMarketPricesResponse).Prices)
	case "forecast":
		resp, err := s.mediator.Send(ctx, &queries.GetHarvestForecastQuery{})
		if err != nil {
			return false, err
		}
		printForecast(s.out, resp.(*queries.GetHarvestForecastResponse).Forecasts)
	case "decisions":
		resp, err := s.mediator.Send(ctx, &queries.ListDecisionsQuery{Limit: optionalCount(args, 10)})
		if err != nil {
			return false, err
		}
		list := resp.(*queries.ListDecisionsResponse)
		printDecisions(s.out, list.Decisions, list.Total)
	case "reports":
		resp, err := s.mediator.Send(ctx, &queries.ListReportsQuery{Limit: optionalCount(args, 4)})
		if err != nil {
			return false, err
		}
		list := resp.(*queries.ListReportsResponse)
		printReports(s.out, list.Reports, list.TotalNet)
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", verb)
	}
	return false, nil
}

func (s *session) execute(ctx context.Context, cmd *commands.ExecuteDecisionCommand) error {
	resp, err := s.mediator.Send(ctx, cmd)
	if err != nil {
		return err
	}
	r := resp.(*commands.ExecuteDecisionResponse)
	if r.Applied() {
		fmt.Fprintf(s.out, "%s: %s (score %+.1f)\n", strings.ToLower(r.Kind), r.Message, r.Score)
		return nil
	}
	if r.Reason != "" {
		fmt.Fprintf(s.out, "%s %s: %s [%s]\n", strings.ToLower(r.Kind), strings.ToLower(r.Outcome), r.Message, r.Reason)
		return nil
	}
	fmt.Fprintf(s.out, "%s %s: %s\n", strings.ToLower(r.Kind), strings.ToLower(r.Outcome), r.Message)
	return nil
}

func (s *session) printEvents() {
	if s.drain == nil {
		return
	}
	for _, e := range s.drain() {
		switch p := e.Payload.(type) {
		case events.CropDiedPayload:
			fmt.Fprintf(s.out, "  ! %s on %.1f ha died (%s)\n", p.Crop.Type, p.Crop.Area, p.Cause)
		case events.CropPayload:
			if e.Type == events.HarvestReady {
				fmt.Fprintf(s.out, "  * %s on %.1f ha is ready to harvest\n", p.Crop.Type, p.Crop.Area)
			}
		case events.WeekSettledPayload:
			fmt.Fprintf(s.out, "  $ week %d settled: net %.2f, balance %.2f\n", p.Report.Week, p.Report.Net, p.Report.BalanceAfter)
		case events.SeasonChangedPayload:
			fmt.Fprintf(s.out, "  ~ %s begins\n", p.To)
		}
	}
}

// parseAction turns a play line into a decision command
func parseAction(verb string, args []string) (*commands.ExecuteDecisionCommand, error) {
	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
	number := func(s string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		return v, nil
	}
	optionalCrop := func(i int) string {
		if len(args) > i {
			return args[i]
		}
		return ""
	}

	switch verb {
	case "plant":
		if err := need(2, "plant <crop> <hectares>"); err != nil {
			return nil, err
		}
		area, err := number(args[1])
		if err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "plant", CropType: args[0], Area: area}, nil
	case "irrigate":
		if err := need(1, "irrigate <light|moderate|heavy> [crop]"); err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "irrigate", Intensity: args[0], CropType: optionalCrop(1)}, nil
	case "fertilize":
		if err := need(1, "fertilize <npk|compost|organic> [crop]"); err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "fertilize", Fertilizer: args[0], CropType: optionalCrop(1)}, nil
	case "harvest":
		if err := need(1, "harvest <crop>"); err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "harvest", CropType: args[0]}, nil
	case "sell":
		if err := need(2, "sell <crop> <amount>"); err != nil {
			return nil, err
		}
		amount, err := number(args[1])
		if err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "sell", CropType: args[0], Amount: amount}, nil
	case "farm-type":
		if err := need(1, "farm-type <smallholder|industrial|organic>"); err != nil {
			return nil, err
		}
		return &commands.ExecuteDecisionCommand{Action: "change_farm_type", FarmType: args[0]}, nil
	}
	return nil, fmt.Errorf("unknown action %q", verb)
}

func optionalCount(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return def
	}
	return n
}
