package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatus(w io.Writer, s simulation.State) {
	fmt.Fprintf(w, "Run %s (%s)\n", s.RunID, s.FarmType)
	fmt.Fprintf(w, "Week %d, year %d, %s (week %d of season)\n", s.Clock.Week, s.Clock.Year, s.Clock.Season, s.Clock.SeasonWeek)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Money: %.2f   Water: %.1f   Fertilizer: %.1f   Seeds: %.1f   Fuel: %.1f\n",
		s.Resources.Money, s.Resources.Water, s.Resources.Fertilizer, s.Resources.Seeds, s.Resources.Fuel)
	fmt.Fprintf(w, "Land: %.1f ha  available %.1f  cultivated %.1f  recovering %.1f\n",
		s.Land.FarmSize, s.Land.Available, s.Land.Cultivated, s.Land.Recovering)
	fmt.Fprintf(w, "Environment: %s  water x%.2f  nutrients x%.2f\n",
		s.Environment.Quality, s.Environment.WaterConsumptionMultiplier, s.Environment.NutrientConsumptionMultiplier)

	if len(s.Crops) == 0 {
		fmt.Fprintln(w, "\nNo crops in the field")
	} else {
		fmt.Fprintf(w, "\n%-8s %-10s %7s %-12s %6s %6s %6s %6s %s\n",
			"ID", "CROP", "AREA", "STAGE", "GROW", "WATER", "NUTR", "HEALTH", "ETA")
		for _, c := range s.Crops {
			eta := fmt.Sprintf("%.1fw", c.EstimatedWeeksRemaining)
			if c.ReadyForHarvest {
				eta = "ready"
			}
			if c.IsDead {
				eta = "dead"
			}
			fmt.Fprintf(w, "%-8s %-10s %7.1f %-12s %6.2f %6.2f %6.2f %6.2f %s\n",
				shortID(c.ID), c.Type, c.Area, c.Stage, c.GrowthProgress, c.WaterLevel, c.NutrientLevel, c.Health, eta)
		}
	}

	if types := s.Inventory.Types(); len(types) > 0 {
		fmt.Fprintln(w, "\nInventory:")
		for _, t := range types {
			fmt.Fprintf(w, "  %-10s %10.1f\n", t, s.Inventory.Get(t))
		}
	}

	d := s.Decisions
	fmt.Fprintf(w, "\nDecisions: %d (applied %d, rejected %d, no effect %d)  score %.1f\n",
		d.Total, d.Applied, d.Rejected, d.NoEffect, d.TotalScore)
}

func printPrices(w io.Writer, prices []queries.PriceDTO) {
	fmt.Fprintf(w, "%-10s %10s %10s %8s\n", "CROP", "PRICE", "BASE", "RATIO")
	for _, p := range prices {
		fmt.Fprintf(w, "%-10s %10.2f %10.2f %8.2f\n", p.CropType, p.Price, p.BasePrice, p.Ratio)
	}
}

func printForecast(w io.Writer, forecasts []queries.ForecastDTO) {
	if len(forecasts) == 0 {
		fmt.Fprintln(w, "Nothing growing")
		return
	}
	fmt.Fprintf(w, "%-8s %-10s %7s %-12s %6s %8s %6s\n", "ID", "CROP", "AREA", "STAGE", "HEALTH", "WEEKS", "WEEK")
	for _, f := range forecasts {
		weeks := fmt.Sprintf("%.1f", f.WeeksRemaining)
		if f.Ready {
			weeks = "ready"
		}
		fmt.Fprintf(w, "%-8s %-10s %7.1f %-12s %6.2f %8s %6d\n",
			shortID(f.CropID), f.CropType, f.Area, f.Stage, f.Health, weeks, f.ExpectedWeek)
	}
}

func printDecisions(w io.Writer, decisions []*queries.DecisionDTO, total int) {
	fmt.Fprintf(w, "%-5s %-17s %-9s %7s  %s\n", "WEEK", "KIND", "OUTCOME", "SCORE", "MESSAGE")
	for _, d := range decisions {
		msg := d.Message
		if d.Reason != "" {
			msg = fmt.Sprintf("%s [%s]", msg, d.Reason)
		}
		fmt.Fprintf(w, "%-5d %-17s %-9s %7.1f  %s\n", d.Week, d.Kind, d.Outcome, d.Score, msg)
	}
	fmt.Fprintf(w, "\nShowing %d of %d decisions\n", len(decisions), total)
}

func printReports(w io.Writer, reports []economy.WeeklyReport, totalNet float64) {
	fmt.Fprintf(w, "%-5s %-6s %10s %10s %10s %10s %12s\n", "WEEK", "SEASON", "MAINT", "FUEL", "LIVESTOCK", "INCOME", "BALANCE")
	for _, r := range reports {
		fmt.Fprintf(w, "%-5d %-6s %10.2f %10.2f %10.2f %10.2f %12.2f\n",
			r.Week, r.Season, r.Costs.Maintenance, r.Costs.Fuel, r.Costs.Livestock, r.Income, r.BalanceAfter)
	}
	fmt.Fprintf(w, "\nNet over %d weeks: %.2f\n", len(reports), totalNet)
}

func printRuns(w io.Writer, runs []run.Summary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs")
		return
	}
	fmt.Fprintf(w, "%-40s %-12s %6s %5s %12s %9s %9s  %s\n", "RUN", "FARM", "WEEK", "YEAR", "MONEY", "DECISIONS", "SCORE", "UPDATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%-40s %-12s %6d %5d %12.2f %9d %9.1f  %s\n",
			r.ID, r.FarmType, r.Week, r.Year, r.Money, r.Decisions, r.TotalScore, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
