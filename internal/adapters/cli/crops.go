package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
)

// NewCropsCommand creates the crops command
func NewCropsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "Show the crop catalog",
		Long: `Show every crop the simulation knows: its growth stages with their
length and needs, base market price and yield.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := crop.DefaultCatalog()
			out := cmd.OutOrStdout()

			if jsonOutput {
				profiles := make([]crop.Profile, 0, len(catalog.Types()))
				for _, t := range catalog.Types() {
					p, _ := catalog.Profile(t)
					profiles = append(profiles, p)
				}
				return printJSON(out, profiles)
			}

			for _, t := range catalog.Types() {
				p, _ := catalog.Profile(t)
				weeks := 0
				for _, s := range p.Stages {
					weeks += s.DurationWeeks
				}
				fmt.Fprintf(out, "%s\n%s\n", strings.ToUpper(string(t)), strings.Repeat("-", 40))
				fmt.Fprintf(out, "  Base price:     %.2f per unit\n", p.BasePrice)
				fmt.Fprintf(out, "  Yield:          %.0f units/ha\n", p.YieldPerHectare)
				fmt.Fprintf(out, "  Planting cost:  %.2f/ha, %.1f seeds/ha\n", p.PlantingCostPerHectare, p.SeedsPerHectare)
				fmt.Fprintf(out, "  Weeks to grow:  %d\n", weeks)
				for _, s := range p.Stages {
					fmt.Fprintf(out, "    %-14s %2dw  water %.2f  nutrients %.2f\n", s.Name, s.DurationWeeks, s.WaterNeed, s.NutrientNeed)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
