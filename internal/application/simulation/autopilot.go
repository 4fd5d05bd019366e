package simulation

import (
	"math"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
)

// AutopilotConfig tunes the built-in farming strategy
type AutopilotConfig struct {
	WaterThreshold    float64 // irrigate when any crop's water drops below this
	NutrientThreshold float64 // fertilize when any crop's nutrients drop below this
	PlotFraction      float64 // share of the farm planted per decision
	MinPlot           float64 // never plant less than this many hectares
	SellAtOrAbove     float64 // sell when price/basePrice reaches this ratio
}

// DefaultAutopilotConfig returns conservative thresholds
func DefaultAutopilotConfig() AutopilotConfig {
	return AutopilotConfig{
		WaterThreshold:    0.4,
		NutrientThreshold: 0.35,
		PlotFraction:      0.1,
		MinPlot:           1,
		SellAtOrAbove:     1.0,
	}
}

// Autopilot plays the farm between ticks: harvest what is ready, sell when
// the market is at or above base price, keep crops watered and fed, and
// plant the most profitable crop on free land outside winter.
type Autopilot struct {
	cfg     AutopilotConfig
	catalog *crop.Catalog
}

// NewAutopilot creates a strategy that reads crop economics from catalog
func NewAutopilot(cfg AutopilotConfig, catalog *crop.Catalog) *Autopilot {
	if catalog == nil {
		catalog = crop.DefaultCatalog()
	}
	return &Autopilot{cfg: cfg, catalog: catalog}
}

// Step runs one round of decisions against the engine and returns what it
// did. Rejections are normal (e.g. a price drop between quote and sale) and
// are reported in the results, not as an error.
func (a *Autopilot) Step(e *Engine) []Result {
	var results []Result
	state := e.Snapshot()

	for _, t := range readyTypes(state) {
		if r, err := e.Harvest(t); err == nil {
			results = append(results, r)
		}
	}

	state = e.Snapshot()
	for _, t := range state.Inventory.Types() {
		held := state.Inventory.Get(t)
		if held <= 0 {
			continue
		}
		profile, ok := a.catalog.Profile(t)
		if !ok {
			continue
		}
		price, err := e.MarketPrice(t)
		if err != nil || price < profile.BasePrice*a.cfg.SellAtOrAbove {
			continue
		}
		if r, err := e.Sell(t, held); err == nil {
			results = append(results, r)
		}
	}

	water, nutrients, living := minLevels(state)
	if living > 0 && water < a.cfg.WaterThreshold {
		if r, err := e.Irrigate(nil, string(economy.IntensityModerate)); err == nil {
			results = append(results, r)
		}
	}
	if living > 0 && nutrients < a.cfg.NutrientThreshold {
		kind := economy.FertilizerNPK
		if state.FarmType == economy.Organic {
			kind = economy.FertilizerCompost
		}
		if r, err := e.Fertilize(nil, string(kind)); err == nil {
			results = append(results, r)
		}
	}

	state = e.Snapshot()
	if state.Clock.Season != calendar.Winter {
		if t, area, ok := a.choosePlanting(state); ok {
			if r, err := e.Plant(t, area); err == nil {
				results = append(results, r)
			}
		}
	}

	return results
}

// choosePlanting picks the crop with the best expected margin per hectare
// that the farm can afford on a plot of the configured size
func (a *Autopilot) choosePlanting(state State) (crop.Type, float64, bool) {
	area := math.Max(state.Land.FarmSize*a.cfg.PlotFraction, a.cfg.MinPlot)
	area = math.Min(area, state.Land.Available)
	if area < a.cfg.MinPlot {
		return "", 0, false
	}

	var (
		best       crop.Type
		bestMargin = math.Inf(-1)
	)
	for _, t := range a.catalog.Types() {
		profile, _ := a.catalog.Profile(t)
		if profile.PlantingCostPerHectare*area > state.Resources.Money ||
			profile.SeedsPerHectare*area > state.Resources.Seeds {
			continue
		}
		margin := profile.BasePrice*profile.YieldPerHectare - profile.PlantingCostPerHectare - economy.HarvestCostPerHectare
		if margin > bestMargin {
			best, bestMargin = t, margin
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, area, true
}

func readyTypes(state State) []crop.Type {
	seen := make(map[crop.Type]bool)
	var out []crop.Type
	for _, c := range state.Crops {
		if c.ReadyForHarvest && !c.IsDead && !seen[c.Type] {
			seen[c.Type] = true
			out = append(out, c.Type)
		}
	}
	return out
}

func minLevels(state State) (water, nutrients float64, living int) {
	water, nutrients = 1, 1
	for _, c := range state.Crops {
		if c.IsDead {
			continue
		}
		living++
		water = math.Min(water, c.WaterLevel)
		nutrients = math.Min(nutrients, c.NutrientLevel)
	}
	return water, nutrients, living
}
