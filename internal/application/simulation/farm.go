package simulation

import (
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
)

// farm is the mutable state shared by the engine and the decision processor.
// It is only touched while the engine lock is held.
type farm struct {
	preset     economy.Preset
	costs      economy.OperatingCosts
	resources  economy.Resources
	inventory  economy.Inventory
	crops      []*crop.Crop
	land       *land.Ledger
	weekIncome float64
}

func newFarm(preset economy.Preset, fuelPrice float64, ledger *land.Ledger) *farm {
	costs := preset.Costs
	costs.FuelPrice = fuelPrice
	return &farm{
		preset:    preset,
		costs:     costs,
		resources: preset.Resources,
		inventory: economy.Inventory{},
		land:      ledger,
	}
}

// living returns the crops that are not dead, optionally filtered by type
func (f *farm) living(filter *crop.Type) []*crop.Crop {
	var out []*crop.Crop
	for _, c := range f.crops {
		if c.IsDead() {
			continue
		}
		if filter != nil && c.Type() != *filter {
			continue
		}
		out = append(out, c)
	}
	return out
}

// remove drops the given crops from the active list, preserving order
func (f *farm) remove(gone map[string]bool) {
	kept := f.crops[:0]
	for _, c := range f.crops {
		if !gone[c.ID()] {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(f.crops); i++ {
		f.crops[i] = nil
	}
	f.crops = kept
}

func totalArea(crops []*crop.Crop) float64 {
	total := 0.0
	for _, c := range crops {
		total += c.Area()
	}
	return total
}
