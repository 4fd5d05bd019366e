package economy

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// Resources are the farm's stocks. Money may go negative through operating
// costs and harvest labour; the physical stocks never do.
type Resources struct {
	Money      float64 `json:"money"`
	Water      float64 `json:"water"`
	Fertilizer float64 `json:"fertilizer"`
	Seeds      float64 `json:"seeds"`
	Fuel       float64 `json:"fuel"`
}

// Normalize floors the physical stocks at zero
func (r Resources) Normalize() Resources {
	r.Water = utils.FloorZero(r.Water)
	r.Fertilizer = utils.FloorZero(r.Fertilizer)
	r.Seeds = utils.FloorZero(r.Seeds)
	r.Fuel = utils.FloorZero(r.Fuel)
	return r
}

func (r Resources) String() string {
	return fmt.Sprintf("Resources[money=%.2f, water=%.1f, fertilizer=%.1f, seeds=%.1f, fuel=%.1f]",
		r.Money, r.Water, r.Fertilizer, r.Seeds, r.Fuel)
}

// Inventory holds harvested produce per crop type
type Inventory map[crop.Type]float64

// Add stores harvested produce
func (inv Inventory) Add(t crop.Type, amount float64) {
	if !utils.IsPositiveFinite(amount) {
		return
	}
	inv[t] += amount
}

// Remove takes up to amount of a crop out and returns what was actually removed
func (inv Inventory) Remove(t crop.Type, amount float64) float64 {
	held := inv[t]
	if !utils.IsPositiveFinite(amount) || held <= 0 {
		return 0
	}
	removed := amount
	if removed > held {
		removed = held
	}
	inv[t] = utils.FloorZero(held - removed)
	return removed
}

// Get returns the amount held of a crop type
func (inv Inventory) Get(t crop.Type) float64 {
	return inv[t]
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Types returns the crop types held, sorted by name
func (inv Inventory) Types() []crop.Type {
	types := make([]crop.Type, 0, len(inv))
	for t := range inv {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
