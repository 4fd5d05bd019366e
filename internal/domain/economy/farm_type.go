package economy

import (
	"sort"
	"strings"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// FarmType selects a preset of land, starting stocks and operating costs
type FarmType string

const (
	Smallholder FarmType = "smallholder"
	Industrial  FarmType = "industrial"
	Organic     FarmType = "organic"
)

// DefaultFuelPrice is the money paid per fuel unit bought to cover a shortfall
const DefaultFuelPrice = 3.0

// OperatingCosts are charged at every week boundary
type OperatingCosts struct {
	MaintenancePerWeek float64 `json:"maintenance_per_week"`
	FuelUnitsPerWeek   float64 `json:"fuel_units_per_week"`
	FuelPrice          float64 `json:"fuel_price"`
	Livestock          int     `json:"livestock"`
	UpkeepPerHead      float64 `json:"upkeep_per_head"`
}

// Preset describes a farm type
type Preset struct {
	Type      FarmType
	FarmSize  float64
	Resources Resources
	Costs     OperatingCosts
	// OrganicOnly restricts fertilization to non-synthetic kinds
	OrganicOnly bool
}

var presets = map[FarmType]Preset{
	Smallholder: {
		Type:      Smallholder,
		FarmSize:  50,
		Resources: Resources{Money: 10000, Water: 500, Fertilizer: 200, Seeds: 100, Fuel: 100},
		Costs:     OperatingCosts{MaintenancePerWeek: 150, FuelUnitsPerWeek: 10, FuelPrice: DefaultFuelPrice, Livestock: 4, UpkeepPerHead: 12},
	},
	Industrial: {
		Type:      Industrial,
		FarmSize:  500,
		Resources: Resources{Money: 150000, Water: 5000, Fertilizer: 2000, Seeds: 1000, Fuel: 1000},
		Costs:     OperatingCosts{MaintenancePerWeek: 1500, FuelUnitsPerWeek: 120, FuelPrice: DefaultFuelPrice},
	},
	Organic: {
		Type:        Organic,
		FarmSize:    80,
		Resources:   Resources{Money: 15000, Water: 800, Fertilizer: 300, Seeds: 160, Fuel: 120},
		Costs:       OperatingCosts{MaintenancePerWeek: 250, FuelUnitsPerWeek: 12, FuelPrice: DefaultFuelPrice, Livestock: 10, UpkeepPerHead: 15},
		OrganicOnly: true,
	},
}

// PresetFor returns the preset for a farm type
func PresetFor(t FarmType) (Preset, bool) {
	p, ok := presets[t]
	return p, ok
}

// ParseFarmType resolves a case-insensitive farm type name
func ParseFarmType(name string) (FarmType, error) {
	t := FarmType(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := presets[t]; !ok {
		return "", shared.NewUnknownEntityError("farm type", name)
	}
	return t, nil
}

// FarmTypes lists the known farm types, sorted
func FarmTypes() []FarmType {
	types := make([]FarmType, 0, len(presets))
	for t := range presets {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
