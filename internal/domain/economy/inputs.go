package economy

import (
	"strings"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// HarvestCostPerHectare is the labour charged for each harvested hectare
const HarvestCostPerHectare = 25.0

// PumpingCostPerWaterUnit is the money charged per unit of water applied
const PumpingCostPerWaterUnit = 0.5

// Intensity is how much water an irrigation pass applies
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityHeavy    Intensity = "heavy"
)

// IrrigationProfile is the cost and effect of one intensity
type IrrigationProfile struct {
	WaterPerHectare float64
	Effectiveness   float64
}

var irrigation = map[Intensity]IrrigationProfile{
	IntensityLight:    {WaterPerHectare: 2, Effectiveness: 0.15},
	IntensityModerate: {WaterPerHectare: 4, Effectiveness: 0.3},
	IntensityHeavy:    {WaterPerHectare: 7, Effectiveness: 0.5},
}

// ParseIntensity resolves an irrigation intensity name
func ParseIntensity(name string) (Intensity, IrrigationProfile, error) {
	i := Intensity(strings.ToLower(strings.TrimSpace(name)))
	p, ok := irrigation[i]
	if !ok {
		return "", IrrigationProfile{}, shared.NewValidationError("intensity", shared.ReasonUnknownOption,
			"unknown irrigation intensity "+name+" (want light, moderate or heavy)")
	}
	return i, p, nil
}

// FertilizerKind names a fertilizer product
type FertilizerKind string

const (
	FertilizerNitrogen FertilizerKind = "nitrogen"
	FertilizerNPK      FertilizerKind = "npk"
	FertilizerCompost  FertilizerKind = "compost"
)

// FertilizerProfile is the cost and effect of one fertilizer kind
type FertilizerProfile struct {
	UnitsPerHectare float64
	Effectiveness   float64
	PricePerUnit    float64
	Synthetic       bool
}

var fertilizers = map[FertilizerKind]FertilizerProfile{
	FertilizerNitrogen: {UnitsPerHectare: 1, Effectiveness: 0.25, PricePerUnit: 4, Synthetic: true},
	FertilizerNPK:      {UnitsPerHectare: 1.5, Effectiveness: 0.35, PricePerUnit: 6, Synthetic: true},
	FertilizerCompost:  {UnitsPerHectare: 3, Effectiveness: 0.15, PricePerUnit: 1.5},
}

// ParseFertilizer resolves a fertilizer kind name
func ParseFertilizer(name string) (FertilizerKind, FertilizerProfile, error) {
	k := FertilizerKind(strings.ToLower(strings.TrimSpace(name)))
	p, ok := fertilizers[k]
	if !ok {
		return "", FertilizerProfile{}, shared.NewValidationError("fertilizer", shared.ReasonUnknownOption,
			"unknown fertilizer "+name+" (want nitrogen, npk or compost)")
	}
	return k, p, nil
}
