package environment

import (
	"context"
	"math"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// WeekFunc reports the current absolute game week
type WeekFunc func() uint32

// Temperature curve over the 52-week year, warmest mid-summer
const (
	meanTemperature      = 12.0
	temperatureAmplitude = 12.0
	warmestWeek          = 20
	referenceTemperature = 18.0
)

var seasonalVegetation = map[calendar.Season]float64{
	calendar.Spring: 0.6,
	calendar.Summer: 0.8,
	calendar.Fall:   0.5,
	calendar.Winter: 0.2,
}

// SeasonalProvider estimates conditions from the game week alone. Hot weeks
// dry the soil and raise consumption; cold weeks lower it.
type SeasonalProvider struct {
	week  WeekFunc
	clock shared.Clock
}

// NewSeasonalProvider creates a provider following the game calendar
func NewSeasonalProvider(week WeekFunc, clock shared.Clock) *SeasonalProvider {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SeasonalProvider{week: week, clock: clock}
}

// Fetch derives a snapshot for the current game week
func (p *SeasonalProvider) Fetch(ctx context.Context) (environment.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return environment.Snapshot{}, err
	}
	s := SeasonalSnapshot(p.week())
	s.ObservedAt = p.clock.Now()
	return s, s.Validate()
}

// SeasonalSnapshot computes the estimated conditions for an absolute week
func SeasonalSnapshot(week uint32) environment.Snapshot {
	if week == 0 {
		week = 1
	}
	weekOfYear := (week-1)%52 + 1
	angle := 2 * math.Pi * float64(int(weekOfYear)-warmestWeek) / 52
	temp := meanTemperature + temperatureAmplitude*math.Cos(angle)
	delta := temp - referenceTemperature

	return environment.Snapshot{
		SoilMoisture:                  clamp(0.5-0.02*(temp-meanTemperature), 0, 1),
		VegetationHealth:              seasonalVegetation[calendar.SeasonForWeek(weekOfYear)],
		Temperature:                   round2(temp),
		WaterConsumptionMultiplier:    round2(clamp(1+0.04*delta, 0.5, 2)),
		NutrientConsumptionMultiplier: round2(clamp(1+0.02*delta, 0.5, 1.5)),
		Quality:                       environment.QualityEstimated,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
