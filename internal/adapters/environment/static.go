package environment

import (
	"context"

	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// StaticProvider always reports the same conditions
type StaticProvider struct {
	snapshot environment.Snapshot
	clock    shared.Clock
}

// NewStaticProvider creates a provider reporting the default snapshot with
// the given consumption multipliers
func NewStaticProvider(waterMultiplier, nutrientMultiplier float64, clock shared.Clock) *StaticProvider {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	s := environment.Default()
	s.WaterConsumptionMultiplier = waterMultiplier
	s.NutrientConsumptionMultiplier = nutrientMultiplier
	s.Quality = environment.QualityEstimated
	return &StaticProvider{snapshot: s, clock: clock}
}

// Fetch returns the configured snapshot stamped with the current time
func (p *StaticProvider) Fetch(ctx context.Context) (environment.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return environment.Snapshot{}, err
	}
	s := p.snapshot
	s.ObservedAt = p.clock.Now()
	return s, s.Validate()
}
