package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
)

func TestDefaultSnapshotIsValid(t *testing.T) {
	snap := environment.Default()

	assert.NoError(t, snap.Validate())
	assert.Equal(t, 1.0, snap.Multipliers().Water)
	assert.Equal(t, 1.0, snap.Multipliers().Nutrient)
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*environment.Snapshot)
	}{
		{"soil moisture above one", func(s *environment.Snapshot) { s.SoilMoisture = 1.2 }},
		{"vegetation below minus one", func(s *environment.Snapshot) { s.VegetationHealth = -1.5 }},
		{"zero water multiplier", func(s *environment.Snapshot) { s.WaterConsumptionMultiplier = 0 }},
		{"negative nutrient multiplier", func(s *environment.Snapshot) { s.NutrientConsumptionMultiplier = -1 }},
		{"missing quality", func(s *environment.Snapshot) { s.Quality = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := environment.Default()
			tt.mutate(&snap)

			assert.Error(t, snap.Validate())
		})
	}
}
