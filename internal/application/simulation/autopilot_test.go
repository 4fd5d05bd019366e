package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
)

func kinds(results []simulation.Result) []decision.Kind {
	out := make([]decision.Kind, 0, len(results))
	for _, r := range results {
		out = append(out, r.Decision.Kind())
	}
	return out
}

func TestAutopilot_PlantsOnEmptyFarm(t *testing.T) {
	engine, _, _ := newEngine(t)
	pilot := simulation.NewAutopilot(simulation.DefaultAutopilotConfig(), nil)

	results := pilot.Step(engine)

	require.Equal(t, []decision.Kind{decision.KindPlant}, kinds(results))
	state := engine.Snapshot()
	require.Len(t, state.Crops, 1)
	assert.Equal(t, 10.0, state.Crops[0].Area)
	assert.Equal(t, 90.0, state.Land.Available)
}

func TestAutopilot_TendsThirstyCrops(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{Type: crop.Wheat, Area: 10, WaterLevel: 0.1, NutrientLevel: 0.1, Health: 0.5})
	require.NoError(t, err)
	pilot := simulation.NewAutopilot(simulation.DefaultAutopilotConfig(), nil)

	results := pilot.Step(engine)

	got := kinds(results)
	assert.Contains(t, got, decision.KindIrrigate)
	assert.Contains(t, got, decision.KindFertilize)
	wheat := engine.Snapshot().Crops[0]
	assert.InDelta(t, 0.4, wheat.WaterLevel, 1e-9)
	assert.InDelta(t, 0.45, wheat.NutrientLevel, 1e-9)
}

func TestAutopilot_HarvestsReadyCrops(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{
		Type:            crop.Wheat,
		Area:            20,
		StageIndex:      3,
		GrowthProgress:  1,
		WaterLevel:      0.5,
		NutrientLevel:   0.5,
		Health:          1,
		ReadyForHarvest: true,
	})
	require.NoError(t, err)
	pilot := simulation.NewAutopilot(simulation.DefaultAutopilotConfig(), nil)

	results := pilot.Step(engine)

	require.NotEmpty(t, results)
	assert.Equal(t, decision.KindHarvest, results[0].Decision.Kind())
	assert.InDelta(t, 1200.0, results[0].Yield, 1e-9)
	for _, c := range engine.Snapshot().Crops {
		assert.NotEqual(t, crop.Wheat, c.Type, "harvested wheat leaves the field")
	}
}

func TestAutopilot_DoesNotPlantInWinter(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.Tick(39 * week)
	require.Equal(t, uint32(40), engine.Snapshot().Clock.Week)
	pilot := simulation.NewAutopilot(simulation.DefaultAutopilotConfig(), nil)

	results := pilot.Step(engine)

	assert.Empty(t, results)
	assert.Empty(t, engine.Snapshot().Crops)
}
