package simulation_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// one game hour per millisecond: a week is 168ms of elapsed time
const week = 168 * time.Millisecond

var start = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level   string
	message string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: message})
}

func (l *recordingLogger) count(level, message string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level && e.message == message {
			n++
		}
	}
	return n
}

func testConfig() simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.RunID = "run-test"
	cfg.FarmSize = 100
	cfg.Clock.GameHour = time.Millisecond
	cfg.VolatilitySeed = 42
	cfg.PriceMode = economy.PriceModeWeekly
	return cfg
}

func newEngine(t *testing.T, mutate ...func(*simulation.Config)) (*simulation.Engine, *shared.MockClock, *recordingLogger) {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	wall := shared.NewMockClock(start)
	logger := &recordingLogger{}
	engine, err := simulation.New(cfg, simulation.WithWallClock(wall), simulation.WithLogger(logger))
	require.NoError(t, err)
	return engine, wall, logger
}

func requireReason(t *testing.T, err error, reason shared.Reason) {
	t.Helper()
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, reason, vErr.Reason)
}

func TestNew_StartsAtWeekOneWithPreset(t *testing.T) {
	engine, _, _ := newEngine(t)

	state := engine.Snapshot()

	assert.Equal(t, "run-test", state.RunID)
	assert.Equal(t, economy.Smallholder, state.FarmType)
	assert.Equal(t, uint32(1), state.Clock.Week)
	assert.Equal(t, calendar.Spring, state.Clock.Season)
	assert.Equal(t, 100.0, state.Land.FarmSize)
	assert.Equal(t, 100.0, state.Land.Available)
	assert.Equal(t, 10000.0, state.Resources.Money)
	assert.Empty(t, state.Crops)
	assert.Equal(t, environment.Default(), state.Environment)
}

func TestNew_RejectsUnknownFarmType(t *testing.T) {
	cfg := testConfig()
	cfg.FarmType = economy.FarmType("hydroponic")

	_, err := simulation.New(cfg, simulation.WithWallClock(shared.NewMockClock(start)))

	assert.Error(t, err)
}

func TestPlant_ReservesLandAndCreatesFreshCrop(t *testing.T) {
	engine, _, _ := newEngine(t)

	result, err := engine.Plant(crop.Corn, 30)
	require.NoError(t, err)

	state := engine.Snapshot()
	assert.Equal(t, 70.0, state.Land.Available)
	assert.Equal(t, 30.0, state.Land.Cultivated)
	require.Len(t, state.Crops, 1)

	planted := state.Crops[0]
	assert.Equal(t, crop.Corn, planted.Type)
	assert.Equal(t, 0, planted.StageIndex)
	assert.Equal(t, "germination", planted.Stage)
	assert.Equal(t, 1.0, planted.Health)
	assert.Equal(t, 0.8, planted.WaterLevel)
	assert.Equal(t, 0.5, planted.NutrientLevel)
	assert.Equal(t, uint32(1), planted.PlantedWeek)

	assert.Equal(t, 10000.0-6000.0, state.Resources.Money)
	assert.Equal(t, 70.0, state.Resources.Seeds)
	assert.Equal(t, decision.OutcomeApplied, result.Outcome)
	require.NotNil(t, result.Decision)
	assert.Equal(t, 15.0, result.Decision.Score(), "spring planting earns the seasonal bonus")
}

func TestPlant_RejectionLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(e *simulation.Engine)
		crop   crop.Type
		area   float64
		reason shared.Reason
	}{
		{name: "unknown crop", crop: crop.Type("quinoa"), area: 5, reason: shared.ReasonUnknownCropType},
		{name: "too much land", crop: crop.Wheat, area: 101, reason: shared.ReasonInsufficientLand},
		{name: "non-positive area", crop: crop.Wheat, area: 0, reason: shared.ReasonInvalidAmount},
		{
			name:   "not enough money",
			setup:  func(e *simulation.Engine) { e.RestoreResources(economy.Resources{Money: 100, Seeds: 100}) },
			crop:   crop.Corn,
			area:   30,
			reason: shared.ReasonInsufficientMoney,
		},
		{
			name:   "not enough seeds",
			setup:  func(e *simulation.Engine) { e.RestoreResources(economy.Resources{Money: 100000, Seeds: 5}) },
			crop:   crop.Corn,
			area:   30,
			reason: shared.ReasonInsufficientSeeds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newEngine(t)
			if tt.setup != nil {
				tt.setup(engine)
			}
			before := engine.Snapshot()

			result, err := engine.Plant(tt.crop, tt.area)

			requireReason(t, err, tt.reason)
			after := engine.Snapshot()
			assert.Equal(t, before.Land, after.Land)
			assert.Equal(t, before.Resources, after.Resources)
			assert.Equal(t, before.Crops, after.Crops)
			assert.Equal(t, decision.OutcomeRejected, result.Outcome)
			assert.Equal(t, 1, after.Decisions.Rejected)
			assert.Equal(t, decision.ScoreRejected, after.Decisions.TotalScore)
		})
	}
}

func TestPlant_RejectsNonFiniteArea(t *testing.T) {
	for _, area := range []float64{math.NaN(), math.Inf(1)} {
		engine, _, _ := newEngine(t)
		before := engine.Snapshot()

		_, err := engine.Plant(crop.Corn, area)

		requireReason(t, err, shared.ReasonInvalidAmount)
		after := engine.Snapshot()
		assert.Equal(t, before.Land, after.Land)
		assert.Equal(t, before.Resources, after.Resources)
		assert.Empty(t, after.Crops)
	}
}

func TestTick_DeadCropMovesToRecoveringLand(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{Type: crop.Corn, Area: 12, Health: 0.2})
	require.NoError(t, err)

	report := engine.Tick(time.Millisecond)

	assert.Equal(t, 1, report.CropsDied)
	state := engine.Snapshot()
	assert.Empty(t, state.Crops)
	assert.Equal(t, 88.0, state.Land.Available)
	assert.Equal(t, 12.0, state.Land.Recovering)
	require.Len(t, state.Land.Dead, 1)
	assert.Equal(t, start.Add(20*time.Minute), state.Land.Dead[0].Deadline)
	assert.Equal(t, crop.CauseResourceDepletion, state.Land.Dead[0].Cause)

	var died []events.Event
	for _, ev := range engine.DrainEvents() {
		if ev.Type == events.CropDied {
			died = append(died, ev)
		}
	}
	require.Len(t, died, 1)
	payload, ok := died[0].Payload.(events.CropDiedPayload)
	require.True(t, ok)
	assert.Equal(t, crop.CauseResourceDepletion, payload.Cause)
}

func TestTick_RecoveryRestoresLandAfterWindow(t *testing.T) {
	engine, wall, _ := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{Type: crop.Corn, Area: 12})
	require.NoError(t, err)
	engine.Tick(time.Millisecond)

	wall.Advance(19 * time.Minute)
	assert.Equal(t, 0, engine.Tick(0).PlotsRecovered)

	wall.Advance(time.Minute)
	report := engine.Tick(0)

	assert.Equal(t, 1, report.PlotsRecovered)
	state := engine.Snapshot()
	assert.Equal(t, 100.0, state.Land.Available)
	assert.Equal(t, 0.0, state.Land.Recovering)
	assert.Empty(t, state.Land.Dead)
}

func TestTick_SimTimebaseIgnoresWallTime(t *testing.T) {
	engine, wall, _ := newEngine(t, func(c *simulation.Config) {
		c.RecoveryTimebase = simulation.TimebaseSim
		c.Windows.Dead = 100 * time.Millisecond
	})
	_, err := engine.RestoreCrop(crop.State{Type: crop.Corn, Area: 12})
	require.NoError(t, err)
	engine.Tick(time.Millisecond)

	wall.Advance(time.Hour)
	assert.Equal(t, 0, engine.Tick(0).PlotsRecovered, "a paused host does not recover land on the sim timebase")

	report := engine.Tick(100 * time.Millisecond)
	assert.Equal(t, 1, report.PlotsRecovered)
	assert.Equal(t, 100.0, engine.Snapshot().Land.Available)
}

func TestTick_ZeroElapsedLeavesCalendarAndCrops(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)
	before := engine.Snapshot()

	report := engine.Tick(0)

	assert.Empty(t, report.Boundaries)
	assert.Equal(t, 0, report.CropsUpdated)
	assert.Equal(t, before.Crops, engine.Snapshot().Crops)
	assert.Equal(t, before.Clock, engine.Snapshot().Clock)
}

func TestHarvest_YieldScalesWithHealth(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{
		Type:            crop.Wheat,
		Area:            20,
		StageIndex:      3,
		GrowthProgress:  1,
		WaterLevel:      0.5,
		NutrientLevel:   0.5,
		Health:          0.9,
		ReadyForHarvest: true,
	})
	require.NoError(t, err)

	result, err := engine.Harvest(crop.Wheat)
	require.NoError(t, err)

	assert.InDelta(t, 1080.0, result.Yield, 1e-9)
	require.Len(t, result.Harvested, 1)
	assert.InDelta(t, 9.0, result.Decision.Score(), 1e-9)

	state := engine.Snapshot()
	assert.InDelta(t, 1080.0, state.Inventory.Get(crop.Wheat), 1e-9)
	assert.Empty(t, state.Crops)
	assert.Equal(t, 80.0, state.Land.Available)
	assert.Equal(t, 20.0, state.Land.Recovering)
	require.Len(t, state.Land.Harvested, 1)
	assert.Equal(t, start.Add(10*time.Minute), state.Land.Harvested[0].Deadline)
	assert.Equal(t, 10000.0-500.0, state.Resources.Money, "harvest labour is charged per hectare")
}

func TestHarvest_NothingReady(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)

	_, err = engine.Harvest(crop.Wheat)

	requireReason(t, err, shared.ReasonNotReady)
	assert.Len(t, engine.Snapshot().Crops, 1)
}

func TestSell_CreditsMoneyAtMarketPrice(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.RestoreInventory(crop.Wheat, 1080)
	price, err := engine.MarketPrice(crop.Wheat)
	require.NoError(t, err)
	moneyBefore := engine.Snapshot().Resources.Money

	result, err := engine.Sell(crop.Wheat, 500)
	require.NoError(t, err)

	assert.Equal(t, price, result.Price)
	assert.Equal(t, 500.0, result.SoldAmount)
	state := engine.Snapshot()
	assert.Equal(t, 580.0, state.Inventory.Get(crop.Wheat))
	assert.InDelta(t, moneyBefore+500*price, state.Resources.Money, 1e-9)
	assert.InDelta(t, 500*price, state.WeekIncome, 1e-9)
}

func TestSell_SellsOnlyWhatIsHeld(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.RestoreInventory(crop.Corn, 40)

	result, err := engine.Sell(crop.Corn, 100)
	require.NoError(t, err)

	assert.Equal(t, 40.0, result.SoldAmount)
	assert.Equal(t, 0.0, engine.Snapshot().Inventory.Get(crop.Corn))
}

func TestSell_EmptyInventoryHasNoEffect(t *testing.T) {
	engine, _, _ := newEngine(t)
	before := engine.Snapshot()

	result, err := engine.Sell(crop.Wheat, 10)

	require.NoError(t, err)
	assert.Equal(t, decision.OutcomeNoEffect, result.Outcome)
	require.NotNil(t, result.Decision)
	assert.Equal(t, 0.0, result.Decision.Score())
	assert.Equal(t, before.Resources, engine.Snapshot().Resources)
}

func TestSell_RejectsNonPositiveAmount(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.RestoreInventory(crop.Wheat, 10)

	_, err := engine.Sell(crop.Wheat, -1)

	requireReason(t, err, shared.ReasonInvalidAmount)
	assert.Equal(t, 10.0, engine.Snapshot().Inventory.Get(crop.Wheat))
}

func TestSell_RejectsNonFiniteAmount(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1)} {
		engine, _, _ := newEngine(t)
		engine.RestoreInventory(crop.Wheat, 1080)
		before := engine.Snapshot()

		_, err := engine.Sell(crop.Wheat, amount)

		requireReason(t, err, shared.ReasonInvalidAmount)
		after := engine.Snapshot()
		assert.Equal(t, before.Resources, after.Resources)
		assert.Equal(t, 1080.0, after.Inventory.Get(crop.Wheat))
	}
}

func TestRestoreInventory_ZeroRemovesEntry(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.RestoreInventory(crop.Wheat, 50)

	engine.RestoreInventory(crop.Wheat, 0)

	assert.Empty(t, engine.Snapshot().Inventory.Types())
}

func TestTick_YearRollsOverAfterWeek52(t *testing.T) {
	engine, _, _ := newEngine(t)
	years := 0
	engine.Subscribe(func(ev events.Event) {
		if ev.Type == events.YearAdvanced {
			years++
		}
	})

	engine.Tick(51 * week)
	state := engine.Snapshot()
	require.Equal(t, uint32(52), state.Clock.Week)
	assert.Equal(t, calendar.Winter, state.Clock.Season)
	assert.Equal(t, 0, years)

	engine.Tick(week)

	state = engine.Snapshot()
	assert.Equal(t, uint32(53), state.Clock.Week)
	assert.Equal(t, calendar.Spring, state.Clock.Season)
	assert.Equal(t, uint32(2), state.Clock.Year)
	assert.Equal(t, 1, years)
}

func TestTick_SettlesEveryCrossedWeek(t *testing.T) {
	engine, _, _ := newEngine(t)

	report := engine.Tick(3 * week)

	assert.Equal(t, 3, report.WeeksAdvanced)
	reports := engine.Reports()
	require.Len(t, reports, 3)
	assert.Equal(t, []uint32{2, 3, 4}, []uint32{reports[0].Week, reports[1].Week, reports[2].Week})
	assert.InDelta(t, 198.0, reports[0].Costs.Total(), 1e-9)

	state := engine.Snapshot()
	assert.InDelta(t, 10000.0-3*198.0, state.Resources.Money, 1e-9)
	assert.Equal(t, 70.0, state.Resources.Fuel)
}

func TestTick_WeeklyReportCarriesSales(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.RestoreInventory(crop.Wheat, 100)
	sale, err := engine.Sell(crop.Wheat, 100)
	require.NoError(t, err)

	engine.Tick(week)

	reports := engine.Reports()
	require.Len(t, reports, 1)
	assert.InDelta(t, sale.Revenue, reports[0].Income, 1e-9)
	assert.InDelta(t, sale.Revenue-198.0, reports[0].Net, 1e-9)
	assert.Equal(t, 0.0, engine.Snapshot().WeekIncome)
}

func TestTick_EventOrderAtWeekBoundary(t *testing.T) {
	engine, _, _ := newEngine(t)
	var seen []events.Type
	engine.Subscribe(func(ev events.Event) {
		seen = append(seen, ev.Type)
	})

	engine.Tick(week)

	require.GreaterOrEqual(t, len(seen), 2)
	assert.Equal(t, []events.Type{events.WeekAdvanced, events.WeekSettled}, seen[:2])
}

func TestSubscribe_RemoverStopsDelivery(t *testing.T) {
	engine, _, _ := newEngine(t)
	calls := 0
	remove := engine.Subscribe(func(events.Event) { calls++ })

	_, err := engine.Plant(crop.Wheat, 5)
	require.NoError(t, err)
	delivered := calls
	remove()
	_, err = engine.Plant(crop.Wheat, 5)
	require.NoError(t, err)

	assert.Positive(t, delivered)
	assert.Equal(t, delivered, calls)
}

func TestDrainEvents_ClearsQueue(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Wheat, 5)
	require.NoError(t, err)

	drained := engine.DrainEvents()

	types := make([]events.Type, 0, len(drained))
	for _, ev := range drained {
		types = append(types, ev.Type)
		assert.Equal(t, events.SchemaVersion, ev.Version)
	}
	assert.Equal(t, []events.Type{events.CropPlanted, events.DecisionApplied}, types)
	assert.Empty(t, engine.DrainEvents())
}

func TestTick_UnknownCropTypeStaysInert(t *testing.T) {
	engine, _, logger := newEngine(t)
	_, err := engine.RestoreCrop(crop.State{Type: crop.Type("quinoa"), Area: 5, WaterLevel: 0.5, NutrientLevel: 0.5, Health: 1})
	require.NoError(t, err)

	first := engine.Tick(time.Millisecond)
	second := engine.Tick(time.Millisecond)

	assert.Equal(t, 0, first.CropsUpdated)
	assert.Equal(t, 0, second.CropsUpdated)
	state := engine.Snapshot()
	require.Len(t, state.Crops, 1)
	assert.Equal(t, 0.5, state.Crops[0].WaterLevel)
	assert.Equal(t, 95.0, state.Land.Available)
	assert.Equal(t, 1, logger.count(logging.LevelWarn, "Skipping crop with no stage table"))
}

func TestUpdateEnvironment_ScalesConsumption(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Corn, 10)
	require.NoError(t, err)

	snapshot := environment.Default()
	snapshot.WaterConsumptionMultiplier = 2
	snapshot.Quality = environment.QualityObserved
	require.NoError(t, engine.UpdateEnvironment(snapshot))
	engine.Tick(time.Millisecond)

	state := engine.Snapshot()
	require.Len(t, state.Crops, 1)
	assert.InDelta(t, 0.76, state.Crops[0].WaterLevel, 1e-9)
	assert.InDelta(t, 0.49, state.Crops[0].NutrientLevel, 1e-9)
}

func TestUpdateEnvironment_InvalidSnapshotKeepsPrevious(t *testing.T) {
	engine, _, logger := newEngine(t)
	bad := environment.Default()
	bad.SoilMoisture = 1.5

	err := engine.UpdateEnvironment(bad)

	assert.Error(t, err)
	assert.Equal(t, environment.Default(), engine.Environment())
	assert.Equal(t, 1, logger.count(logging.LevelWarn, "Rejected environmental snapshot"))
}

func TestFertilize_OrganicFarmRejectsSynthetics(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.ChangeFarmType("organic")
	require.NoError(t, err)
	_, err = engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)
	before := engine.Snapshot()

	_, err = engine.Fertilize(nil, "npk")
	requireReason(t, err, shared.ReasonSyntheticNotPermitted)
	assert.Equal(t, before.Resources, engine.Snapshot().Resources)

	result, err := engine.Fertilize(nil, "compost")
	require.NoError(t, err)
	assert.Equal(t, 30.0, result.Fertilizer)
	assert.InDelta(t, 0.65, engine.Snapshot().Crops[0].NutrientLevel, 1e-9)
}

func TestIrrigate_RaisesWaterAndChargesPumping(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)
	before := engine.Snapshot()

	result, err := engine.Irrigate(nil, "moderate")
	require.NoError(t, err)

	assert.Equal(t, 40.0, result.WaterUsed)
	assert.Equal(t, 20.0, result.MoneySpent)
	state := engine.Snapshot()
	assert.Equal(t, before.Resources.Water-40, state.Resources.Water)
	assert.Equal(t, 1.0, state.Crops[0].WaterLevel, "levels are capped at 1")
	assert.Equal(t, 2.0, result.Decision.Score())
}

func TestIrrigate_Rejections(t *testing.T) {
	engine, _, _ := newEngine(t)

	_, err := engine.Irrigate(nil, "moderate")
	requireReason(t, err, shared.ReasonNoMatchingCrops)

	_, err = engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)
	_, err = engine.Irrigate(nil, "flood")
	requireReason(t, err, shared.ReasonUnknownOption)

	engine.RestoreResources(economy.Resources{Money: 1000, Water: 1})
	_, err = engine.Irrigate(nil, "heavy")
	requireReason(t, err, shared.ReasonInsufficientWater)
	assert.Equal(t, 1.0, engine.Snapshot().Resources.Water)
}

func TestChangeFarmType_RequiresEmptyFarm(t *testing.T) {
	engine, _, _ := newEngine(t)
	_, err := engine.Plant(crop.Wheat, 10)
	require.NoError(t, err)

	_, err = engine.ChangeFarmType("industrial")

	requireReason(t, err, shared.ReasonFarmNotEmpty)
	assert.Equal(t, economy.Smallholder, engine.Snapshot().FarmType)
}

func TestChangeFarmType_KeepsResourcesAndResetsLand(t *testing.T) {
	engine, _, _ := newEngine(t)
	before := engine.Snapshot()

	result, err := engine.ChangeFarmType("industrial")
	require.NoError(t, err)

	state := engine.Snapshot()
	assert.Equal(t, economy.Industrial, state.FarmType)
	assert.Equal(t, 500.0, state.Land.FarmSize)
	assert.Equal(t, 500.0, state.Land.Available)
	assert.Equal(t, before.Resources, state.Resources)
	assert.Equal(t, decision.ScoreChangeFarmType, result.Decision.Score())

	_, err = engine.ChangeFarmType("vertical")
	requireReason(t, err, shared.ReasonUnknownOption)
}

func TestExecute_DispatchesCommands(t *testing.T) {
	engine, _, _ := newEngine(t)

	_, err := engine.Execute(simulation.PlantCommand{CropType: crop.Rice, Area: 4})
	require.NoError(t, err)
	rice := crop.Rice
	_, err = engine.Execute(simulation.IrrigateCommand{Filter: &rice, Intensity: "light"})
	require.NoError(t, err)

	decisions := engine.Decisions()
	require.Len(t, decisions, 2)
	assert.Equal(t, decision.KindPlant, decisions[0].Kind())
	assert.Equal(t, decision.KindIrrigate, decisions[1].Kind())
	assert.Equal(t, "run-test", decisions[1].RunID())
}

func TestEngine_ConcurrentTickAndDecisions(t *testing.T) {
	engine, _, _ := newEngine(t)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			engine.Tick(time.Millisecond)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = engine.Plant(crop.Wheat, 1)
			_ = engine.UpdateEnvironment(environment.Default())
		}
	}()
	wg.Wait()

	state := engine.Snapshot()
	total := state.Land.Available + state.Land.Cultivated + state.Land.Recovering
	assert.InDelta(t, state.Land.FarmSize, total, 1e-9)
}
