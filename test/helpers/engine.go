package helpers

import (
	"testing"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// TestStart is the wall time every test engine starts at
var TestStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// TestWeek is one game week of elapsed time on a test engine
const TestWeek = 168 * time.Millisecond

// TestEngineConfig returns a 100 ha smallholder run where one game hour
// passes per millisecond and prices are fixed for each week
func TestEngineConfig() simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.RunID = "run-test"
	cfg.FarmSize = 100
	cfg.Clock.GameHour = time.Millisecond
	cfg.VolatilitySeed = 42
	cfg.PriceMode = economy.PriceModeWeekly
	return cfg
}

// NewTestEngine builds an engine on a MockClock at TestStart
func NewTestEngine(t *testing.T, cfg simulation.Config, opts ...simulation.Option) (*simulation.Engine, *shared.MockClock) {
	t.Helper()
	wall := shared.NewMockClock(TestStart)
	opts = append([]simulation.Option{simulation.WithWallClock(wall)}, opts...)
	engine, err := simulation.New(cfg, opts...)
	if err != nil {
		t.Fatalf("failed to create test engine: %v", err)
	}
	return engine, wall
}
