package simulation

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
)

// Timebase selects the clock channel land recovery deadlines are measured on
type Timebase string

const (
	// TimebaseWall measures recovery on the real clock; deadlines keep
	// expiring while the host is paused.
	TimebaseWall Timebase = "wall"
	// TimebaseSim measures recovery on simulated elapsed time, which stands
	// still while the host is not ticking.
	TimebaseSim Timebase = "sim"
)

// ParseTimebase resolves a timebase name, defaulting to wall
func ParseTimebase(name string) (Timebase, error) {
	switch Timebase(name) {
	case TimebaseWall, "":
		return TimebaseWall, nil
	case TimebaseSim:
		return TimebaseSim, nil
	default:
		return "", fmt.Errorf("unknown recovery timebase %q (want wall or sim)", name)
	}
}

// Config is everything the engine needs to start a run
type Config struct {
	RunID            string
	FarmType         economy.FarmType
	FarmSize         float64 // overrides the preset's land when > 0
	Clock            calendar.Config
	Lifecycle        crop.LifecycleConfig
	Windows          land.Windows
	RecoveryTimebase Timebase
	PriceMode        economy.PriceMode
	VolatilitySeed   int64 // 0 seeds from the wall clock
	FuelPrice        float64
	StrictInvariants bool
	EventQueueSize   int
	ReportHistory    int // weekly reports kept in memory
}

// DefaultConfig returns a smallholder run with the standard calendar
func DefaultConfig() Config {
	return Config{
		FarmType:         economy.Smallholder,
		Clock:            calendar.DefaultConfig(),
		Lifecycle:        crop.DefaultLifecycleConfig(),
		Windows:          land.DefaultWindows(),
		RecoveryTimebase: TimebaseWall,
		PriceMode:        economy.PriceModeSpot,
		FuelPrice:        economy.DefaultFuelPrice,
		EventQueueSize:   4096,
		ReportHistory:    520,
	}
}

func (c *Config) normalize(now time.Time) error {
	if c.FarmType == "" {
		c.FarmType = economy.Smallholder
	}
	if _, ok := economy.PresetFor(c.FarmType); !ok {
		return fmt.Errorf("unknown farm type %q", c.FarmType)
	}
	if err := c.Clock.Validate(); err != nil {
		return fmt.Errorf("invalid clock config: %w", err)
	}
	if c.Lifecycle.BaseGrowthRate <= 0 {
		c.Lifecycle = crop.DefaultLifecycleConfig()
	}
	if c.Windows == (land.Windows{}) {
		c.Windows = land.DefaultWindows()
	}
	if c.RecoveryTimebase == "" {
		c.RecoveryTimebase = TimebaseWall
	}
	if c.PriceMode == "" {
		c.PriceMode = economy.PriceModeSpot
	}
	if c.VolatilitySeed == 0 {
		c.VolatilitySeed = now.UnixNano()
	}
	if c.FuelPrice <= 0 {
		c.FuelPrice = economy.DefaultFuelPrice
	}
	if c.ReportHistory <= 0 {
		c.ReportHistory = 520
	}
	return nil
}
