package config

import "time"

// SimulationConfig holds the engine's pacing and rule settings
type SimulationConfig struct {
	// Farm preset: smallholder, industrial or organic
	FarmType string `mapstructure:"farm_type" validate:"required,oneof=smallholder industrial organic"`

	// Overrides the preset's farm size when positive
	FarmSize float64 `mapstructure:"farm_size" validate:"gte=0"`

	// Wall-clock time per game hour
	GameHour time.Duration `mapstructure:"game_hour" validate:"required,positive"`

	HoursPerDay int `mapstructure:"hours_per_day" validate:"min=1"`
	DaysPerWeek int `mapstructure:"days_per_week" validate:"min=1"`

	// Host tick cadence
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required,positive"`

	// Crop lifecycle rates
	BaseGrowthRate          float64 `mapstructure:"base_growth_rate" validate:"gt=0,lte=1"`
	BaseWaterConsumption    float64 `mapstructure:"base_water_consumption" validate:"gte=0,lte=1"`
	BaseNutrientConsumption float64 `mapstructure:"base_nutrient_consumption" validate:"gte=0,lte=1"`

	// Panic on invariant violations instead of clamping
	StrictInvariants bool `mapstructure:"strict_invariants"`

	// Capacity of the outbound event queue
	EventQueueSize int `mapstructure:"event_queue_size" validate:"min=1"`
}

// LandConfig holds land recovery settings
type LandConfig struct {
	DeadRecovery      time.Duration `mapstructure:"dead_recovery" validate:"gte=0"`
	HarvestedRecovery time.Duration `mapstructure:"harvested_recovery" validate:"gte=0"`

	// Which clock recovery deadlines run on: wall keeps counting while paused, sim does not
	RecoveryTimebase string `mapstructure:"recovery_timebase" validate:"required,oneof=wall sim"`
}

// EconomyConfig holds market settings
type EconomyConfig struct {
	// spot draws volatility per query, weekly caches it per crop per week
	PriceMode string `mapstructure:"price_mode" validate:"required,oneof=spot weekly"`

	// Seed for market volatility; 0 seeds from the wall clock
	VolatilitySeed int64 `mapstructure:"volatility_seed"`

	// Money per fuel unit bought at settlement
	FuelPrice float64 `mapstructure:"fuel_price" validate:"gte=0"`
}
