package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.FarmType == "" {
		cfg.Simulation.FarmType = "smallholder"
	}
	if cfg.Simulation.GameHour == 0 {
		cfg.Simulation.GameHour = 2500 * time.Millisecond
	}
	if cfg.Simulation.HoursPerDay == 0 {
		cfg.Simulation.HoursPerDay = 24
	}
	if cfg.Simulation.DaysPerWeek == 0 {
		cfg.Simulation.DaysPerWeek = 7
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = time.Second
	}
	if cfg.Simulation.BaseGrowthRate == 0 {
		cfg.Simulation.BaseGrowthRate = 0.1
	}
	if cfg.Simulation.BaseWaterConsumption == 0 {
		cfg.Simulation.BaseWaterConsumption = 0.02
	}
	if cfg.Simulation.BaseNutrientConsumption == 0 {
		cfg.Simulation.BaseNutrientConsumption = 0.01
	}
	if cfg.Simulation.EventQueueSize == 0 {
		cfg.Simulation.EventQueueSize = 4096
	}

	// Land defaults
	if cfg.Land.DeadRecovery == 0 {
		cfg.Land.DeadRecovery = 20 * time.Minute
	}
	if cfg.Land.HarvestedRecovery == 0 {
		cfg.Land.HarvestedRecovery = 10 * time.Minute
	}
	if cfg.Land.RecoveryTimebase == "" {
		cfg.Land.RecoveryTimebase = "wall"
	}

	// Economy defaults
	if cfg.Economy.PriceMode == "" {
		cfg.Economy.PriceMode = "spot"
	}
	if cfg.Economy.FuelPrice == 0 {
		cfg.Economy.FuelPrice = 3.0
	}

	// Environment defaults
	if cfg.Environment.Provider == "" {
		cfg.Environment.Provider = "seasonal"
	}
	if cfg.Environment.PollInterval == 0 {
		cfg.Environment.PollInterval = time.Minute
	}
	if cfg.Environment.Timeout == 0 {
		cfg.Environment.Timeout = 10 * time.Second
	}
	if cfg.Environment.RateLimit.Requests == 0 {
		cfg.Environment.RateLimit.Requests = 1
	}
	if cfg.Environment.RateLimit.Burst == 0 {
		cfg.Environment.RateLimit.Burst = 2
	}
	if cfg.Environment.Retry.MaxAttempts == 0 {
		cfg.Environment.Retry.MaxAttempts = 3
	}
	if cfg.Environment.Retry.BackoffBase == 0 {
		cfg.Environment.Retry.BackoffBase = time.Second
	}
	if cfg.Environment.WaterMultiplier == 0 {
		cfg.Environment.WaterMultiplier = 1
	}
	if cfg.Environment.NutrientMultiplier == 0 {
		cfg.Environment.NutrientMultiplier = 1
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "farmsim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "farmsim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "farmsim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/farmsim-daemon.pid"
	}
	if cfg.Daemon.CheckpointInterval == 0 {
		cfg.Daemon.CheckpointInterval = 30 * time.Second
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
