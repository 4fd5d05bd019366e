package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Land        LandConfig        `mapstructure:"land"`
	Economy     EconomyConfig     `mapstructure:"economy"`
	Environment EnvironmentConfig `mapstructure:"environment"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Daemon      DaemonConfig      `mapstructure:"daemon"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/farmsim")
	}

	v.SetEnvPrefix("FARM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// Read config file (optional - don't error if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL is honored without the FARM_ prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv can override values that
// are absent from the config file; viper only consults env vars for keys it knows.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"simulation.farm_type", "simulation.game_hour", "simulation.hours_per_day",
		"simulation.days_per_week", "simulation.tick_interval", "simulation.base_growth_rate",
		"simulation.base_water_consumption", "simulation.base_nutrient_consumption",
		"simulation.strict_invariants", "simulation.event_queue_size",
		"land.dead_recovery", "land.harvested_recovery", "land.recovery_timebase",
		"economy.price_mode", "economy.volatility_seed", "economy.fuel_price",
		"environment.provider", "environment.url", "environment.poll_interval", "environment.timeout",
		"database.type", "database.url", "database.path", "database.disabled", "database.skip_migrate",
		"daemon.pid_file", "daemon.autopilot",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.port", "metrics.host", "metrics.path",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
