package config

import "time"

// EnvironmentConfig selects and tunes the environmental snapshot provider
type EnvironmentConfig struct {
	// Provider: static, seasonal or http
	Provider string `mapstructure:"provider" validate:"required,oneof=static seasonal http"`

	// Endpoint for the http provider
	URL string `mapstructure:"url" validate:"required_if=Provider http"`

	// How often the poller fetches a new snapshot
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,positive"`

	// Request timeout for the http provider
	Timeout time.Duration `mapstructure:"timeout" validate:"required,positive"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry"`

	// Multipliers used by the static provider
	WaterMultiplier    float64 `mapstructure:"water_multiplier" validate:"gt=0"`
	NutrientMultiplier float64 `mapstructure:"nutrient_multiplier" validate:"gt=0"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
