package environment

import (
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

// NewProvider builds the provider selected in cfg. week is only used by the
// seasonal provider and observer only by the http provider.
func NewProvider(cfg config.EnvironmentConfig, week WeekFunc, clock shared.Clock, observer FetchObserver) (environment.Provider, error) {
	switch cfg.Provider {
	case "static":
		return NewStaticProvider(cfg.WaterMultiplier, cfg.NutrientMultiplier, clock), nil
	case "seasonal":
		if week == nil {
			return nil, fmt.Errorf("seasonal provider requires a week source")
		}
		return NewSeasonalProvider(week, clock), nil
	case "http":
		if cfg.URL == "" {
			return nil, fmt.Errorf("http provider requires a url")
		}
		return NewHTTPProvider(cfg.URL, HTTPOptions{
			Timeout:     cfg.Timeout,
			RateLimit:   cfg.RateLimit.Requests,
			Burst:       cfg.RateLimit.Burst,
			MaxRetries:  cfg.Retry.MaxAttempts,
			BackoffBase: cfg.Retry.BackoffBase,
			Clock:       clock,
			Observer:    observer,
		}), nil
	default:
		return nil, fmt.Errorf("unknown environment provider %q", cfg.Provider)
	}
}
