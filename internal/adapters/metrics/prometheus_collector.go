package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "farmsim"
	// Subsystem for simulation metrics
	subsystem = "sim"
)

// Registry is the global Prometheus registry for all metrics. It stays nil
// until InitRegistry is called, which leaves every collector inert.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry with the Go runtime and
// process collectors. Call once at startup when metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GetRegistry returns the global Prometheus registry, or nil when metrics
// are disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

func register(metrics ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
