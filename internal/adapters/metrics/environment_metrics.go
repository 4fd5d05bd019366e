package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EnvironmentMetricsCollector records requests made by the remote
// environment provider. It satisfies the provider's FetchObserver.
type EnvironmentMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	retries         *prometheus.CounterVec
	rateLimitWait   prometheus.Histogram
}

// NewEnvironmentMetricsCollector creates a new environment feed collector
func NewEnvironmentMetricsCollector() *EnvironmentMetricsCollector {
	return &EnvironmentMetricsCollector{
		// Status code 0 marks a network failure
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "environment_requests_total",
				Help:      "Total number of environment feed requests by status code",
			},
			[]string{"status_code"},
		),

		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "environment_request_duration_seconds",
				Help:      "Environment feed request duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "environment_retries_total",
				Help:      "Total number of environment feed retry attempts",
			},
			[]string{"reason"},
		),

		rateLimitWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "environment_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the environment feed rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
		),
	}
}

// Register registers all environment metrics with the Prometheus registry
func (c *EnvironmentMetricsCollector) Register() error {
	return register(
		c.requestsTotal,
		c.requestDuration,
		c.retries,
		c.rateLimitWait,
	)
}

// RecordFetch records one completed request
func (c *EnvironmentMetricsCollector) RecordFetch(statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordRetry records a retry and why it happened
func (c *EnvironmentMetricsCollector) RecordRetry(reason string) {
	c.retries.WithLabelValues(reason).Inc()
}

// RecordRateLimitWait records time spent waiting for the rate limiter
func (c *EnvironmentMetricsCollector) RecordRateLimitWait(duration time.Duration) {
	c.rateLimitWait.Observe(duration.Seconds())
}
