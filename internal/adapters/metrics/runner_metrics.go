package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

var lifecycleStatuses = []shared.LifecycleStatus{
	shared.LifecycleStatusPending,
	shared.LifecycleStatusRunning,
	shared.LifecycleStatusPaused,
	shared.LifecycleStatusCompleted,
	shared.LifecycleStatusFailed,
	shared.LifecycleStatusStopped,
}

// RunnerInfo is the part of a simulation host the collector reads
type RunnerInfo interface {
	Status() shared.LifecycleStatus
	WeeksAdvanced() int
}

// RunnerMetricsCollector exports the lifecycle of the host driving a run
type RunnerMetricsCollector struct {
	runner RunnerInfo

	status        *prometheus.GaugeVec
	weeksAdvanced prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewRunnerMetricsCollector creates a collector for one runner
func NewRunnerMetricsCollector(runner RunnerInfo) *RunnerMetricsCollector {
	return &RunnerMetricsCollector{
		runner: runner,

		// One series per status; the current one is 1
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runner_status",
				Help:      "Lifecycle status of the simulation host",
			},
			[]string{"status"},
		),

		weeksAdvanced: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runner_weeks_advanced",
				Help:      "Game weeks delivered by the host since it started",
			},
		),
	}
}

// Register registers all runner metrics with the Prometheus registry
func (c *RunnerMetricsCollector) Register() error {
	return register(c.status, c.weeksAdvanced)
}

// Start begins polling the runner every interval
func (c *RunnerMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.Update()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.Update()
			}
		}
	}()
}

// Stop gracefully stops the polling goroutine
func (c *RunnerMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

// Update reads the runner once
func (c *RunnerMetricsCollector) Update() {
	current := c.runner.Status()
	for _, s := range lifecycleStatuses {
		v := 0.0
		if s == current {
			v = 1
		}
		c.status.WithLabelValues(string(s)).Set(v)
	}
	c.weeksAdvanced.Set(float64(c.runner.WeeksAdvanced()))
}
