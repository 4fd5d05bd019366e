package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/adapters/metrics"
	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/test/helpers"
)

type failingQuery struct{}

type handlerFunc func(ctx context.Context, req mediator.Request) (mediator.Response, error)

func (f handlerFunc) Handle(ctx context.Context, req mediator.Request) (mediator.Response, error) {
	return f(ctx, req)
}

func initRegistry(t *testing.T) {
	t.Helper()
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.Registry = nil })
}

// sample returns the value of the first series of name whose labels include
// want, and whether one was found.
func sample(t *testing.T, name string, want map[string]string) (float64, bool) {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue(), true
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue(), true
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount()), true
			}
		}
	}
	return 0, false
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	initRegistry(t)
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	m := mediator.NewMediator()
	m.RegisterMiddleware(metrics.PrometheusMiddleware(collector))
	require.NoError(t, mediator.RegisterHandler[*failingQuery](m, handlerFunc(func(ctx context.Context, req mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})))

	_, err := m.Send(context.Background(), &failingQuery{})
	require.Error(t, err)

	v, ok := sample(t, "farmsim_sim_commands_total", map[string]string{"command": "failingQuery", "status": "error"})
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	m := mediator.NewMediator()
	m.RegisterMiddleware(metrics.PrometheusMiddleware(nil))
	require.NoError(t, mediator.RegisterHandler[*failingQuery](m, handlerFunc(func(ctx context.Context, req mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})))

	resp, err := m.Send(context.Background(), &failingQuery{})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestFarmMetricsCollector_TracksEngine(t *testing.T) {
	initRegistry(t)

	engine, _ := helpers.NewTestEngine(t, helpers.TestEngineConfig())
	m := mediator.NewMediator()
	require.NoError(t, farm.RegisterHandlers(m, farm.Dependencies{Engine: engine}))

	collector := metrics.NewFarmMetricsCollector(m, engine.RunID(), nil)
	require.NoError(t, collector.Register())
	engine.Subscribe(collector.HandleEvent)

	ctx := context.Background()
	_, err := m.Send(ctx, &commands.ExecuteDecisionCommand{Action: "plant", CropType: "wheat", Area: 10})
	require.NoError(t, err)
	_, err = m.Send(ctx, &commands.ExecuteDecisionCommand{Action: "plant", CropType: "wheat", Area: 1000})
	require.NoError(t, err)
	_, err = m.Send(ctx, &commands.AdvanceTimeCommand{Elapsed: helpers.TestWeek})
	require.NoError(t, err)

	collector.Update(ctx)

	run := map[string]string{"run_id": engine.RunID()}
	applied, ok := sample(t, "farmsim_sim_decisions_total", map[string]string{"kind": "PLANT", "outcome": "APPLIED"})
	require.True(t, ok)
	assert.Equal(t, 1.0, applied)
	rejected, ok := sample(t, "farmsim_sim_decisions_total", map[string]string{"kind": "PLANT", "outcome": "REJECTED"})
	require.True(t, ok)
	assert.Equal(t, 1.0, rejected)

	settled, ok := sample(t, "farmsim_sim_weekly_net", run)
	require.True(t, ok)
	assert.Equal(t, 1.0, settled)

	week, ok := sample(t, "farmsim_sim_game_week", run)
	require.True(t, ok)
	assert.Equal(t, 2.0, week)

	cultivated, ok := sample(t, "farmsim_sim_land_hectares", map[string]string{"state": "cultivated"})
	require.True(t, ok)
	assert.Equal(t, 10.0, cultivated)

	wheat, ok := sample(t, "farmsim_sim_crop_hectares", map[string]string{"crop_type": "wheat"})
	require.True(t, ok)
	assert.Equal(t, 10.0, wheat)

	_, ok = sample(t, "farmsim_sim_market_price", map[string]string{"crop_type": "corn"})
	assert.True(t, ok)
}

func TestFarmMetricsCollector_RegisterWithoutRegistryIsNoOp(t *testing.T) {
	collector := metrics.NewFarmMetricsCollector(nil, "run-x", nil)

	assert.NoError(t, collector.Register())
	collector.Update(context.Background())
}

func TestEnvironmentMetricsCollector_RecordsRequests(t *testing.T) {
	initRegistry(t)
	collector := metrics.NewEnvironmentMetricsCollector()
	require.NoError(t, collector.Register())

	collector.RecordFetch(503, 20*time.Millisecond)
	collector.RecordRetry("server_error")
	collector.RecordFetch(200, 10*time.Millisecond)
	collector.RecordFetch(0, time.Second)
	collector.RecordRateLimitWait(time.Millisecond)

	ok200, found := sample(t, "farmsim_sim_environment_requests_total", map[string]string{"status_code": "200"})
	require.True(t, found)
	assert.Equal(t, 1.0, ok200)
	network, found := sample(t, "farmsim_sim_environment_requests_total", map[string]string{"status_code": "0"})
	require.True(t, found)
	assert.Equal(t, 1.0, network)
	retries, found := sample(t, "farmsim_sim_environment_retries_total", map[string]string{"reason": "server_error"})
	require.True(t, found)
	assert.Equal(t, 1.0, retries)
	durations, found := sample(t, "farmsim_sim_environment_request_duration_seconds", nil)
	require.True(t, found)
	assert.Equal(t, 3.0, durations)
}

type fakeRunner struct {
	status shared.LifecycleStatus
	weeks  int
}

func (r *fakeRunner) Status() shared.LifecycleStatus { return r.status }
func (r *fakeRunner) WeeksAdvanced() int             { return r.weeks }

func TestRunnerMetricsCollector_FollowsStatus(t *testing.T) {
	initRegistry(t)
	runner := &fakeRunner{status: shared.LifecycleStatusRunning, weeks: 3}
	collector := metrics.NewRunnerMetricsCollector(runner)
	require.NoError(t, collector.Register())

	collector.Update()
	running, _ := sample(t, "farmsim_sim_runner_status", map[string]string{"status": "RUNNING"})
	weeks, _ := sample(t, "farmsim_sim_runner_weeks_advanced", nil)
	assert.Equal(t, 1.0, running)
	assert.Equal(t, 3.0, weeks)

	runner.status = shared.LifecycleStatusPaused
	collector.Update()
	running, _ = sample(t, "farmsim_sim_runner_status", map[string]string{"status": "RUNNING"})
	paused, _ := sample(t, "farmsim_sim_runner_status", map[string]string{"status": "PAUSED"})
	assert.Equal(t, 0.0, running)
	assert.Equal(t, 1.0, paused)
}
