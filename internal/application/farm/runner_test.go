package farm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/test/helpers"
)

func TestRunner_RunWeeksWithAutopilot(t *testing.T) {
	f := newFixture(t, true)
	runner := farm.NewRunner(f.mediator, farm.RunnerConfig{WeekDuration: helpers.TestWeek, Autopilot: true}, nil, nil)

	err := runner.RunWeeks(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusCompleted, runner.Status())
	assert.Equal(t, 3, runner.WeeksAdvanced())
	state := f.engine.Snapshot()
	assert.Equal(t, uint32(4), state.Clock.Week)
	assert.NotEmpty(t, state.Crops, "autopilot plants in spring")

	reports, err := f.repos.ReportRepo.FindByRun(context.Background(), "run-test", 0)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
}

func TestRunner_RunWeeksHonorsCancellation(t *testing.T) {
	f := newFixture(t, false)
	runner := farm.NewRunner(f.mediator, farm.RunnerConfig{WeekDuration: helpers.TestWeek}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.RunWeeks(ctx, 5)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, shared.LifecycleStatusStopped, runner.Status())
	assert.Equal(t, uint32(1), f.engine.Snapshot().Clock.Week)
}

func TestRunner_RealTimeCompletesAfterMaxWeeks(t *testing.T) {
	f := newFixture(t, false)
	runner := farm.NewRunner(f.mediator, farm.RunnerConfig{TickInterval: 2 * time.Millisecond, MaxWeeks: 1}, nil, nil)

	require.NoError(t, runner.Start(context.Background()))

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not complete")
	}
	assert.Equal(t, shared.LifecycleStatusCompleted, runner.Status())
	assert.GreaterOrEqual(t, f.engine.Snapshot().Clock.Week, uint32(2))
}

func TestRunner_PauseDeliversNoTime(t *testing.T) {
	f := newFixture(t, false)
	runner := farm.NewRunner(f.mediator, farm.RunnerConfig{TickInterval: time.Millisecond}, nil, nil)
	require.NoError(t, runner.Start(context.Background()))

	require.NoError(t, runner.Pause())
	time.Sleep(10 * time.Millisecond)
	before := f.engine.Snapshot().Clock
	time.Sleep(2 * helpers.TestWeek)
	after := f.engine.Snapshot().Clock

	assert.Equal(t, before, after)
	assert.Equal(t, shared.LifecycleStatusPaused, runner.Status())

	require.NoError(t, runner.Resume())
	require.NoError(t, runner.Stop())
	assert.Equal(t, shared.LifecycleStatusStopped, runner.Status())
	assert.Error(t, runner.Resume())
}

func TestRunner_FailsWhenEngineUnreachable(t *testing.T) {
	runner := farm.NewRunner(mediator.NewMediator(), farm.RunnerConfig{TickInterval: time.Millisecond}, nil, nil)

	require.NoError(t, runner.Start(context.Background()))

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not fail")
	}
	assert.Equal(t, shared.LifecycleStatusFailed, runner.Status())
	assert.Error(t, runner.Err())
}
