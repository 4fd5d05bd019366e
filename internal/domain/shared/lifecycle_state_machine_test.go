package shared_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

func TestLifecycle_PauseExcludedFromActiveDuration(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	sm := shared.NewLifecycleStateMachine(clock)

	require.NoError(t, sm.Start())
	clock.Advance(10 * time.Second)
	require.NoError(t, sm.Pause())
	clock.Advance(time.Hour)
	assert.Equal(t, 10*time.Second, sm.ActiveDuration())
	require.NoError(t, sm.Resume())
	clock.Advance(5 * time.Second)
	require.NoError(t, sm.Complete())
	clock.Advance(time.Minute)

	assert.Equal(t, shared.LifecycleStatusCompleted, sm.Status())
	assert.Equal(t, 15*time.Second, sm.ActiveDuration())
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	sm := shared.NewLifecycleStateMachine(nil)

	assert.Error(t, sm.Pause(), "pause before start")
	assert.Error(t, sm.Resume(), "resume while pending")
	assert.Error(t, sm.Complete(), "complete while pending")

	require.NoError(t, sm.Start())
	assert.Error(t, sm.Start(), "double start")
	assert.Error(t, sm.Resume(), "resume while running")

	require.NoError(t, sm.Fail(errors.New("disk full")))
	assert.True(t, sm.IsFinished())
	assert.EqualError(t, sm.LastError(), "disk full")
	assert.Error(t, sm.Stop(), "stop after failure")
}

func TestLifecycle_StopWhilePaused(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	sm := shared.NewLifecycleStateMachine(clock)
	require.NoError(t, sm.Start())
	clock.Advance(time.Second)
	require.NoError(t, sm.Pause())
	clock.Advance(time.Minute)

	require.NoError(t, sm.Stop())

	assert.Equal(t, shared.LifecycleStatusStopped, sm.Status())
	assert.Equal(t, time.Second, sm.ActiveDuration())
	require.NotNil(t, sm.StoppedAt())
}
