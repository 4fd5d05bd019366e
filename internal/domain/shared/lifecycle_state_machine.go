package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus is the state of a hosted simulation run
type LifecycleStatus string

const (
	LifecycleStatusPending   LifecycleStatus = "PENDING"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusPaused    LifecycleStatus = "PAUSED"
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
	LifecycleStatusStopped   LifecycleStatus = "STOPPED"
)

// LifecycleStateMachine tracks a run through
// PENDING → RUNNING ⇄ PAUSED → COMPLETED/FAILED/STOPPED.
//
// Time spent paused is accumulated separately so ActiveDuration reports
// only the time the host was actually ticking. Not safe for concurrent use;
// owners guard it with their own lock.
type LifecycleStateMachine struct {
	status    LifecycleStatus
	createdAt time.Time
	updatedAt time.Time
	startedAt *time.Time
	stoppedAt *time.Time
	pausedAt  *time.Time
	paused    time.Duration
	lastError error
	clock     Clock
}

// NewLifecycleStateMachine creates a state machine in PENDING state
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}

	now := clock.Now()
	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() time.Time    { return sm.createdAt }
func (sm *LifecycleStateMachine) UpdatedAt() time.Time    { return sm.updatedAt }
func (sm *LifecycleStateMachine) StartedAt() *time.Time   { return sm.startedAt }
func (sm *LifecycleStateMachine) StoppedAt() *time.Time   { return sm.stoppedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Start transitions from PENDING to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	sm.updatedAt = now
	return nil
}

// Pause transitions from RUNNING to PAUSED
func (sm *LifecycleStateMachine) Pause() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot pause from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusPaused
	sm.pausedAt = &now
	sm.updatedAt = now
	return nil
}

// Resume transitions from PAUSED back to RUNNING
func (sm *LifecycleStateMachine) Resume() error {
	if sm.status != LifecycleStatusPaused {
		return fmt.Errorf("cannot resume from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.closePause(now)
	sm.status = LifecycleStatusRunning
	sm.updatedAt = now
	return nil
}

// Complete transitions from RUNNING or PAUSED to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning && sm.status != LifecycleStatusPaused {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	sm.finish(LifecycleStatusCompleted)
	return nil
}

// Fail transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	sm.lastError = err
	sm.finish(LifecycleStatusFailed)
	return nil
}

// Stop transitions to STOPPED from any non-terminal state
func (sm *LifecycleStateMachine) Stop() error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot stop from %s state", sm.status)
	}
	sm.finish(LifecycleStatusStopped)
	return nil
}

func (sm *LifecycleStateMachine) finish(status LifecycleStatus) {
	now := sm.clock.Now()
	sm.closePause(now)
	sm.status = status
	sm.stoppedAt = &now
	sm.updatedAt = now
}

func (sm *LifecycleStateMachine) closePause(now time.Time) {
	if sm.pausedAt != nil {
		sm.paused += now.Sub(*sm.pausedAt)
		sm.pausedAt = nil
	}
}

// IsRunning reports whether the run is ticking
func (sm *LifecycleStateMachine) IsRunning() bool {
	return sm.status == LifecycleStatusRunning
}

// IsPaused reports whether the run is paused
func (sm *LifecycleStateMachine) IsPaused() bool {
	return sm.status == LifecycleStatusPaused
}

// IsFinished reports whether the run reached a terminal state
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted ||
		sm.status == LifecycleStatusFailed ||
		sm.status == LifecycleStatusStopped
}

// ActiveDuration is the time spent RUNNING, excluding pauses. Zero before
// Start.
func (sm *LifecycleStateMachine) ActiveDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}

	end := sm.clock.Now()
	if sm.stoppedAt != nil {
		end = *sm.stoppedAt
	}

	paused := sm.paused
	if sm.pausedAt != nil {
		paused += end.Sub(*sm.pausedAt)
	}
	return end.Sub(*sm.startedAt) - paused
}
