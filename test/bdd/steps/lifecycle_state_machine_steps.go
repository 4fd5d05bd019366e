package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

type lifecycleStateMachineContext struct {
	stateMachine    *shared.LifecycleStateMachine
	clock           *shared.MockClock
	transitionError error
}

func (lc *lifecycleStateMachineContext) reset() {
	lc.stateMachine = nil
	lc.clock = shared.NewMockClock(time.Time{})
	lc.transitionError = nil
}

func (lc *lifecycleStateMachineContext) requireMachine() error {
	if lc.stateMachine == nil {
		return fmt.Errorf("no state machine available")
	}
	return nil
}

// Given steps

func (lc *lifecycleStateMachineContext) aLifecycleStateMachineInState(state string) error {
	lc.clock = shared.NewMockClock(time.Time{})
	lc.stateMachine = shared.NewLifecycleStateMachine(lc.clock)

	switch shared.LifecycleStatus(state) {
	case shared.LifecycleStatusPending:
		return nil
	case shared.LifecycleStatusStopped:
		return lc.stateMachine.Stop()
	}

	if err := lc.stateMachine.Start(); err != nil {
		return err
	}
	switch shared.LifecycleStatus(state) {
	case shared.LifecycleStatusRunning:
		return nil
	case shared.LifecycleStatusPaused:
		return lc.stateMachine.Pause()
	case shared.LifecycleStatusCompleted:
		return lc.stateMachine.Complete()
	case shared.LifecycleStatusFailed:
		return lc.stateMachine.Fail(errors.New("test error"))
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

func (lc *lifecycleStateMachineContext) secondsHavePassed(seconds int) error {
	lc.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

// When steps

func (lc *lifecycleStateMachineContext) iCreateANewLifecycleStateMachine() error {
	lc.clock = shared.NewMockClock(time.Time{})
	lc.stateMachine = shared.NewLifecycleStateMachine(lc.clock)
	return nil
}

func (lc *lifecycleStateMachineContext) transition(fn func(sm *shared.LifecycleStateMachine) error) func() error {
	return func() error {
		if err := lc.requireMachine(); err != nil {
			return err
		}
		lc.transitionError = fn(lc.stateMachine)
		return nil
	}
}

func (lc *lifecycleStateMachineContext) iFailTheLifecycleStateMachineWithError(errorMsg string) error {
	if err := lc.requireMachine(); err != nil {
		return err
	}
	lc.transitionError = lc.stateMachine.Fail(errors.New(errorMsg))
	return nil
}

// Then steps

func (lc *lifecycleStateMachineContext) theLifecycleStatusShouldBe(expected string) error {
	if err := lc.requireMachine(); err != nil {
		return err
	}
	if got := string(lc.stateMachine.Status()); got != expected {
		return fmt.Errorf("expected status %s, got %s", expected, got)
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theStartedTimestampShouldBe(state string) error {
	return checkTimestamp("started", lc.stateMachine.StartedAt(), state)
}

func (lc *lifecycleStateMachineContext) theStoppedTimestampShouldBe(state string) error {
	return checkTimestamp("stopped", lc.stateMachine.StoppedAt(), state)
}

func checkTimestamp(name string, ts *time.Time, state string) error {
	if state == "nil" && ts != nil {
		return fmt.Errorf("expected %s timestamp to be nil, got %v", name, *ts)
	}
	if state == "set" && ts == nil {
		return fmt.Errorf("expected %s timestamp to be set but was nil", name)
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theTransitionShouldFail() error {
	if lc.transitionError == nil {
		return fmt.Errorf("expected transition to fail, but it succeeded")
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theLastErrorShouldBe(expectedError string) error {
	if err := lc.requireMachine(); err != nil {
		return err
	}
	if lc.stateMachine.LastError() == nil {
		return fmt.Errorf("expected last error to be '%s', but it was nil", expectedError)
	}
	if lc.stateMachine.LastError().Error() != expectedError {
		return fmt.Errorf("expected last error '%s', got '%s'", expectedError, lc.stateMachine.LastError().Error())
	}
	return nil
}

func (lc *lifecycleStateMachineContext) checkShouldReturn(name string, check func(sm *shared.LifecycleStateMachine) bool) func(string) error {
	return func(expectedStr string) error {
		if err := lc.requireMachine(); err != nil {
			return err
		}
		expected := expectedStr == "true"
		if got := check(lc.stateMachine); got != expected {
			return fmt.Errorf("expected %s check to return %t, got %t", name, expected, got)
		}
		return nil
	}
}

func (lc *lifecycleStateMachineContext) theActiveDurationShouldBeSeconds(expectedSeconds int) error {
	if err := lc.requireMachine(); err != nil {
		return err
	}
	expected := time.Duration(expectedSeconds) * time.Second
	if got := lc.stateMachine.ActiveDuration(); got != expected {
		return fmt.Errorf("expected active duration %v, got %v", expected, got)
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theStateMachineShouldBeFinished() error {
	if err := lc.requireMachine(); err != nil {
		return err
	}
	if !lc.stateMachine.IsFinished() {
		return fmt.Errorf("expected state machine to be finished, but it was %s", lc.stateMachine.Status())
	}
	return nil
}

// InitializeLifecycleStateMachineScenario registers the lifecycle steps
func InitializeLifecycleStateMachineScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleStateMachineContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a lifecycle state machine in "([^"]*)" state$`, lc.aLifecycleStateMachineInState)
	ctx.Step(`^(\d+) seconds have passed$`, lc.secondsHavePassed)

	// When steps
	ctx.Step(`^I create a new lifecycle state machine$`, lc.iCreateANewLifecycleStateMachine)
	ctx.Step(`^I start the lifecycle state machine$`, lc.transition((*shared.LifecycleStateMachine).Start))
	ctx.Step(`^I pause the lifecycle state machine$`, lc.transition((*shared.LifecycleStateMachine).Pause))
	ctx.Step(`^I resume the lifecycle state machine$`, lc.transition((*shared.LifecycleStateMachine).Resume))
	ctx.Step(`^I complete the lifecycle state machine$`, lc.transition((*shared.LifecycleStateMachine).Complete))
	ctx.Step(`^I stop the lifecycle state machine$`, lc.transition((*shared.LifecycleStateMachine).Stop))
	ctx.Step(`^I fail the lifecycle state machine with error "([^"]*)"$`, lc.iFailTheLifecycleStateMachineWithError)

	// Then steps
	ctx.Step(`^the lifecycle status should be "([^"]*)"$`, lc.theLifecycleStatusShouldBe)
	ctx.Step(`^the started timestamp should be (nil|set)$`, lc.theStartedTimestampShouldBe)
	ctx.Step(`^the stopped timestamp should be (nil|set)$`, lc.theStoppedTimestampShouldBe)
	ctx.Step(`^the transition should fail$`, lc.theTransitionShouldFail)
	ctx.Step(`^the last error should be "([^"]*)"$`, lc.theLastErrorShouldBe)
	ctx.Step(`^the running check should return (true|false)$`, lc.checkShouldReturn("running", (*shared.LifecycleStateMachine).IsRunning))
	ctx.Step(`^the paused check should return (true|false)$`, lc.checkShouldReturn("paused", (*shared.LifecycleStateMachine).IsPaused))
	ctx.Step(`^the finished check should return (true|false)$`, lc.checkShouldReturn("finished", (*shared.LifecycleStateMachine).IsFinished))
	ctx.Step(`^the active duration should be (\d+) seconds$`, lc.theActiveDurationShouldBeSeconds)
	ctx.Step(`^the state machine should be finished$`, lc.theStateMachineShouldBeFinished)
}
