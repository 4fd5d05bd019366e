package farm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// RunnerConfig controls how a host drives the engine
type RunnerConfig struct {
	// Wall time between ticks in real-time mode
	TickInterval time.Duration

	// Wall time of one game week; RunWeeks advances in steps of this size
	WeekDuration time.Duration

	// Let the autopilot decide after every tick
	Autopilot bool

	// Complete after this many game weeks; 0 runs until stopped
	MaxWeeks int

	// How long Stop waits for the loop to exit
	StopTimeout time.Duration
}

// Runner drives a simulation through the mediator, either in real time from
// a ticker or in fixed weekly steps. All engine access goes through
// AdvanceTimeCommand and RunAutopilotCommand.
type Runner struct {
	mediator mediator.Mediator
	cfg      RunnerConfig
	clock    shared.Clock
	logger   logging.SimLogger

	mu        sync.RWMutex
	lifecycle *shared.LifecycleStateMachine
	weeks     int
	lastTick  time.Time

	ctx        context.Context
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// NewRunner creates a runner in PENDING state
func NewRunner(m mediator.Mediator, cfg RunnerConfig, clock shared.Clock, logger logging.SimLogger) *Runner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 10 * time.Second
	}
	return &Runner{
		mediator:  m,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		lifecycle: shared.NewLifecycleStateMachine(clock),
		done:      make(chan struct{}),
	}
}

// Status returns the lifecycle status
func (r *Runner) Status() shared.LifecycleStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lifecycle.Status()
}

// WeeksAdvanced returns the game weeks this runner has driven
func (r *Runner) WeeksAdvanced() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weeks
}

// Err returns the error that failed the run, if any
func (r *Runner) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lifecycle.LastError()
}

// Done is closed when the real-time loop exits
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Start launches the real-time tick loop
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if err := r.lifecycle.Start(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.lastTick = r.clock.Now()
	r.ctx, r.cancelFunc = context.WithCancel(logging.WithLogger(ctx, r.logger))
	r.mu.Unlock()

	r.logger.Log(logging.LevelInfo, "Simulation started", map[string]interface{}{
		"tick_interval": r.cfg.TickInterval.String(),
		"autopilot":     r.cfg.Autopilot,
	})

	go r.loop()
	return nil
}

// Pause stops feeding time to the engine. Wall time that passes while paused
// is never delivered.
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lifecycle.Pause(); err != nil {
		return err
	}
	r.logger.Log(logging.LevelInfo, "Simulation paused", nil)
	return nil
}

// Resume continues ticking from now
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lifecycle.Resume(); err != nil {
		return err
	}
	r.lastTick = r.clock.Now()
	r.logger.Log(logging.LevelInfo, "Simulation resumed", nil)
	return nil
}

// Stop ends the loop and waits for it to exit
func (r *Runner) Stop() error {
	r.mu.Lock()
	if err := r.lifecycle.Stop(); err != nil {
		r.mu.Unlock()
		return err
	}
	cancel := r.cancelFunc
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-r.done:
		r.logger.Log(logging.LevelInfo, "Simulation stopped", map[string]interface{}{"weeks": r.WeeksAdvanced()})
	case <-time.After(r.cfg.StopTimeout):
		r.logger.Log(logging.LevelWarn, "Simulation loop did not stop within timeout", nil)
	}
	return nil
}

func (r *Runner) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.mu.Lock()
			if !r.lifecycle.IsFinished() {
				_ = r.lifecycle.Stop()
			}
			r.mu.Unlock()
			return
		case <-ticker.C:
			finished, err := r.tickOnce()
			if err != nil {
				r.fail(err)
				return
			}
			if finished {
				return
			}
		}
	}
}

func (r *Runner) tickOnce() (bool, error) {
	r.mu.Lock()
	if !r.lifecycle.IsRunning() {
		finished := r.lifecycle.IsFinished()
		r.mu.Unlock()
		return finished, nil
	}
	now := r.clock.Now()
	elapsed := now.Sub(r.lastTick)
	r.lastTick = now
	r.mu.Unlock()

	if err := r.advance(r.ctx, elapsed); err != nil {
		return false, err
	}
	return r.completeIfDone(), nil
}

// RunWeeks advances the engine one game week at a time without waiting on
// the wall clock. It is the batch mode used by the CLI.
func (r *Runner) RunWeeks(ctx context.Context, weeks int) error {
	if r.cfg.WeekDuration <= 0 {
		return fmt.Errorf("week duration must be positive")
	}
	r.mu.Lock()
	if err := r.lifecycle.Start(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()
	ctx = logging.WithLogger(ctx, r.logger)

	for i := 0; i < weeks; i++ {
		if err := ctx.Err(); err != nil {
			r.mu.Lock()
			_ = r.lifecycle.Stop()
			r.mu.Unlock()
			return err
		}
		if err := r.advance(ctx, r.cfg.WeekDuration); err != nil {
			r.fail(err)
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lifecycle.Complete()
}

func (r *Runner) advance(ctx context.Context, elapsed time.Duration) error {
	resp, err := r.mediator.Send(ctx, &commands.AdvanceTimeCommand{Elapsed: elapsed})
	if err != nil {
		return fmt.Errorf("advance time: %w", err)
	}
	advanced, ok := resp.(*commands.AdvanceTimeResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", resp)
	}

	r.mu.Lock()
	r.weeks += advanced.Report.WeeksAdvanced
	r.mu.Unlock()

	if advanced.Report.WeeksAdvanced > 0 {
		r.logger.Log(logging.LevelDebug, "Game week advanced", map[string]interface{}{
			"week":   advanced.Report.Week,
			"season": advanced.Report.Season.String(),
			"died":   advanced.Report.CropsDied,
		})
	}

	if !r.cfg.Autopilot {
		return nil
	}
	if _, err := r.mediator.Send(ctx, &commands.RunAutopilotCommand{}); err != nil {
		return fmt.Errorf("autopilot: %w", err)
	}
	return nil
}

func (r *Runner) completeIfDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.MaxWeeks <= 0 || r.weeks < r.cfg.MaxWeeks {
		return false
	}
	if err := r.lifecycle.Complete(); err != nil {
		return r.lifecycle.IsFinished()
	}
	r.logger.Log(logging.LevelInfo, "Simulation completed", map[string]interface{}{"weeks": r.weeks})
	return true
}

func (r *Runner) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lifecycle.IsFinished() {
		return
	}
	_ = r.lifecycle.Fail(err)
	r.logger.Log(logging.LevelError, "Simulation failed", map[string]interface{}{"error": err.Error()})
}
