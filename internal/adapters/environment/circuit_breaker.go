package environment

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every fetch through
	CircuitClosed CircuitState = iota
	// CircuitOpen fails fetches fast until the cool-down has passed
	CircuitOpen
	// CircuitHalfOpen lets one probe through to test recovery
	CircuitHalfOpen
)

// ErrCircuitOpen is returned while the breaker is open
var ErrCircuitOpen = errors.New("environment provider circuit open")

// CircuitBreaker stops hammering a snapshot source that keeps failing
type CircuitBreaker struct {
	maxFailures     int
	cooldown        time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	mu              sync.RWMutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a breaker that opens after maxFailures
// consecutive failures. A nil clock uses the real clock.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       CircuitClosed,
		clock:       clock,
	}
}

// Call runs fn unless the breaker is open
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
	}
	cb.mu.Unlock()

	// fn may retry and sleep; the lock is not held meanwhile
	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()

	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// FailureCount returns the current consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failureCount
}
