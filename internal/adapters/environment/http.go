package environment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	maxResponseBytes   = 1 << 20
)

// HTTPOptions tunes the HTTP provider
type HTTPOptions struct {
	Timeout     time.Duration
	RateLimit   float64
	Burst       int
	MaxRetries  int
	BackoffBase time.Duration

	// Consecutive failed fetches before the circuit opens, and how long it
	// stays open
	BreakerFailures int
	BreakerCooldown time.Duration

	Clock shared.Clock

	// Observer receives request telemetry; nil discards it
	Observer FetchObserver
}

// FetchObserver is told about every HTTP attempt the provider makes
type FetchObserver interface {
	RecordFetch(statusCode int, duration time.Duration)
	RecordRetry(reason string)
	RecordRateLimitWait(duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) RecordFetch(int, time.Duration)    {}
func (noopObserver) RecordRetry(string)                {}
func (noopObserver) RecordRateLimitWait(time.Duration) {}

// HTTPProvider fetches snapshots as JSON from a remote source. Requests are
// rate limited, retried with exponential backoff on 429, 5xx and network
// errors, and guarded by a circuit breaker.
type HTTPProvider struct {
	url         string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	observer    FetchObserver
}

// NewHTTPProvider creates a provider polling url
func NewHTTPProvider(url string, opts HTTPOptions) *HTTPProvider {
	if opts.Clock == nil {
		opts.Clock = shared.NewRealClock()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.BreakerFailures < 1 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = time.Minute
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}

	return &HTTPProvider{
		url:         url,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		breaker:     NewCircuitBreaker(opts.BreakerFailures, opts.BreakerCooldown, opts.Clock),
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		clock:       opts.Clock,
		observer:    opts.Observer,
	}
}

// Breaker exposes the provider's circuit breaker
func (p *HTTPProvider) Breaker() *CircuitBreaker {
	return p.breaker
}

// Fetch retrieves and validates one snapshot
func (p *HTTPProvider) Fetch(ctx context.Context) (environment.Snapshot, error) {
	var snapshot environment.Snapshot
	err := p.breaker.Call(func() error {
		s, err := p.fetchWithRetry(ctx)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return environment.Snapshot{}, err
	}
	return snapshot, nil
}

type retryableError struct {
	reason     string
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

func (p *HTTPProvider) fetchWithRetry(ctx context.Context) (environment.Snapshot, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		waitStart := time.Now()
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return environment.Snapshot{}, fmt.Errorf("rate limiter error: %w", err)
		}
		p.observer.RecordRateLimitWait(time.Since(waitStart))

		s, err := p.fetchOnce(ctx)
		if err == nil {
			return s, nil
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			return environment.Snapshot{}, err
		}
		lastErr = err

		if attempt >= p.maxRetries {
			break
		}
		p.observer.RecordRetry(retryable.reason)

		delay := addJitter(p.backoffBase * time.Duration(1<<attempt))
		if retryable.retryAfter > 0 {
			delay = retryable.retryAfter
		}
		if err := sleep(ctx, delay); err != nil {
			return environment.Snapshot{}, fmt.Errorf("context cancelled: %w", err)
		}
	}

	return environment.Snapshot{}, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (p *HTTPProvider) fetchOnce(ctx context.Context) (environment.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return environment.Snapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.observer.RecordFetch(0, time.Since(start))
		if ctx.Err() != nil {
			return environment.Snapshot{}, ctx.Err()
		}
		return environment.Snapshot{}, &retryableError{reason: "network_error", message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()
	p.observer.RecordFetch(resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return environment.Snapshot{}, &retryableError{reason: "read_error", message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return environment.Snapshot{}, &retryableError{
			reason:     "rate_limited",
			message:    "rate limited (429)",
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		return environment.Snapshot{}, &retryableError{reason: "server_error", message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return environment.Snapshot{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var s environment.Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return environment.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Quality == "" {
		s.Quality = environment.QualityObserved
	}
	if s.ObservedAt.IsZero() {
		s.ObservedAt = p.clock.Now()
	}
	if err := s.Validate(); err != nil {
		return environment.Snapshot{}, err
	}
	return s, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// addJitter spreads a backoff delay by up to 10%
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/10+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
