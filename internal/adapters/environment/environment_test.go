package environment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envadapter "github.com/andrescamacho/farmsim-go/internal/adapters/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

var observed = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

func fastOptions(clock shared.Clock) envadapter.HTTPOptions {
	return envadapter.HTTPOptions{
		Timeout:     time.Second,
		RateLimit:   1000,
		Burst:       10,
		MaxRetries:  2,
		BackoffBase: time.Millisecond,
		Clock:       clock,
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []int
	retries  []string
	waits    int
}

func (o *recordingObserver) RecordFetch(statusCode int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, statusCode)
}

func (o *recordingObserver) RecordRetry(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries = append(o.retries, reason)
}

func (o *recordingObserver) RecordRateLimitWait(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.waits++
}

func snapshotJSON(t *testing.T, water, nutrient float64) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"soil_moisture":                   0.4,
		"vegetation_health":               0.7,
		"temperature":                     22.5,
		"water_consumption_multiplier":    water,
		"nutrient_consumption_multiplier": nutrient,
	})
	require.NoError(t, err)
	return body
}

func TestStaticProvider(t *testing.T) {
	p := envadapter.NewStaticProvider(1.3, 0.9, shared.NewMockClock(observed))

	s, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1.3, s.WaterConsumptionMultiplier)
	assert.Equal(t, 0.9, s.NutrientConsumptionMultiplier)
	assert.Equal(t, environment.QualityEstimated, s.Quality)
	assert.Equal(t, observed, s.ObservedAt)
}

func TestSeasonalSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		week     uint32
		temp     float64
		water    float64
		nutrient float64
	}{
		{name: "midsummer", week: 20, temp: 24, water: 1.24, nutrient: 1.12},
		{name: "midwinter", week: 46, temp: 0, water: 0.5, nutrient: 0.64},
		{name: "second year midsummer", week: 72, temp: 24, water: 1.24, nutrient: 1.12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := envadapter.SeasonalSnapshot(tt.week)

			assert.InDelta(t, tt.temp, s.Temperature, 1e-9)
			assert.InDelta(t, tt.water, s.WaterConsumptionMultiplier, 1e-9)
			assert.InDelta(t, tt.nutrient, s.NutrientConsumptionMultiplier, 1e-9)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSeasonalProvider_FollowsWeek(t *testing.T) {
	week := uint32(20)
	p := envadapter.NewSeasonalProvider(func() uint32 { return week }, shared.NewMockClock(observed))

	summer, err := p.Fetch(context.Background())
	require.NoError(t, err)
	week = 46
	winter, err := p.Fetch(context.Background())
	require.NoError(t, err)

	assert.Greater(t, summer.WaterConsumptionMultiplier, winter.WaterConsumptionMultiplier)
	assert.Greater(t, winter.SoilMoisture, summer.SoilMoisture)
}

func TestHTTPProvider_DecodesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write(snapshotJSON(t, 1.5, 1.1))
	}))
	defer server.Close()
	p := envadapter.NewHTTPProvider(server.URL, fastOptions(shared.NewMockClock(observed)))

	s, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1.5, s.WaterConsumptionMultiplier)
	assert.Equal(t, environment.QualityObserved, s.Quality)
	assert.Equal(t, observed, s.ObservedAt)
}

func TestHTTPProvider_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write(snapshotJSON(t, 1.2, 1))
		}
	}))
	defer server.Close()
	observer := &recordingObserver{}
	opts := fastOptions(nil)
	opts.Observer = observer
	p := envadapter.NewHTTPProvider(server.URL, opts)

	s, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1.2, s.WaterConsumptionMultiplier)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []int{503, 429, 200}, observer.statuses)
	assert.Equal(t, []string{"server_error", "rate_limited"}, observer.retries)
	assert.Equal(t, 3, observer.waits)
}

func TestHTTPProvider_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	p := envadapter.NewHTTPProvider(server.URL, fastOptions(nil))

	_, err := p.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPProvider_RejectsOutOfRangeSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(snapshotJSON(t, 0, 1))
	}))
	defer server.Close()
	p := envadapter.NewHTTPProvider(server.URL, fastOptions(nil))

	_, err := p.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WaterConsumptionMultiplier")
}

func TestHTTPProvider_CircuitBreaker(t *testing.T) {
	var calls int32
	healthy := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if atomic.LoadInt32(&healthy) == 0 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(snapshotJSON(t, 1, 1))
	}))
	defer server.Close()

	clock := shared.NewMockClock(observed)
	opts := fastOptions(clock)
	opts.MaxRetries = 0
	opts.BreakerFailures = 2
	opts.BreakerCooldown = time.Minute
	p := envadapter.NewHTTPProvider(server.URL, opts)
	ctx := context.Background()

	// Arrange: two failures open the circuit
	_, err := p.Fetch(ctx)
	require.Error(t, err)
	_, err = p.Fetch(ctx)
	require.Error(t, err)
	require.Equal(t, envadapter.CircuitOpen, p.Breaker().State())

	// Act: the open circuit fails fast without a request
	_, err = p.Fetch(ctx)

	// Assert
	assert.ErrorIs(t, err, envadapter.ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// After the cool-down a successful probe closes the circuit
	atomic.StoreInt32(&healthy, 1)
	clock.Advance(time.Minute)
	_, err = p.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, envadapter.CircuitClosed, p.Breaker().State())
	assert.Equal(t, 0, p.Breaker().FailureCount())
}

func TestHTTPProvider_HonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	opts := fastOptions(nil)
	opts.BackoffBase = time.Hour
	p := envadapter.NewHTTPProvider(server.URL, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Fetch(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []environment.Snapshot
}

func (s *recordingSink) UpdateEnvironment(snapshot environment.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

type failingProvider struct{}

func (failingProvider) Fetch(ctx context.Context) (environment.Snapshot, error) {
	return environment.Snapshot{}, errors.New("satellite offline")
}

func TestPoller_PollOnce(t *testing.T) {
	sink := &recordingSink{}
	poller := envadapter.NewPoller(envadapter.NewStaticProvider(1.1, 1, nil), sink, time.Minute, nil)

	require.NoError(t, poller.PollOnce(context.Background()))

	require.Equal(t, 1, sink.count())
	assert.Equal(t, 1.1, sink.snapshots[0].WaterConsumptionMultiplier)
}

func TestPoller_FailureKeepsPreviousSnapshot(t *testing.T) {
	sink := &recordingSink{}
	poller := envadapter.NewPoller(failingProvider{}, sink, time.Minute, nil)

	err := poller.PollOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "satellite offline")
	assert.Zero(t, sink.count())
}

func TestPoller_StartStop(t *testing.T) {
	sink := &recordingSink{}
	poller := envadapter.NewPoller(envadapter.NewStaticProvider(1, 1, nil), sink, 5*time.Millisecond, nil)

	poller.Start(context.Background())
	require.Eventually(t, func() bool { return sink.count() >= 2 }, time.Second, time.Millisecond)
	poller.Stop()

	stopped := sink.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sink.count())
}

func TestNewProvider(t *testing.T) {
	week := func() uint32 { return 1 }

	static, err := envadapter.NewProvider(config.EnvironmentConfig{Provider: "static", WaterMultiplier: 1, NutrientMultiplier: 1}, week, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &envadapter.StaticProvider{}, static)

	seasonal, err := envadapter.NewProvider(config.EnvironmentConfig{Provider: "seasonal"}, week, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &envadapter.SeasonalProvider{}, seasonal)

	remote, err := envadapter.NewProvider(config.EnvironmentConfig{Provider: "http", URL: "http://localhost:1"}, week, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &envadapter.HTTPProvider{}, remote)

	_, err = envadapter.NewProvider(config.EnvironmentConfig{Provider: "http"}, week, nil, nil)
	assert.Error(t, err)
	_, err = envadapter.NewProvider(config.EnvironmentConfig{Provider: "carrier-pigeon"}, week, nil, nil)
	assert.Error(t, err)
}
