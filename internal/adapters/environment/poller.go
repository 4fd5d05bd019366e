package environment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
)

// Sink accepts snapshots; *simulation.Engine satisfies it
type Sink interface {
	UpdateEnvironment(snapshot environment.Snapshot) error
}

// Poller fetches a snapshot every interval and pushes it into the engine.
// Failed fetches and rejected snapshots are logged and leave the previous
// snapshot in effect.
type Poller struct {
	provider environment.Provider
	sink     Sink
	interval time.Duration
	logger   logging.SimLogger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewPoller creates a poller
func NewPoller(provider environment.Provider, sink Sink, interval time.Duration, logger logging.SimLogger) *Poller {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Poller{
		provider: provider,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// Start polls immediately and then every interval until ctx is done or Stop
// is called
func (p *Poller) Start(ctx context.Context) {
	p.ctx, p.cancelFunc = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()
}

// Stop stops the polling goroutine and waits for it to exit
func (p *Poller) Stop() {
	if p.cancelFunc != nil {
		p.cancelFunc()
	}
	p.wg.Wait()
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_ = p.PollOnce(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			_ = p.PollOnce(p.ctx)
		}
	}
}

// PollOnce performs a single fetch-and-apply cycle
func (p *Poller) PollOnce(ctx context.Context) error {
	snapshot, err := p.provider.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Log(logging.LevelWarn, "Environment fetch failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return fmt.Errorf("failed to fetch environment: %w", err)
	}

	if err := p.sink.UpdateEnvironment(snapshot); err != nil {
		return fmt.Errorf("snapshot rejected: %w", err)
	}

	p.logger.Log(logging.LevelDebug, "Environment updated", map[string]interface{}{
		"quality":             snapshot.Quality,
		"water_multiplier":    snapshot.WaterConsumptionMultiplier,
		"nutrient_multiplier": snapshot.NutrientConsumptionMultiplier,
	})
	return nil
}
