package simulation

import (
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/environment"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// Option configures an Engine
type Option func(*Engine)

// WithWallClock injects the real-time clock; tests pass a MockClock
func WithWallClock(clock shared.Clock) Option {
	return func(e *Engine) {
		e.wall = clock
	}
}

// WithLogger sets the logger for warnings and settlement lines
func WithLogger(logger logging.SimLogger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCatalog replaces the default crop catalog
func WithCatalog(catalog *crop.Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// Engine owns the whole simulation state and advances it.
//
// All entry points take one mutex, so a host may call Tick from its loop
// while another goroutine pushes environment snapshots. Subscribers run
// under that lock and must not call back into the engine.
type Engine struct {
	mu sync.Mutex

	cfg       Config
	wall      shared.Clock
	logger    logging.SimLogger
	catalog   *crop.Catalog
	clock     *calendar.GameClock
	lifecycle *crop.Lifecycle
	pricer    *economy.Pricer
	farm      *farm
	bus       *events.Bus
	decisions *decision.Log
	processor *DecisionProcessor

	startedAt time.Time
	env       environment.Snapshot
	reports   []economy.WeeklyReport
	// unknown crop IDs already warned about
	warned map[string]bool
}

// New creates an engine at week 1 with the configured farm preset
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		wall:   shared.NewRealClock(),
		logger: logging.NoOp(),
		warned: make(map[string]bool),
		env:    environment.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = crop.DefaultCatalog()
	}

	if err := cfg.normalize(e.wall.Now()); err != nil {
		return nil, err
	}
	if cfg.RunID == "" {
		cfg.RunID = utils.GenerateEntityID("run")
	}
	e.cfg = cfg
	e.startedAt = e.wall.Now()

	clock, err := calendar.NewGameClock(cfg.Clock, e.wall)
	if err != nil {
		return nil, fmt.Errorf("failed to create game clock: %w", err)
	}
	e.clock = clock

	preset, _ := economy.PresetFor(cfg.FarmType)
	if cfg.FarmSize > 0 {
		preset.FarmSize = cfg.FarmSize
	}
	ledger, err := land.NewLedger(preset.FarmSize, cfg.Windows,
		land.WithStrictInvariants(cfg.StrictInvariants),
		land.WithViolationHandler(e.onInvariantViolation),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create land ledger: %w", err)
	}

	e.lifecycle = crop.NewLifecycle(e.catalog, cfg.Lifecycle)
	e.pricer = economy.NewPricer(e.catalog, cfg.PriceMode, cfg.VolatilitySeed)
	e.farm = newFarm(preset, cfg.FuelPrice, ledger)
	e.bus = events.NewBus(cfg.EventQueueSize)
	e.decisions = decision.NewLog()
	e.processor = &DecisionProcessor{
		farm:        e.farm,
		clock:       e.clock,
		lifecycle:   e.lifecycle,
		pricer:      e.pricer,
		wall:        e.wall,
		recoveryNow: e.recoveryNow,
		log:         e.decisions,
		bus:         e.bus,
		logger:      e.logger,
		runID:       cfg.RunID,
	}

	return e, nil
}

// RunID identifies this run in archives
func (e *Engine) RunID() string {
	return e.cfg.RunID
}

// Config returns the normalized configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Catalog returns the crop catalog the run plays with
func (e *Engine) Catalog() *crop.Catalog {
	return e.catalog
}

// Tick advances the simulation by elapsed wall time.
//
// Order within a tick: calendar boundaries (each week boundary settles that
// week), then every crop's lifecycle update with dead crops moved into the
// land ledger, then land recovery. A non-positive elapsed leaves calendar and
// crops untouched but still processes recovery, so wall-clock deadlines
// expire for a paused host that keeps polling.
func (e *Engine) Tick(elapsed time.Duration) TickReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	var report TickReport
	if elapsed > 0 {
		report.Boundaries = e.clock.Advance(elapsed)
		for _, b := range report.Boundaries {
			e.handleBoundary(b, &report)
		}
		e.updateCrops(&report)
	}

	for _, plot := range e.farm.land.ProcessRecovery(e.recoveryNow()) {
		report.PlotsRecovered++
		e.publish(events.LandRecovered, events.LandRecoveredPayload{Area: plot.Area, Kind: plot.Kind, Plot: plot})
	}

	report.Week = e.clock.Week()
	report.Season = e.clock.Season()
	return report
}

func (e *Engine) handleBoundary(b calendar.Boundary, report *TickReport) {
	switch b.Kind {
	case calendar.BoundaryDay:
		e.publish(events.DayAdvanced, events.DayAdvancedPayload{Week: e.clock.Week(), Day: b.Day})
	case calendar.BoundaryWeek:
		report.WeeksAdvanced++
		e.publish(events.WeekAdvanced, events.WeekAdvancedPayload{Week: b.Week, Season: b.Season, Year: b.Year})
		e.settleWeek(b)
	case calendar.BoundarySeason:
		e.publish(events.SeasonChanged, events.SeasonChangedPayload{From: b.PreviousSeason, To: b.Season, Week: b.Week})
	case calendar.BoundaryYear:
		e.publish(events.YearAdvanced, events.YearAdvancedPayload{Year: b.Year, Week: b.Week})
	}
}

// settleWeek charges operating costs and reports the income collected since
// the previous boundary
func (e *Engine) settleWeek(b calendar.Boundary) {
	before := e.farm.resources.Money
	res, costs := economy.Settle(e.farm.resources, e.farm.costs)
	e.farm.resources = res

	report := economy.WeeklyReport{
		Week:          b.Week,
		Year:          b.Year,
		Season:        b.Season,
		Costs:         costs,
		Income:        e.farm.weekIncome,
		Net:           e.farm.weekIncome - costs.Total(),
		BalanceBefore: before,
		BalanceAfter:  res.Money,
		SettledAt:     e.wall.Now(),
	}
	e.farm.weekIncome = 0

	e.reports = append(e.reports, report)
	if len(e.reports) > e.cfg.ReportHistory {
		e.reports = e.reports[len(e.reports)-e.cfg.ReportHistory:]
	}

	e.publish(events.WeekSettled, events.WeekSettledPayload{Report: report})
	e.logger.Log(logging.LevelInfo, "Week settled", map[string]interface{}{
		"run_id":  e.cfg.RunID,
		"week":    report.Week,
		"season":  report.Season.String(),
		"costs":   costs.Total(),
		"income":  report.Income,
		"balance": report.BalanceAfter,
	})
}

func (e *Engine) updateCrops(report *TickReport) {
	seasonal := crop.SeasonalGrowthModifier(e.clock.Season())
	multipliers := e.env.Multipliers()
	now := e.wall.Now()
	gone := make(map[string]bool)

	for _, c := range e.farm.crops {
		result, err := e.lifecycle.Update(c, seasonal, multipliers, now)
		if err != nil {
			if !e.warned[c.ID()] {
				e.warned[c.ID()] = true
				e.logger.Log(logging.LevelWarn, "Skipping crop with no stage table", map[string]interface{}{
					"crop_id":   c.ID(),
					"crop_type": string(c.Type()),
					"error":     err.Error(),
				})
			}
			continue
		}
		report.CropsUpdated++

		if result.BecameReady {
			report.BecameReady++
			e.publish(events.HarvestReady, events.CropPayload{Crop: e.processor.cropState(c)})
		}
		if result.Died {
			report.CropsDied++
			gone[c.ID()] = true
			state := e.processor.cropState(c)
			e.farm.land.Retire(land.PlotDead, c.Area(), e.recoveryNow(), c.Type(), c.DeathCause())
			e.publish(events.CropDied, events.CropDiedPayload{Crop: state, Cause: c.DeathCause()})
		}
	}

	if len(gone) > 0 {
		e.farm.remove(gone)
	}
}

// recoveryNow reads the clock channel land deadlines are measured on
func (e *Engine) recoveryNow() time.Time {
	if e.cfg.RecoveryTimebase == TimebaseSim {
		return e.clock.SimNow()
	}
	return e.wall.Now()
}

func (e *Engine) onInvariantViolation(err *shared.InvariantViolationError) {
	e.logger.Log(logging.LevelError, "Invariant violated, value clamped", map[string]interface{}{
		"invariant": err.Invariant,
		"detail":    err.Detail,
	})
}

func (e *Engine) publish(t events.Type, payload interface{}) {
	e.bus.Publish(events.New(t, payload, e.wall.Now()))
}

// Decisions

// Plant sows area hectares of cropType
func (e *Engine) Plant(cropType crop.Type, area float64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Plant(cropType, area)
}

// Irrigate waters living crops; a nil filter targets every crop
func (e *Engine) Irrigate(filter *crop.Type, intensity string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Irrigate(filter, intensity)
}

// Fertilize feeds living crops; a nil filter targets every crop
func (e *Engine) Fertilize(filter *crop.Type, kind string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Fertilize(filter, kind)
}

// Harvest gathers every ready crop of cropType
func (e *Engine) Harvest(cropType crop.Type) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Harvest(cropType)
}

// Sell sells up to amount units of cropType
func (e *Engine) Sell(cropType crop.Type, amount float64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Sell(cropType, amount)
}

// ChangeFarmType switches the farm preset on an empty farm
func (e *Engine) ChangeFarmType(farmType string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.ChangeFarmType(farmType)
}

// Environment

// UpdateEnvironment replaces the environmental snapshot. An invalid snapshot
// is rejected and the previous one stays in effect.
func (e *Engine) UpdateEnvironment(snapshot environment.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		e.mu.Lock()
		e.logger.Log(logging.LevelWarn, "Rejected environmental snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.env = snapshot
	return nil
}

// Environment returns the snapshot in effect
func (e *Engine) Environment() environment.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.env
}

// Events

// Subscribe registers a synchronous event handler and returns its remover
func (e *Engine) Subscribe(h events.Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	remove := e.bus.Subscribe(h)
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		remove()
	}
}

// DrainEvents returns and clears the outbound event queue
func (e *Engine) DrainEvents() []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bus.Drain()
}

// Queries

// MarketPrice quotes the current price of a crop
func (e *Engine) MarketPrice(cropType crop.Type) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pricer.MarketPrice(cropType, e.clock.Week())
}

// Decisions returns the decision log in append order
func (e *Engine) Decisions() []*decision.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decisions.All()
}

// Reports returns the in-memory weekly reports, oldest first
func (e *Engine) Reports() []economy.WeeklyReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]economy.WeeklyReport(nil), e.reports...)
}
