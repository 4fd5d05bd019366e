package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/farmsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/database"
	infralog "github.com/andrescamacho/farmsim-go/internal/infrastructure/logging"
)

// EngineConfig translates loaded configuration into an engine config
func EngineConfig(cfg *config.Config) (simulation.Config, error) {
	farmType, err := economy.ParseFarmType(cfg.Simulation.FarmType)
	if err != nil {
		return simulation.Config{}, err
	}
	priceMode, err := economy.ParsePriceMode(cfg.Economy.PriceMode)
	if err != nil {
		return simulation.Config{}, err
	}
	timebase, err := simulation.ParseTimebase(cfg.Land.RecoveryTimebase)
	if err != nil {
		return simulation.Config{}, err
	}

	sc := simulation.DefaultConfig()
	sc.FarmType = farmType
	sc.FarmSize = cfg.Simulation.FarmSize
	sc.Clock.GameHour = cfg.Simulation.GameHour
	sc.Clock.HoursPerDay = cfg.Simulation.HoursPerDay
	sc.Clock.DaysPerWeek = cfg.Simulation.DaysPerWeek
	sc.Lifecycle.BaseGrowthRate = cfg.Simulation.BaseGrowthRate
	sc.Lifecycle.BaseWaterConsumption = cfg.Simulation.BaseWaterConsumption
	sc.Lifecycle.BaseNutrientConsumption = cfg.Simulation.BaseNutrientConsumption
	sc.Windows = land.Windows{Dead: cfg.Land.DeadRecovery, Harvested: cfg.Land.HarvestedRecovery}
	sc.RecoveryTimebase = timebase
	sc.PriceMode = priceMode
	sc.VolatilitySeed = cfg.Economy.VolatilitySeed
	sc.FuelPrice = cfg.Economy.FuelPrice
	sc.StrictInvariants = cfg.Simulation.StrictInvariants
	sc.EventQueueSize = cfg.Simulation.EventQueueSize
	return sc, nil
}

// WeekDuration is the wall time of one game week under cfg
func WeekDuration(cfg *config.Config) time.Duration {
	return cfg.Simulation.GameHour * time.Duration(cfg.Simulation.HoursPerDay*cfg.Simulation.DaysPerWeek)
}

// archive bundles the gorm repositories of one database
type archive struct {
	db        *gorm.DB
	decisions *persistence.GormDecisionRepository
	reports   *persistence.GormReportRepository
	runs      *persistence.GormRunRepository
}

// openArchive connects to the configured database. It returns nil when
// archiving is disabled.
func openArchive(cfg *config.Config) (*archive, error) {
	if cfg.Database.Disabled {
		return nil, nil
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &archive{
		db:        db,
		decisions: persistence.NewGormDecisionRepository(db),
		reports:   persistence.NewGormReportRepository(db),
		runs:      persistence.NewGormRunRepository(db),
	}, nil
}

func (a *archive) close() {
	if a != nil {
		_ = database.Close(a.db)
	}
}

// app is one CLI session: an engine, its archive and the mediator in front
type app struct {
	cfg      *config.Config
	logger   logging.SimLogger
	logClose io.Closer
	archive  *archive
	engine   *simulation.Engine
	mediator mediator.Mediator
}

func newLogger(cfg *config.Config) (logging.SimLogger, io.Closer, error) {
	if !verbose {
		return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), nil, nil
	}
	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "debug"
	logger, closer, err := infralog.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewSlogLogger(logger), closer, nil
}

// newApp builds an engine from cfg with its handlers registered
func newApp(cfg *config.Config) (*app, error) {
	logger, logClose, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	engineCfg, err := EngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := simulation.New(engineCfg, simulation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	arch, err := openArchive(cfg)
	if err != nil {
		return nil, err
	}

	deps := farm.Dependencies{Engine: engine}
	if arch != nil {
		deps.DecisionRepo = arch.decisions
		deps.ReportRepo = arch.reports
		deps.RunRepo = arch.runs
	}
	m := mediator.NewMediator()
	if err := farm.RegisterHandlers(m, deps); err != nil {
		arch.close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		logClose: logClose,
		archive:  arch,
		engine:   engine,
		mediator: m,
	}, nil
}

func (a *app) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

func (a *app) close() {
	a.archive.close()
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
}

// rememberRun records the run as the default for archive commands
func rememberRun(runID string) {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return
	}
	if err := handler.SetLastRun(runID); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remember run: %v\n", err)
	}
}

// resolveRunID picks --run, falling back to the last run this user started
func resolveRunID() (string, error) {
	if runID != "" {
		return runID, nil
	}
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no run specified and failed to load user config: %w", err)
	}
	userCfg, err := handler.Load()
	if err != nil {
		return "", fmt.Errorf("no run specified and failed to load user config: %w", err)
	}
	if userCfg.LastRunID == "" {
		return "", fmt.Errorf("no run specified: use --run or start one with 'farmsim run'")
	}
	return userCfg.LastRunID, nil
}
