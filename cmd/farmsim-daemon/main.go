package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/farmsim-go/internal/adapters/cli"
	envadapter "github.com/andrescamacho/farmsim-go/internal/adapters/environment"
	"github.com/andrescamacho/farmsim-go/internal/adapters/metrics"
	"github.com/andrescamacho/farmsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/farmsim-go/internal/application/farm"
	"github.com/andrescamacho/farmsim-go/internal/application/farm/commands"
	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/database"
	infralog "github.com/andrescamacho/farmsim-go/internal/infrastructure/logging"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Config file (default: search ./config.yaml, ./configs, ~/.farmsim)")
	flag.Parse()

	fmt.Println("farmsim daemon v0.1.0")
	fmt.Println("=====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
		fmt.Println("Force mode enabled - attempting to kill existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil && !errors.Is(killErr, pidfile.ErrNotRunning) {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		fmt.Println("Existing daemon stopped")
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}
	fmt.Println("PID file lock acquired")

	err := run(cfg)
	if relErr := pf.Release(); relErr != nil {
		log.Printf("Warning: failed to release PID file: %v", relErr)
	}
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Logger
	slogger, logClose, err := infralog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logClose.Close()
	logger := logging.NewSlogLogger(slogger)
	ctx = logging.WithLogger(ctx, logger)

	// 2. Engine
	engineCfg, err := cli.EngineConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}
	engine, err := simulation.New(engineCfg, simulation.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	fmt.Printf("Run %s started (%s farm, %.0f ha)\n", engine.RunID(), engineCfg.FarmType, engine.Snapshot().Land.FarmSize)

	deps := farm.Dependencies{Engine: engine}

	// 3. Decision archive
	if cfg.Database.Disabled {
		fmt.Println("Database disabled - decisions are kept in memory only")
	} else {
		fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		deps.DecisionRepo = persistence.NewGormDecisionRepository(db)
		deps.ReportRepo = persistence.NewGormReportRepository(db)
		deps.RunRepo = persistence.NewGormRunRepository(db)
		fmt.Println("Database connected")
	}

	// 4. Mediator; middleware goes in before handlers
	med := mediator.NewMediator()
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		commandCollector := metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	}
	if err := farm.RegisterHandlers(med, deps); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// 5. Metrics endpoint
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		farmCollector := metrics.NewFarmMetricsCollector(med, engine.RunID(), logger)
		if err := farmCollector.Register(); err != nil {
			return fmt.Errorf("failed to register farm metrics: %w", err)
		}
		unsubscribe := engine.Subscribe(farmCollector.HandleEvent)
		defer unsubscribe()
		farmCollector.Start(ctx, cfg.Simulation.TickInterval)
		defer farmCollector.Stop()

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log(logging.LevelError, "Metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		fmt.Printf("Metrics available at http://%s%s\n", metricsServer.Addr, cfg.Metrics.Path)
	}

	// 6. Environment feed
	var fetchObserver envadapter.FetchObserver
	if cfg.Metrics.Enabled {
		envCollector := metrics.NewEnvironmentMetricsCollector()
		if err := envCollector.Register(); err != nil {
			return fmt.Errorf("failed to register environment metrics: %w", err)
		}
		fetchObserver = envCollector
	}
	provider, err := envadapter.NewProvider(cfg.Environment, func() uint32 {
		return engine.Snapshot().Clock.Week
	}, nil, fetchObserver)
	if err != nil {
		return fmt.Errorf("failed to create environment provider: %w", err)
	}
	poller := envadapter.NewPoller(provider, engine, cfg.Environment.PollInterval, logger)
	poller.Start(ctx)
	defer poller.Stop()
	fmt.Printf("Environment provider: %s (every %s)\n", cfg.Environment.Provider, cfg.Environment.PollInterval)

	// 7. Simulation loop
	runner := farm.NewRunner(med, farm.RunnerConfig{
		TickInterval: cfg.Simulation.TickInterval,
		WeekDuration: cli.WeekDuration(cfg),
		Autopilot:    cfg.Daemon.Autopilot,
		StopTimeout:  cfg.Daemon.ShutdownTimeout,
	}, nil, logger)
	if cfg.Metrics.Enabled {
		runnerCollector := metrics.NewRunnerMetricsCollector(runner)
		if err := runnerCollector.Register(); err != nil {
			return fmt.Errorf("failed to register runner metrics: %w", err)
		}
		runnerCollector.Start(ctx, cfg.Simulation.TickInterval)
		defer runnerCollector.Stop()
	}
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start simulation: %w", err)
	}

	fmt.Println("\n✓ Simulation running")
	fmt.Println("Press Ctrl+C to stop")

	checkpoint := func() {
		if _, err := med.Send(ctx, &commands.CheckpointRunCommand{}); err != nil {
			logger.Log(logging.LevelWarn, "Checkpoint failed", map[string]interface{}{"error": err.Error()})
		}
	}

	ticker := time.NewTicker(cfg.Daemon.CheckpointInterval)
	defer ticker.Stop()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nShutdown signal received, stopping daemon...")
			break loop
		case <-runner.Done():
			runErr = runner.Err()
			break loop
		case <-ticker.C:
			checkpoint()
		}
	}

	// the runner shares ctx and stops on its own
	select {
	case <-runner.Done():
	case <-time.After(cfg.Daemon.ShutdownTimeout):
		logger.Log(logging.LevelWarn, "Simulation loop did not stop within timeout", nil)
	}

	// ctx is cancelled by now; the final checkpoint gets its own deadline
	shutdownCtx, cancel := context.WithTimeout(logging.WithLogger(context.Background(), logger), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if _, err := med.Send(shutdownCtx, &commands.CheckpointRunCommand{}); err != nil {
		logger.Log(logging.LevelWarn, "Final checkpoint failed", map[string]interface{}{"error": err.Error()})
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Log(logging.LevelWarn, "Metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}

	snapshot := engine.Snapshot()
	fmt.Printf("Run %s stopped at week %d with %.2f money\n", engine.RunID(), snapshot.Clock.Week, snapshot.Resources.Money)
	fmt.Println("\nDaemon stopped")
	return runErr
}
