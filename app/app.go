package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"trading-reports/api"
	"trading-reports/cache"
	"trading-reports/config"
	"trading-reports/database"
	"trading-reports/logging"
)

// App represents the main application
type App struct {
	config *config.Config
	log    zerolog.Logger
	db     *database.Database
	redis  *cache.RedisClient

	Reports   *ReportService
	Schedules *ScheduleService
	Market    *MarketService

	runner    *ScheduleRunner
	apiServer *api.Server
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start wires every component, serves until SIGINT/SIGTERM and shuts down
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort(a.config.Host, strconv.Itoa(a.config.Port))
		if err := a.apiServer.Start(addr); err != nil {
			a.log.Error().Err(err).Msg("⚠️  API Server failed")
			serverErr <- err
		}
	}()

	return a.gracefulShutdown(serverErr)
}

// init builds logger, database, cache, services and the ops server in order
func (a *App) init() error {
	log, err := logging.New(a.config.LogLevel, a.config.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	a.log = log.With().Str("app", a.config.AppName).Logger()
	a.log.Info().
		Str("version", a.config.AppVersion).
		Str("environment", a.config.Environment).
		Msg("🚀 Starting")

	// 1. Database
	a.log.Info().Msg("🗄️  Connecting to database...")
	db, err := database.Connect(database.Config{
		URL:         a.config.PoolDatabaseURL(),
		PoolSize:    a.config.Database.PoolSize,
		MaxOverflow: a.config.Database.MaxOverflow,
		PoolRecycle: a.config.Database.PoolRecycle,
		Echo:        a.config.Database.Echo,
		Testing:     a.config.IsTesting(),
	}, a.log)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// Release the pool and cache on every later failure
	ready := false
	defer func() {
		if !ready {
			a.closeResources()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.db.InitDB(ctx); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	if !a.db.HealthCheck(ctx) {
		a.log.Warn().Msg("⚠️  Database not answering health checks yet")
	}

	// 2. Redis
	if a.config.Redis.Enabled {
		a.log.Info().Msg("🧠 Connecting to Redis...")
		a.redis = cache.NewRedisClient(a.config.Redis.URL, a.log)
	} else {
		a.log.Info().Msg("ℹ️  Report cache DISABLED")
	}

	// 3. Services
	loc, err := time.LoadLocation(a.config.Reports.Timezone)
	if err != nil {
		a.log.Warn().Err(err).Str("timezone", a.config.Reports.Timezone).Msg("⚠️  Unknown REPORT_TIMEZONE, using UTC")
		loc = time.UTC
	}
	a.Reports = NewReportService(a.db, a.redis, a.config.Redis.CacheTTL, a.log)
	a.Schedules = NewScheduleService(a.db, loc, a.log)
	a.Market = NewMarketService(a.db, a.log)

	// 4. Metrics
	var registry *prometheus.Registry
	var dispatched prometheus.Counter
	if a.config.Features.Metrics {
		registry, dispatched, err = a.newRegistry()
		if err != nil {
			return fmt.Errorf("metrics registration failed: %w", err)
		}
	}

	// 5. Schedule runner
	if a.config.Features.ReportGeneration {
		a.runner = NewScheduleRunner(a.Schedules, a.dispatchFunc(dispatched), a.log)
		if days := a.config.Reports.RetentionDays; days > 0 {
			err := a.runner.AddJob(a.config.Reports.RetentionSchedule, "report_retention", 10*time.Minute, func(ctx context.Context) error {
				_, err := a.Reports.PruneGeneratedBefore(ctx, time.Now().UTC().AddDate(0, 0, -days))
				return err
			})
			if err != nil {
				return fmt.Errorf("retention job failed: %w", err)
			}
		}
		if err := a.runner.Start(); err != nil {
			return fmt.Errorf("schedule runner failed: %w", err)
		}
	} else {
		a.log.Info().Msg("ℹ️  Scheduled report generation DISABLED")
	}

	// 6. Ops server
	a.apiServer = api.NewServer(a.db, registry, a.config.CORSOrigins, a.config.AllowedHosts, a.log)
	ready = true
	return nil
}

// newRegistry collects runtime, pool and health metrics plus the dispatch counter
func (a *App) newRegistry() (*prometheus.Registry, prometheus.Counter, error) {
	registry := prometheus.NewRegistry()

	dispatched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_schedules_dispatched_total",
		Help: "Report schedules handed to delivery.",
	})

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "reports_database_up",
			Help: "1 when the datastore answers a health probe.",
		}, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if a.db.HealthCheck(ctx) {
				return 1
			}
			return 0
		}),
		dispatched,
	}
	cs = append(cs, a.db.Collectors()...)

	for _, c := range cs {
		if err := registry.Register(c); err != nil {
			return nil, nil, err
		}
	}
	return registry, dispatched, nil
}

// closeResources stops the runner and closes the cache and the pool
func (a *App) closeResources() {
	if a.runner != nil {
		a.runner.Stop()
		a.runner = nil
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing redis")
		} else {
			a.log.Info().Msg("✅ Redis connection closed")
		}
		a.redis = nil
	}

	if a.db != nil {
		a.db.Close()
	}
}

// dispatchFunc logs each due schedule with its delivery channels
func (a *App) dispatchFunc(counter prometheus.Counter) DispatchFunc {
	return func(ctx context.Context, run DueRun) error {
		a.log.Info().
			Int64("schedule_id", run.Schedule.ID).
			Int64("user_id", run.Schedule.UserID).
			Str("type", string(run.Schedule.ReportType)).
			Bool("email", run.Schedule.EmailDelivery).
			Bool("in_app", run.Schedule.InAppDelivery).
			Time("run_at", run.RunAt).
			Msg("📨 Report due")
		if counter != nil {
			counter.Inc()
		}
		return nil
	}
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(serverErr <-chan error) error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	var runErr error
	select {
	case <-interrupt:
		a.log.Info().Msg("🛑 Shutdown signal received, initiating graceful shutdown...")
	case runErr = <-serverErr:
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("Error stopping API server")
		}

		a.closeResources()

		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		a.log.Info().Msg("✅ Graceful shutdown completed")
		return runErr
	case <-shutdownCtx.Done():
		a.log.Warn().Msg("⚠️  Shutdown timeout exceeded, forcing exit")
		return errors.Join(runErr, fmt.Errorf("shutdown timeout"))
	}
}
