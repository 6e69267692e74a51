// Package main is the entry point for the background worker of the residency
// progress hub.
//
// The worker owns the periodic maintenance tasks:
//   - recounting cached module progress counters from approved records
//   - detecting active modules that approach their planned end date
//
// It shares the persistence layer with the API process but runs no HTTP
// surface of its own.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rezhub/residency-progress-hub/config"
	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/scheduler"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/scheduler/jobs"
	"github.com/rezhub/residency-progress-hub/internal/infrastructure/templatestore"
	"github.com/rezhub/residency-progress-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting residency progress worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// The worker also applies migrations so it never runs against a stale
	// schema when deployed ahead of the API.
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, template caching and job locking disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
			log.Info("redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Template store and repositories
	// ─────────────────────────────────────────────────────────────────────────
	clientCfg := templatestore.DefaultClientConfig(cfg.Registry.BaseURL)
	clientCfg.APIKey = cfg.Registry.APIKey
	clientCfg.Timeout = cfg.Registry.RequestTimeout
	clientCfg.Logger = log
	registryClient := templatestore.NewClient(clientCfg)

	var templates curriculum.TemplateStore = registryClient
	if cache != nil {
		templates = templatestore.NewCachedStore(registryClient, cache, log)
	}

	specRepo := postgres.NewSpecializationRepository(dbConn)
	recordRepo := postgres.NewRecordRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// Scheduler and jobs
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.Config{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	var locker jobs.DistributedLocker
	if cache != nil {
		locker = cache
	}

	recountCfg := jobs.DefaultRecountConfig()
	recountCfg.Timeout = cfg.Scheduler.JobTimeout
	recountJob := jobs.NewRecountProgressJob(specRepo, recordRepo, templates, locker, log, recountCfg)

	expiryCfg := jobs.DefaultExpiryConfig()
	expiryCfg.WarnWithinDays = cfg.Scheduler.ExpiryWarnWithinDays
	expiryJob := jobs.NewDetectExpiringModulesJob(specRepo, locker, log, expiryCfg, nil)

	recountSchedule, err := scheduler.ParseCron(cfg.Scheduler.RecountCron)
	if err != nil {
		return fmt.Errorf("invalid recount cron %q: %w", cfg.Scheduler.RecountCron, err)
	}
	expirySchedule, err := scheduler.ParseCron(cfg.Scheduler.ExpiryCron)
	if err != nil {
		return fmt.Errorf("invalid expiry cron %q: %w", cfg.Scheduler.ExpiryCron, err)
	}

	if err := sched.Register(recountJob, recountSchedule); err != nil {
		return fmt.Errorf("failed to register recount job: %w", err)
	}
	if err := sched.Register(expiryJob, expirySchedule); err != nil {
		return fmt.Errorf("failed to register expiry job: %w", err)
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		log.Warn("scheduler disabled by configuration")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", logger.String("signal", sig.String()))

	if cfg.Scheduler.Enabled {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("scheduler shutdown failed", logger.Err(err))
		}
	}

	log.Info("shutdown completed")
	return nil
}

// setupLogger builds the process-wide structured logger.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = logger.LevelDebug
	case "warn":
		opts.Level = logger.LevelWarn
	case "error":
		opts.Level = logger.LevelError
	default:
		opts.Level = logger.LevelInfo
	}
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
