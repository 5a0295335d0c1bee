package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecomsync/backend/internal/application/growth"
	"github.com/ecomsync/backend/internal/infrastructure/config"
	"github.com/ecomsync/backend/internal/infrastructure/logger"
	"github.com/ecomsync/backend/internal/infrastructure/persistence"
	"github.com/ecomsync/backend/internal/infrastructure/platform"
	"github.com/ecomsync/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting growth scheduler",
		zap.String("app", cfg.App.Name),
		zap.Duration("interval", cfg.Scheduler.Interval),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	seed := cfg.Scheduler.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	metricRepo := persistence.NewGormMerchantMetricRepository(db.DB)
	simulator := growth.NewSimulator(metricRepo, platform.NewAdapters(rng), rng, log)
	sched := scheduler.NewGrowthScheduler(simulator, cfg.Scheduler.Interval, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		log.Error("Error stopping scheduler", zap.Error(err))
	}
	log.Info("Scheduler exited")
}
