package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ecomsync/backend/internal/application/ingest"
	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/infrastructure/config"
	"github.com/ecomsync/backend/internal/infrastructure/logger"
	"github.com/ecomsync/backend/internal/infrastructure/messaging"
	"github.com/ecomsync/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var platformFlag string
	flag.StringVar(&platformFlag, "platform", "", "Consume only this platform's queue (default: all platforms)")
	flag.Parse()

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

	platforms := commerce.AllPlatforms()
	if platformFlag != "" {
		p, err := commerce.ParsePlatform(platformFlag)
		if err != nil {
			log.Fatal("Unknown platform", zap.String("platform", platformFlag))
		}
		platforms = []commerce.Platform{p}
	}

	log.Info("Starting ingest consumer",
		zap.String("app", cfg.App.Name),
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("group_id", cfg.Kafka.GroupID),
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

	productRepo := persistence.NewGormProductRepository(db.DB)

	broker := messaging.New(messaging.Config{
		Brokers:          cfg.Kafka.Brokers,
		GroupID:          cfg.Kafka.GroupID,
		DialTimeout:      cfg.Kafka.DialTimeout,
		OperationTimeout: cfg.Kafka.OperationTimeout,
		MinBackoff:       cfg.Kafka.MinBackoff,
		MaxBackoff:       cfg.Kafka.MaxBackoff,
	}, log)
	defer func() {
		if err := broker.Close(); err != nil {
			log.Error("Error closing broker", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, p := range platforms {
		pipeline := ingest.NewPipeline(p, productRepo, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pipeline.Run(ctx, broker); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Pipeline stopped", zap.Error(err))
			}
		}()
	}

	wg.Wait()
	log.Info("Consumer exited")
}
