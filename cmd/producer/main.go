package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ecomsync/backend/internal/application/ingest"
	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/infrastructure/config"
	"github.com/ecomsync/backend/internal/infrastructure/logger"
	"github.com/ecomsync/backend/internal/infrastructure/messaging"
	"github.com/ecomsync/backend/internal/infrastructure/platform"
	"go.uber.org/zap"
)

func main() {
	var platformFlag string
	flag.StringVar(&platformFlag, "platform", "", "Produce only this platform's feed (default: all platforms)")
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

	log.Info("Starting payload producer",
		zap.String("app", cfg.App.Name),
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.Duration("interval", cfg.Producer.Interval),
	)

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

	seed := cfg.Producer.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i, p := range platforms {
		feed, err := platform.NewProductFeed(p, rand.New(rand.NewSource(seed+int64(i))))
		if err != nil {
			log.Fatal("Failed to create product feed", zap.Error(err))
		}
		producer := ingest.NewProducer(feed, broker, cfg.Producer.Interval, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := producer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Producer stopped", zap.Error(err))
			}
		}()
	}

	wg.Wait()
	log.Info("Producer exited")
}
