package ingest

import (
	"context"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/infrastructure/platform"
	"go.uber.org/zap"
)

// Publisher is the broker surface the producer needs
type Publisher interface {
	Publish(ctx context.Context, platform commerce.Platform, payload []byte) error
}

// Producer emits a raw platform payload onto the queue at a fixed interval,
// standing in for a real upstream platform webhook/export feed.
type Producer struct {
	feed     *platform.ProductFeed
	broker   Publisher
	interval time.Duration
	logger   *zap.Logger
}

// NewProducer creates a producer for one platform's feed
func NewProducer(feed *platform.ProductFeed, broker Publisher, interval time.Duration, logger *zap.Logger) *Producer {
	return &Producer{
		feed:     feed,
		broker:   broker,
		interval: interval,
		logger:   logger.Named("producer").With(zap.String("platform", string(feed.Platform()))),
	}
}

// Run publishes payloads until ctx is cancelled. Publish failures are logged
// and retried on the next tick; they never stop the loop.
func (p *Producer) Run(ctx context.Context) error {
	p.logger.Info("starting producer", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.publishOne(ctx); err != nil {
				p.logger.Error("failed to publish payload", zap.Error(err))
			}
		}
	}
}

func (p *Producer) publishOne(ctx context.Context) error {
	payload, err := p.feed.Next()
	if err != nil {
		return err
	}
	if err := p.broker.Publish(ctx, p.feed.Platform(), payload); err != nil {
		return err
	}
	p.logger.Debug("payload published", zap.Int("bytes", len(payload)))
	return nil
}
