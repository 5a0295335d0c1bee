package ingest

import (
	"context"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/infrastructure/messaging"
	"go.uber.org/zap"
)

// Consumer is the broker surface the pipeline needs: a blocking consume loop
// that survives connection failures.
type Consumer interface {
	Consume(ctx context.Context, platform commerce.Platform, handler messaging.Handler) error
}

// Pipeline dequeues raw platform payloads, normalizes them, and upserts the
// canonical record. Per-message failures are logged and isolated; the
// pipeline itself only stops when its context is cancelled.
type Pipeline struct {
	platform commerce.Platform
	products commerce.ProductRepository
	logger   *zap.Logger
}

// NewPipeline creates an ingestion pipeline for one platform's queue
func NewPipeline(platform commerce.Platform, products commerce.ProductRepository, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		platform: platform,
		products: products,
		logger:   logger.Named("ingest").With(zap.String("platform", string(platform))),
	}
}

// Run blocks consuming the platform queue until ctx is cancelled
func (p *Pipeline) Run(ctx context.Context, consumer Consumer) error {
	p.logger.Info("starting consumer")
	return consumer.Consume(ctx, p.platform, p.HandleMessage)
}

// HandleMessage normalizes one raw payload and upserts the result.
// A NormalizationError drops the message: it can never succeed on retry.
// A persistence error aborts only this record; the consume loop continues.
func (p *Pipeline) HandleMessage(ctx context.Context, payload []byte) error {
	product, err := Normalize(p.platform, payload)
	if err != nil {
		if IsNormalizationError(err) {
			p.logger.Warn("dropping malformed payload", zap.Error(err))
			return nil
		}
		return err
	}

	outcome, err := p.products.Upsert(ctx, product)
	if err != nil {
		p.logger.Error("failed to persist product",
			zap.String("platform_id", product.PlatformID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("product persisted",
		zap.String("platform_id", product.PlatformID),
		zap.String("outcome", string(outcome)),
	)
	return nil
}
