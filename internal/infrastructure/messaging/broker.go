package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes a single raw message payload. A handler error is logged
// and the message is still acknowledged: a payload that failed normalization
// or persistence will not become processable on redelivery.
type Handler func(ctx context.Context, payload []byte) error

// Config holds broker connection settings
type Config struct {
	Brokers          []string
	GroupID          string
	DialTimeout      time.Duration
	OperationTimeout time.Duration
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
}

// messageWriter abstracts kafka.Writer for testability
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader abstracts kafka.Reader for testability
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Broker provides durable, per-platform queues with at-least-once delivery
// on top of Kafka. Each platform maps to one topic; messages are committed
// only after the handler has run, and a broken connection is re-established
// in a retry loop with capped backoff rather than surfacing to the caller.
type Broker struct {
	cfg    Config
	logger *zap.Logger

	newWriter func(topic string) messageWriter
	newReader func(topic string) messageReader

	mu      sync.Mutex
	writers map[string]messageWriter
	closed  bool
}

// New creates a Broker connected to the configured Kafka cluster
func New(cfg Config, logger *zap.Logger) *Broker {
	applyBrokerDefaults(&cfg)
	b := &Broker{
		cfg:     cfg,
		logger:  logger.Named("broker"),
		writers: make(map[string]messageWriter),
	}
	b.newWriter = func(topic string) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: cfg.OperationTimeout,
		}
	}
	b.newReader = func(topic string) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			Dialer: &kafka.Dialer{
				Timeout:   cfg.DialTimeout,
				DualStack: true,
			},
		})
	}
	return b
}

func applyBrokerDefaults(cfg *Config) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = 10 * time.Second
	}
	if cfg.MinBackoff == 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
}

// Publish enqueues the payload onto the platform's durable queue. It returns
// after the brokers have acknowledged the message (RequiredAcks=all), so a
// nil error means the message survives a broker restart.
func (b *Broker) Publish(ctx context.Context, platform commerce.Platform, payload []byte) error {
	w, err := b.writerFor(string(platform))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.OperationTimeout)
	defer cancel()

	if err := w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(platform),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(uuid.NewString())},
		},
	}); err != nil {
		return fmt.Errorf("publish to %s: %w", platform, err)
	}
	return nil
}

// Consume blocks, invoking handler for each message delivered on the
// platform's queue. Handler failures are logged and the message is committed;
// connection-level failures close the reader and re-enter a reconnect loop
// with capped exponential backoff, forever, until ctx is cancelled. This is
// the component's defining contract: a broker hiccup must never permanently
// stop ingestion.
func (b *Broker) Consume(ctx context.Context, platform commerce.Platform, handler Handler) error {
	topic := string(platform)
	backoff := b.cfg.MinBackoff

	for {
		reader := b.newReader(topic)
		err := b.consumeLoop(ctx, reader, platform, handler, &backoff)
		if closeErr := reader.Close(); closeErr != nil {
			b.logger.Warn("error closing reader",
				zap.String("platform", topic),
				zap.Error(closeErr),
			)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warn("queue connection lost, reconnecting",
			zap.String("platform", topic),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = minDuration(backoff*2, b.cfg.MaxBackoff)
	}
}

// consumeLoop fetches and processes messages until the reader errors or ctx
// is cancelled. It returns the reader error so the caller can reconnect.
func (b *Broker) consumeLoop(ctx context.Context, reader messageReader, platform commerce.Platform, handler Handler, backoff *time.Duration) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		// A successful fetch proves the connection is healthy again.
		*backoff = b.cfg.MinBackoff

		if err := handler(ctx, msg.Value); err != nil {
			b.logger.Error("message handler failed, dropping message",
				zap.String("platform", string(platform)),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		commitCtx, cancel := context.WithTimeout(ctx, b.cfg.OperationTimeout)
		err = reader.CommitMessages(commitCtx, msg)
		cancel()
		if err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// writerFor returns the cached writer for a topic, creating it on first use
func (b *Broker) writerFor(topic string) (messageWriter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}
	if w, ok := b.writers[topic]; ok {
		return w, nil
	}
	w := b.newWriter(topic)
	b.writers[topic] = w
	return w, nil
}

// Close releases all publisher connections. Consumers stop via ctx cancellation.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var firstErr error
	for topic, w := range b.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer %s: %w", topic, err)
		}
	}
	b.writers = nil
	return firstErr
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
