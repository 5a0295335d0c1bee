package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu       sync.Mutex
	written  []kafka.Message
	failWith error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failWith != nil {
		return w.failWith
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// fakeReader delivers its queued messages, then returns failWith (or blocks
// on ctx when failWith is nil).
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	failWith  error
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	failWith := r.failWith
	r.mu.Unlock()

	if failWith != nil {
		return kafka.Message{}, failWith
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	return New(Config{
		Brokers:    []string{"localhost:9092"},
		GroupID:    "test-group",
		MinBackoff: time.Millisecond,
		MaxBackoff: 4 * time.Millisecond,
	}, zap.NewNop())
}

func TestBrokerPublish(t *testing.T) {
	broker := newTestBroker(t)
	writer := &fakeWriter{}
	broker.newWriter = func(topic string) messageWriter { return writer }

	err := broker.Publish(context.Background(), commerce.PlatformShopify, []byte(`{"x":1}`))
	require.NoError(t, err)

	require.Len(t, writer.written, 1)
	assert.Equal(t, []byte(commerce.PlatformShopify), writer.written[0].Key)
	assert.Equal(t, []byte(`{"x":1}`), writer.written[0].Value)
	require.Len(t, writer.written[0].Headers, 1)
	assert.Equal(t, "message_id", writer.written[0].Headers[0].Key)
	assert.NotEmpty(t, writer.written[0].Headers[0].Value)

	t.Run("writer is cached per topic", func(t *testing.T) {
		require.NoError(t, broker.Publish(context.Background(), commerce.PlatformShopify, []byte(`{"x":2}`)))
		assert.Len(t, writer.written, 2)
	})

	t.Run("publish after close fails", func(t *testing.T) {
		require.NoError(t, broker.Close())
		assert.True(t, writer.closed)

		err := broker.Publish(context.Background(), commerce.PlatformShopify, []byte(`{}`))
		assert.Error(t, err)
	})
}

func TestBrokerConsumeCommitsAfterHandler(t *testing.T) {
	broker := newTestBroker(t)
	reader := &fakeReader{queue: []kafka.Message{
		{Value: []byte(`first`), Offset: 1},
		{Value: []byte(`second`), Offset: 2},
	}}
	broker.newReader = func(topic string) messageReader { return reader }

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var handled [][]byte
	go func() {
		_ = broker.Consume(ctx, commerce.PlatformShopify, func(_ context.Context, payload []byte) error {
			mu.Lock()
			handled = append(handled, payload)
			n := len(handled)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.committed) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]byte{[]byte(`first`), []byte(`second`)}, handled)
}

func TestBrokerConsumeCommitsFailedMessages(t *testing.T) {
	broker := newTestBroker(t)
	reader := &fakeReader{queue: []kafka.Message{{Value: []byte(`bad`), Offset: 7}}}
	broker.newReader = func(topic string) messageReader { return reader }

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = broker.Consume(ctx, commerce.PlatformShopify, func(context.Context, []byte) error {
			defer cancel()
			return errors.New("normalize failed")
		})
	}()

	// A handler failure must not leave the message uncommitted: redelivering
	// a malformed payload can never succeed.
	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.committed) == 1
	}, time.Second, time.Millisecond)
}

func TestBrokerConsumeReconnects(t *testing.T) {
	broker := newTestBroker(t)

	first := &fakeReader{
		queue:    []kafka.Message{{Value: []byte(`before-outage`), Offset: 1}},
		failWith: errors.New("connection reset"),
	}
	second := &fakeReader{queue: []kafka.Message{{Value: []byte(`after-outage`), Offset: 2}}}

	var created int
	broker.newReader = func(topic string) messageReader {
		created++
		if created == 1 {
			return first
		}
		return second
	}

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var handled [][]byte
	done := make(chan error, 1)
	go func() {
		done <- broker.Consume(ctx, commerce.PlatformShopify, func(_ context.Context, payload []byte) error {
			mu.Lock()
			handled = append(handled, payload)
			n := len(handled)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not resume after reader failure")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]byte{[]byte(`before-outage`), []byte(`after-outage`)}, handled)
	assert.True(t, first.closed, "failed reader should be closed before reconnecting")
	assert.GreaterOrEqual(t, created, 2)
}
