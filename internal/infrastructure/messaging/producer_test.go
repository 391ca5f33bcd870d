package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/event"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestSalePublisherFlushesOnClose(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, 8, zap.NewNop())
	p.Start(context.Background())

	pub := NewSalePublisher(p)
	env, err := event.New(event.TypeSaleCreated, "tablepos-api", "ANN-000001", map[string]string{"invoice_no": "ANN-000001"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), env))

	p.Close()
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, "ANN-000001", string(w.msgs[0].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)

	var got event.Envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, env.EventID, got.EventID)
}

func TestProducerDrainsOnContextCancel(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, 8, zap.NewNop())
	require.NoError(t, p.Publish([]byte("k1"), []byte("v1")))
	require.NoError(t, p.Publish([]byte("k2"), []byte("v2")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Start(ctx)
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.msgs, 2)
	assert.True(t, w.closed)
}

func TestPublishReportsFullBuffer(t *testing.T) {
	p := newProducer(&recordingWriter{}, 1, zap.NewNop())
	require.NoError(t, p.Publish(nil, []byte("a")))
	assert.ErrorIs(t, p.Publish(nil, []byte("b")), ErrProducerBusy)
}
