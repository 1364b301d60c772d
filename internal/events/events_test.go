package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter implements the same methods as *kafka.Writer
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, m ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, m...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestKafkaPublisherWritesEventEnvelope(t *testing.T) {
	w := &fakeWriter{}
	logger := zerolog.New(io.Discard)
	p := newKafkaPublisher(w, &logger)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	p.Publish(context.Background(), UserCreated, map[string]string{"email": "ana@example.com"})
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	assert.True(t, w.closed)
	assert.Equal(t, []byte(UserCreated), w.msgs[0].Key)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, UserCreated, got["type"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got["occurredAt"])
	assert.Equal(t, map[string]interface{}{"email": "ana@example.com"}, got["data"])
}

func TestKafkaPublisherSurvivesCanceledRequestContext(t *testing.T) {
	w := &fakeWriter{}
	logger := zerolog.New(io.Discard)
	p := newKafkaPublisher(w, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, TaskCreated, nil)
	require.NoError(t, p.Close())

	assert.Len(t, w.msgs, 1)
}

func TestKafkaPublisherLogsWriteFailures(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	logger := zerolog.New(io.Discard)
	p := newKafkaPublisher(w, &logger)

	p.Publish(context.Background(), PaymentRecorded, nil)
	assert.NoError(t, p.Close())
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	w := &fakeWriter{}
	logger := zerolog.New(io.Discard)
	p := newKafkaPublisher(w, &logger)
	require.NoError(t, p.Close())

	p.Publish(context.Background(), UserDeleted, nil)
	assert.Empty(t, w.msgs)
}
