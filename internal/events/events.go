package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arzan03/productsdb-api/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event types published after successful writes.
const (
	UserCreated       = "user.created"
	UserRoleChanged   = "user.role_changed"
	UserDeleted       = "user.deleted"
	UserVerified      = "user.verified"
	UserSalaryUpdated = "user.salary_updated"
	TaskCreated       = "task.created"
	PaymentRecorded   = "payment.recorded"
)

const defaultWriteTimeout = 5 * time.Second

// Event is the message body written to Kafka.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events. Publish never blocks on the broker.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{})
	Close() error
}

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	pool    *utils.WorkerPool
	logger  *zerolog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewKafkaPublisher writes to topic on brokers through a small worker pool.
func NewKafkaPublisher(brokers []string, topic string, logger *zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger *zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		pool:    utils.NewWorkerPool(4, 256),
		logger:  logger,
		timeout: defaultWriteTimeout,
		now:     time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, data interface{}) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("event", eventType).Msg("failed to encode event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(eventType),
		Value: value,
		Time:  event.OccurredAt,
	}

	// The request context ends with the response, so the write gets its own deadline.
	accepted := p.pool.Submit(func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
			p.logger.Error().Err(err).Str("event", eventType).Str("event_id", event.ID).Msg("failed to publish event")
		}
	})
	if !accepted {
		p.logger.Warn().Str("event", eventType).Str("event_id", event.ID).Msg("event queue full, dropping event")
	}
}

// Close drains queued events and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.pool.Shutdown()
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) {}

func (NopPublisher) Close() error { return nil }
