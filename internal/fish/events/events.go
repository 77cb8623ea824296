// Package events publishes fish lifecycle changes to the event stream.
package events

import (
	"context"
	"fmt"
	"time"

	"fishtank/pkg/config"
	"fishtank/pkg/kafka"
	kafka_config "fishtank/pkg/kafka/config"
	kafka_middleware "fishtank/pkg/kafka/middleware"
	"fishtank/pkg/model"
)

const (
	TypeCreated = "fish.created"
	TypeUpdated = "fish.updated"
	TypeDeleted = "fish.deleted"

	Source        = "fishtank"
	SchemaVersion = "1"

	HeaderContentType = "content-type"
	ContentTypeJSON   = "application/json"
)

type Event struct {
	Type          string      `json:"type"`
	ID            string      `json:"id"`
	Fish          *model.Fish `json:"fish,omitempty"`
	OccurredAt    time.Time   `json:"occurredAt"`
	CorrelationID string      `json:"-"`
}

func New(eventType, id string, fish *model.Fish) Event {
	return Event{
		Type:       eventType,
		ID:         id,
		Fish:       fish,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher keys each message by fish identifier so that all changes to
// one record land on the same partition.
type KafkaPublisher struct {
	producer producer
}

func NewKafkaPublisher(p *kafka.Producer) *KafkaPublisher {
	return newKafkaPublisher(p)
}

func newKafkaPublisher(p producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(event.ID).
		WithValue(event).
		WithEventID("").
		WithEventType(event.Type).
		WithCorrelationID(event.CorrelationID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithHeader(HeaderContentType, ContentTypeJSON).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return err
	}
	return k.producer.Publish(ctx, msg)
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}

// FromConfig returns a Kafka publisher when brokers are configured and Noop
// otherwise.
func FromConfig(cfg *config.Config) (Publisher, error) {
	if !cfg.EventsEnabled() {
		cfg.Log.Info("Kafka brokers not configured, lifecycle events disabled")
		return Noop{}, nil
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	cfg.Log.Info("Lifecycle events enabled", "topic", producer.Topic())
	return NewKafkaPublisher(producer), nil
}
