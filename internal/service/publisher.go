package service

import (
	"context"
	"log/slog"

	"worldclock/internal/models"
)

// EventPublisher sends session events somewhere durable.
type EventPublisher interface {
	Publish(ctx context.Context, e models.Event) error
}

// JSONProducer is satisfied by kafkaclient.KafkaProducer.
type JSONProducer interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// StreamPublisher keys events by place so one place's events stay ordered.
type StreamPublisher struct {
	producer JSONProducer
}

func NewStreamPublisher(p JSONProducer) *StreamPublisher {
	return &StreamPublisher{producer: p}
}

func (s *StreamPublisher) Publish(ctx context.Context, e models.Event) error {
	return s.producer.PublishJSON(ctx, e.Key, e)
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Event) error { return nil }

// LogPublisher writes events to a logger at debug level.
type LogPublisher struct {
	Logger *slog.Logger
}

func (l LogPublisher) Publish(_ context.Context, e models.Event) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("session event", "type", e.Type, "key", e.Key, "label", e.Label)
	return nil
}
