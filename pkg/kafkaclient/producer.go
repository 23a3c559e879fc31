package kafkaclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of kafka.Writer the producer uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes JSON-encoded values to a single topic.
type KafkaProducer struct {
	writer KafkaWriter
	logger *slog.Logger
}

func NewKafkaProducer(broker, topic string, logger *slog.Logger) (*KafkaProducer, error) {
	if broker == "" || topic == "" {
		return nil, errors.New("kafka producer needs broker and topic")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newProducer(w, logger), nil
}

func newProducer(w KafkaWriter, logger *slog.Logger) *KafkaProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaProducer{writer: w, logger: logger.With("component", "kafka-producer")}
}

// PublishJSON writes v under key. Messages with the same key keep their order.
func (p *KafkaProducer) PublishJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	msg := kafka.Message{Key: []byte(key), Value: data, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	p.logger.Debug("message published", "key", key, "bytes", len(data))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
