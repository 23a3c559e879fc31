package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ConsumerConfig struct {
	Broker  string
	Topic   string
	GroupID string
	// StartOffset applies when the group has no committed offset.
	// kafka.FirstOffset replays history, kafka.LastOffset tails.
	StartOffset int64
}

// KafkaConsumer manages the Kafka reader and its message loop.
// It is designed to be thread-safe.
type KafkaConsumer struct {
	reader KafkaReader
	// a channel to signal a graceful shutdown.
	doneChan chan struct{}
	stopOnce sync.Once
	// a wait group to ensure all goroutines have exited before the program terminates.
	wg sync.WaitGroup
	// a channel to hold the Kafka messages, which are then consumed by the Iterator.
	messageChan chan kafka.Message
	logger      *slog.Logger
}

// NewKafkaConsumer creates a consumer over a kafka-go group reader.
func NewKafkaConsumer(cfg ConsumerConfig, logger *slog.Logger) (*KafkaConsumer, error) {
	if cfg.Broker == "" || cfg.Topic == "" || cfg.GroupID == "" {
		return nil, errors.New("kafka consumer needs broker, topic and group id")
	}
	if cfg.StartOffset == 0 {
		cfg.StartOffset = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		// Disable auto-commit to manually control offset committing.
		CommitInterval: 0,
		StartOffset:    cfg.StartOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader, logger), nil
}

func newConsumer(reader KafkaReader, logger *slog.Logger) *KafkaConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaConsumer{
		reader:      reader,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		logger:      logger.With("component", "kafka-consumer"),
	}
}

// Messages returns the channel fed by StartConsuming. It is closed when the
// loop exits.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

// CommitOffset manually commits the offset of a message.
func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	kc.logger.Debug("committing offset", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the Kafka message consumption loop in a separate goroutine.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		kc.logger.Debug("starting consumer loop")

		for {
			select {
			case <-ctx.Done():
				kc.logger.Debug("context canceled, stopping consumer loop")
				return
			case <-kc.doneChan:
				kc.logger.Debug("shutdown signal received, stopping consumer loop")
				return
			default:
				msg, err := kc.reader.ReadMessage(ctx)
				if err != nil {
					if errors.Is(err, io.EOF) || ctx.Err() != nil {
						return
					}
					kc.logger.Warn("error reading message", "error", err)
					// back off to prevent a tight error loop
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
						return
					case <-kc.doneChan:
						return
					}
					continue
				}

				select {
				case kc.messageChan <- msg:
					kc.logger.Debug("message received", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
			}
		}
	}()
}

// Stop gracefully shuts down the Kafka consumer. It is safe to call more
// than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		close(kc.doneChan)
		kc.wg.Wait()
		if err := kc.reader.Close(); err != nil {
			kc.logger.Warn("failed to close Kafka reader", "error", err)
		}
		kc.logger.Debug("consumer stopped")
	})
}
