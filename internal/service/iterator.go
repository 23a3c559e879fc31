// Package service contains helpers used by application services: an Iterator
// that decodes messages from a message source (e.g., Kafka via
// pkg/kafkaclient) and the session event publishers that feed it.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Iterator consumes messages from a MessageIterator, decodes each one and
// yields the results on a channel. It is generic over the decoded type T.
//
// The Iterator does not manage the lifecycle of the underlying message source;
// callers start and stop their consumer outside.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	logger      *slog.Logger
}

func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T], logger *slog.Logger) *Iterator[T] {
	if decode == nil {
		decode = DecodeJSON[T]
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Iterator[T]{msgIterator: iterator, decode: decode, logger: logger}
}

// DecodeJSON unmarshals the message value into T.
func DecodeJSON[T any](msg kafka.Message) (T, error) {
	var v T
	err := json.Unmarshal(msg.Value, &v)
	return v, err
}

// Objects streams decoded messages until the source closes or ctx ends.
// Undecodable messages are logged, committed and skipped so a poison message
// cannot stall the group. Offsets are committed after the value is handed
// to the receiver.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *Decoded[T] {
	out := make(chan *Decoded[T])
	go func() {
		defer close(out)

		for msg := range it.msgIterator.Messages() {
			data, err := it.decode(msg)
			if err != nil {
				it.logger.Warn("skipping undecodable message", "offset", msg.Offset, "error", err)
				it.commit(ctx, msg)
				continue
			}

			select {
			case out <- &Decoded[T]{Data: data, Partition: msg.Partition, Offset: msg.Offset}:
			case <-ctx.Done():
				return
			}
			it.commit(ctx, msg)
		}
	}()
	return out
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		it.logger.Warn("failed to commit offset", "offset", msg.Offset, "error", err)
	}
}
