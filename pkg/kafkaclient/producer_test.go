package kafkaclient

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (mw *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if mw.err != nil {
		return mw.err
	}
	mw.written = append(mw.written, msgs...)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.closed = true
	return nil
}

func TestKafkaProducer_PublishJSON(t *testing.T) {
	w := &mockWriter{}
	p := newProducer(w, nil)

	err := p.PublishJSON(context.Background(), "123", map[string]string{"type": "place.selected"})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "123", string(w.written[0].Key))
	assert.JSONEq(t, `{"type":"place.selected"}`, string(w.written[0].Value))
	assert.False(t, w.written[0].Time.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducer_Errors(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := newProducer(w, nil)

	assert.ErrorContains(t, p.PublishJSON(context.Background(), "k", struct{}{}), "broker down")
	assert.Error(t, p.PublishJSON(context.Background(), "k", make(chan int)))

	_, err := NewKafkaProducer("", "topic", nil)
	assert.Error(t, err)
}
