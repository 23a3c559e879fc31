package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldclock/internal/models"
)

type recordingProducer struct {
	keys   []string
	values []any
}

func (r *recordingProducer) PublishJSON(_ context.Context, key string, v any) error {
	r.keys = append(r.keys, key)
	r.values = append(r.values, v)
	return nil
}

func TestStreamPublisher(t *testing.T) {
	rp := &recordingProducer{}
	p := NewStreamPublisher(rp)
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.FixedZone("+04", 4*3600))
	e := models.NewEvent(models.EventPlaceSelected, models.Place{Key: "42", Label: "Bakı", TZ: "Asia/Baku"}, at)

	require.NoError(t, p.Publish(context.Background(), e))
	assert.Equal(t, []string{"42"}, rp.keys)
	got := rp.values[0].(models.Event)
	assert.Equal(t, time.UTC, got.At.Location())
	assert.Equal(t, "Asia/Baku", got.TZ)
}

func TestNopAndLogPublishers(t *testing.T) {
	e := models.Event{Type: models.EventFavoriteRemoved, Key: "1"}
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), e))
	assert.NoError(t, LogPublisher{}.Publish(context.Background(), e))
}
