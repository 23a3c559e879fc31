// Package favorites keeps the bounded, newest-first list of saved places and
// the last selected place in a key-value store.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"worldclock/internal/keys"
	"worldclock/internal/models"
	"worldclock/internal/storage"
)

// Capacity is the maximum number of favorites kept.
const Capacity = 30

// Contains reports whether a place with key is in list.
func Contains(list []models.Place, key string) bool {
	return index(list, key) >= 0
}

func index(list []models.Place, key string) int {
	for i, p := range list {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Toggle removes place if a favorite with the same key exists, otherwise
// prepends it and drops the oldest entries beyond Capacity. The input slice
// is never modified.
func Toggle(list []models.Place, place models.Place) (out []models.Place, added bool) {
	if Contains(list, place.Key) {
		return Remove(list, place.Key), false
	}
	out = make([]models.Place, 0, min(len(list)+1, Capacity))
	out = append(out, place)
	for _, p := range list {
		if len(out) == Capacity {
			break
		}
		out = append(out, p)
	}
	return out, true
}

// Remove returns list without the favorite whose key matches.
func Remove(list []models.Place, key string) []models.Place {
	out := make([]models.Place, 0, len(list))
	for _, p := range list {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

// Repository reads and writes favorites. Failures are logged and treated as
// absence; nothing here returns an error to the caller.
type Repository struct {
	store  storage.Store
	logger *slog.Logger
}

func NewRepository(store storage.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger.With("component", "favorites")}
}

// Load returns the persisted favorites or an empty list.
func (r *Repository) Load(ctx context.Context) []models.Place {
	var list []models.Place
	if !r.read(ctx, keys.Favorites, &list) {
		return []models.Place{}
	}
	if len(list) > Capacity {
		list = list[:Capacity]
	}
	return list
}

func (r *Repository) Save(ctx context.Context, list []models.Place) {
	r.write(ctx, keys.Favorites, list)
}

// LastPlace returns the persisted last selection, if any.
func (r *Repository) LastPlace(ctx context.Context) (models.Place, bool) {
	var p models.Place
	if !r.read(ctx, keys.LastPlace, &p) || p.TZ == "" {
		return models.Place{}, false
	}
	return p, true
}

func (r *Repository) SaveLastPlace(ctx context.Context, p models.Place) {
	r.write(ctx, keys.LastPlace, p)
}

// ForgetLastPlace drops the persisted last selection.
func (r *Repository) ForgetLastPlace(ctx context.Context) {
	err := r.store.Delete(ctx, keys.LastPlace)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("delete failed", "key", keys.LastPlace, "error", err)
	}
}

func (r *Repository) read(ctx context.Context, key string, v any) bool {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		r.logger.Warn("read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.logger.Debug("discarding malformed value", "key", key, "error", err)
		return false
	}
	return true
}

func (r *Repository) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("encode failed", "key", key, "error", err)
		return
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		r.logger.Warn("write failed", "key", key, "error", err)
	}
}
