package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"worldclock/internal/models"
	"worldclock/internal/service"
)

var (
	// ErrTimezoneUnresolved means the timezone service had no zone for the place.
	ErrTimezoneUnresolved = errors.New("time zone unresolved")
	// ErrStale means a newer request superseded this selection.
	ErrStale = errors.New("selection superseded")
)

// Selection is a place on its way to becoming the current place.
type Selection struct {
	Place   models.Place
	Persist bool
	At      time.Time
	// Stale, when set, reports whether a newer request has started.
	Stale func() bool
}

type TimezoneResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

type LastPlaceSaver interface {
	SaveLastPlace(ctx context.Context, p models.Place)
}

// ResolveTimezone fills Place.TZ. A missing or unloadable zone and a
// transport failure halt the run; the place is left without a zone.
func ResolveTimezone(r TimezoneResolver) Step[Selection] {
	return func(ctx context.Context, s *Selection) error {
		if s.Place.TZ != "" {
			return nil
		}
		tz, err := r.Resolve(ctx, s.Place.Lat, s.Place.Lon)
		if err != nil {
			return Halt(fmt.Errorf("resolve time zone: %w", err))
		}
		if tz == "" {
			return Halt(ErrTimezoneUnresolved)
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return Halt(fmt.Errorf("%w: %q", ErrTimezoneUnresolved, tz))
		}
		s.Place = s.Place.WithTZ(tz)
		return nil
	}
}

// GuardStale halts the run once the selection has been superseded.
func GuardStale() Step[Selection] {
	return func(_ context.Context, s *Selection) error {
		if s.Stale != nil && s.Stale() {
			return Halt(ErrStale)
		}
		return nil
	}
}

// PersistLastPlace stores the place for the next startup when requested.
func PersistLastPlace(saver LastPlaceSaver) Step[Selection] {
	return func(ctx context.Context, s *Selection) error {
		if s.Persist {
			saver.SaveLastPlace(ctx, s.Place)
		}
		return nil
	}
}

// PublishSelected emits a place.selected event.
func PublishSelected(pub service.EventPublisher) Step[Selection] {
	return func(ctx context.Context, s *Selection) error {
		at := s.At
		if at.IsZero() {
			at = time.Now()
		}
		if err := pub.Publish(ctx, models.NewEvent(models.EventPlaceSelected, s.Place, at)); err != nil {
			return fmt.Errorf("publish selection: %w", err)
		}
		return nil
	}
}

// NewSelectionPipeline resolves the zone, drops superseded selections and
// then, in parallel, persists and publishes the selection.
func NewSelectionPipeline(tz TimezoneResolver, saver LastPlaceSaver, pub service.EventPublisher, logger *slog.Logger) *Pipeline[Selection] {
	return NewPipeline(logger,
		NewStage("timezone", ResolveTimezone(tz)),
		NewStage("guard", GuardStale()),
		NewStage("record", PersistLastPlace(saver), PublishSelected(pub)),
	)
}
