// Package session owns the interactive state: the current place, favorites,
// pending suggestions and the clock loops. It orchestrates resolution,
// selection and image lookup and drives a View.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"worldclock/internal/clock"
	"worldclock/internal/enrich"
	"worldclock/internal/favorites"
	"worldclock/internal/models"
	"worldclock/internal/service"
	"worldclock/pkg/location"
)

const (
	DefaultDebounce = 350 * time.Millisecond
	DefaultQuery    = "Bakı"
)

// Resolver turns a query into candidate places.
type Resolver interface {
	ResolveCandidates(ctx context.Context, query string, opts location.Options) ([]models.Place, error)
}

// ImageSelector picks a background image URL for a place.
type ImageSelector interface {
	SelectImageURL(ctx context.Context, place models.Place) (string, error)
}

// Repository persists favorites and the last selection.
type Repository interface {
	Load(ctx context.Context) []models.Place
	Save(ctx context.Context, list []models.Place)
	LastPlace(ctx context.Context) (models.Place, bool)
	SaveLastPlace(ctx context.Context, p models.Place)
	ForgetLastPlace(ctx context.Context)
}

type Deps struct {
	Resolver  Resolver
	Timezone  enrich.TimezoneResolver
	Images    ImageSelector
	Favorites Repository
	Publisher service.EventPublisher
	View      View
}

type Options struct {
	Debounce     time.Duration
	TickInterval time.Duration
	DefaultQuery string
	// Local is the viewer's zone; nil means time.Local.
	Local  *time.Location
	Logger *slog.Logger
	Now    func() time.Time
}

// Outcome is the result of a resolve-or-select call.
type Outcome int

const (
	// OutcomeSelected means a place became current.
	OutcomeSelected Outcome = iota
	// OutcomeAmbiguous means several candidates await a choice.
	OutcomeAmbiguous
	OutcomeNotFound
	OutcomeFailed
	// OutcomeStale means a newer request superseded this one.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSelected:
		return "selected"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Session is safe for concurrent use. State changes happen under one mutex
// so no caller observes a partial update.
type Session struct {
	deps     Deps
	opts     Options
	pipeline *enrich.Pipeline[enrich.Selection]
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// token identifies the latest search or selection request.
	token atomic.Uint64
	// generation identifies the latest displayed place.
	generation atomic.Uint64

	placeTicker *clock.Ticker
	localTicker *clock.Ticker

	mu          sync.Mutex
	current     models.Place
	hasCurrent  bool
	favorites   []models.Place
	suggestions []models.Place
	debounce    *time.Timer
	closed      bool
}

func New(deps Deps, opts Options) *Session {
	if deps.Publisher == nil {
		deps.Publisher = service.NopPublisher{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.DefaultQuery == "" {
		opts.DefaultQuery = DefaultQuery
	}
	if opts.Local == nil {
		opts.Local = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With("component", "session")

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		deps:        deps,
		opts:        opts,
		pipeline:    enrich.NewSelectionPipeline(deps.Timezone, deps.Favorites, deps.Publisher, logger),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		placeTicker: clock.NewTicker(opts.TickInterval),
		localTicker: clock.NewTicker(opts.TickInterval),
	}
}

func (s *Session) next() uint64 { return s.token.Add(1) }
func (s *Session) stale(t uint64) bool { return s.token.Load() != t }

// Restore loads favorites, starts the local clock and shows the last
// selected place, or selects the default query when there is none. A last
// place whose zone no longer loads is forgotten.
func (s *Session) Restore(ctx context.Context) Outcome {
	list := s.deps.Favorites.Load(ctx)
	s.mu.Lock()
	s.favorites = list
	s.mu.Unlock()
	s.deps.View.ShowFavorites(list)

	s.localTicker.Replace(func(now time.Time) {
		s.deps.View.ShowLocal(clock.Local(now, s.opts.Local))
	})

	if last, ok := s.deps.Favorites.LastPlace(ctx); ok {
		s.next()
		if s.usePlace(last, false, true) {
			return OutcomeSelected
		}
		s.deps.Favorites.ForgetLastPlace(ctx)
	}
	return s.SelectByQuery(ctx, s.opts.DefaultQuery)
}

// Suggest schedules a search for query once input has been quiet for the
// debounce delay. Each call restarts the delay.
func (s *Session) Suggest(query string) {
	q := strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.opts.Debounce, func() {
		if s.ctx.Err() != nil {
			return
		}
		if q == "" {
			s.Dismiss()
			s.deps.View.HideError()
			return
		}
		_, _ = s.Search(s.ctx, q)
	})
}

func (s *Session) cancelDebounce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
}

// Search resolves query into suggestions without selecting anything. A
// superseded response is dropped and reported as nil, nil.
func (s *Session) Search(ctx context.Context, query string) ([]models.Place, error) {
	token := s.next()
	s.deps.View.HideError()

	places, err := s.deps.Resolver.ResolveCandidates(ctx, query, location.Options{
		Limit: location.DefaultLimit,
		Cap:   location.DefaultCap,
	})

	s.mu.Lock()
	if s.stale(token) {
		s.mu.Unlock()
		return nil, nil
	}
	if err != nil {
		s.suggestions = nil
	} else {
		s.suggestions = places
	}
	shown := s.suggestions
	s.mu.Unlock()

	s.deps.View.ShowSuggestions(shown)
	switch {
	case err != nil:
		s.logger.Warn("search failed", "query", query, "error", err)
		s.deps.View.ShowError(MsgSuggestFailed)
		return nil, err
	case len(places) == 0:
		s.deps.View.ShowError(MsgSuggestNotFound)
	}
	return places, nil
}

// Submit handles an explicit submission: the first pending suggestion wins,
// otherwise query is resolved with the tight limit.
func (s *Session) Submit(ctx context.Context, query string) Outcome {
	q := strings.TrimSpace(query)
	if q == "" {
		return OutcomeNotFound
	}
	s.cancelDebounce()

	s.mu.Lock()
	pending := len(s.suggestions) > 0
	s.mu.Unlock()
	if pending {
		out, err := s.SelectSuggestion(ctx, 0)
		if err == nil {
			return out
		}
	}
	return s.SelectByQuery(ctx, q)
}

// Dismiss hides the suggestion list and drops in-flight searches.
func (s *Session) Dismiss() {
	s.next()
	s.mu.Lock()
	s.suggestions = nil
	s.mu.Unlock()
	s.deps.View.ShowSuggestions(nil)
}

// SelectByQuery resolves query and selects the single candidate, or leaves
// several candidates pending for an explicit choice.
func (s *Session) SelectByQuery(ctx context.Context, query string) Outcome {
	token := s.next()
	s.deps.View.HideError()
	s.mu.Lock()
	s.suggestions = nil
	s.mu.Unlock()
	s.deps.View.ShowSuggestions(nil)

	places, err := s.deps.Resolver.ResolveCandidates(ctx, query, location.Options{
		Limit: location.TightLimit,
		Cap:   location.DefaultCap,
	})
	if s.stale(token) {
		return OutcomeStale
	}
	switch {
	case err != nil:
		s.logger.Warn("select by query failed", "query", query, "error", err)
		s.deps.View.ShowError(MsgSelectFailed)
		return OutcomeFailed
	case len(places) == 0:
		s.deps.View.ShowError(MsgSelectNotFound)
		return OutcomeNotFound
	case len(places) > 1:
		s.mu.Lock()
		if s.stale(token) {
			s.mu.Unlock()
			return OutcomeStale
		}
		s.suggestions = places
		s.mu.Unlock()
		s.deps.View.ShowSuggestions(places)
		return OutcomeAmbiguous
	}
	return s.selectPlace(ctx, token, places[0], true, false)
}

// ErrNoSuggestion is returned for an out-of-range suggestion index.
var ErrNoSuggestion = errors.New("no such suggestion")

// SelectSuggestion selects the i-th pending suggestion (zero based).
func (s *Session) SelectSuggestion(ctx context.Context, i int) (Outcome, error) {
	s.mu.Lock()
	if i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return OutcomeNotFound, ErrNoSuggestion
	}
	place := s.suggestions[i]
	s.suggestions = nil
	s.mu.Unlock()

	s.deps.View.ShowSuggestions(nil)
	return s.SelectPlace(ctx, place), nil
}

// SelectPlace resolves the zone of place and makes it current.
func (s *Session) SelectPlace(ctx context.Context, place models.Place) Outcome {
	return s.selectPlace(ctx, s.next(), place, true, false)
}

func (s *Session) selectPlace(ctx context.Context, token uint64, place models.Place, persist, fromFavorites bool) Outcome {
	s.deps.View.HideError()

	sel := &enrich.Selection{
		Place:   place,
		Persist: persist,
		At:      s.opts.Now(),
		Stale:   func() bool { return s.stale(token) },
	}
	err := s.pipeline.Run(ctx, sel)
	switch {
	case errors.Is(err, enrich.ErrStale):
		return OutcomeStale
	case errors.Is(err, enrich.ErrTimezoneUnresolved):
		if s.stale(token) {
			return OutcomeStale
		}
		s.deps.View.ShowError(MsgTimezoneMissing)
		return OutcomeFailed
	case err != nil:
		if s.stale(token) {
			return OutcomeStale
		}
		s.logger.Warn("select place failed", "key", place.Key, "error", err)
		s.deps.View.ShowError(MsgSelectFailed)
		return OutcomeFailed
	}

	if s.stale(token) {
		return OutcomeStale
	}
	if !s.usePlace(sel.Place, false, fromFavorites) {
		return OutcomeFailed
	}
	return OutcomeSelected
}

// usePlace makes place current: header, favorite state, background lookup
// and a fresh clock loop replacing the previous one.
func (s *Session) usePlace(place models.Place, persist, fromFavorites bool) bool {
	loc, err := time.LoadLocation(place.TZ)
	if err != nil || place.TZ == "" {
		s.logger.Warn("unusable time zone", "key", place.Key, "tz", place.TZ, "error", err)
		s.deps.View.ShowError(MsgTimezoneMissing)
		return false
	}

	s.mu.Lock()
	s.current = place
	s.hasCurrent = true
	isFav := favorites.Contains(s.favorites, place.Key)
	s.mu.Unlock()
	gen := s.generation.Add(1)

	s.deps.View.ShowPlace(place, isFav)
	s.loadBackground(gen, place)

	local := s.opts.Local
	s.placeTicker.Replace(func(now time.Time) {
		s.deps.View.ShowFrame(clock.FrameIn(now, place, loc, local))
	})

	if persist {
		s.deps.Favorites.SaveLastPlace(s.ctx, place)
	}
	if fromFavorites {
		s.deps.View.HideError()
	}
	return true
}

// loadBackground selects the image off the caller's goroutine. Results for a
// place that is no longer current are dropped.
func (s *Session) loadBackground(gen uint64, place models.Place) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		url, err := s.deps.Images.SelectImageURL(s.ctx, place)
		if s.generation.Load() != gen || s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Warn("image selection failed", "key", place.Key, "error", err)
			s.deps.View.ShowError(MsgImageFailed)
			s.deps.View.ShowBackground("")
			return
		}
		s.deps.View.ShowBackground(url)
		if url != "" {
			e := models.NewEvent(models.EventImageSelected, place, s.opts.Now())
			e.ImageURL = url
			s.publish(e)
		}
	}()
}

// ErrNoPlace is returned by favorite actions when nothing is selected.
var ErrNoPlace = errors.New("no place selected")

// ToggleFavorite adds or removes the current place from favorites.
func (s *Session) ToggleFavorite(ctx context.Context) (added bool, err error) {
	s.mu.Lock()
	if !s.hasCurrent {
		s.mu.Unlock()
		return false, ErrNoPlace
	}
	current := s.current
	list, added := favorites.Toggle(s.favorites, current)
	s.favorites = list
	s.mu.Unlock()

	s.deps.Favorites.Save(ctx, list)
	s.deps.View.ShowFavorites(list)
	s.deps.View.ShowFavoriteState(added)

	typ := models.EventFavoriteRemoved
	if added {
		typ = models.EventFavoriteAdded
	}
	s.publish(models.NewEvent(typ, current, s.opts.Now()))
	return added, nil
}

// RemoveFavorite drops the favorite with key. Unknown keys are a no-op.
func (s *Session) RemoveFavorite(ctx context.Context, key string) bool {
	s.mu.Lock()
	i := indexOf(s.favorites, key)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.favorites[i]
	list := favorites.Remove(s.favorites, key)
	s.favorites = list
	currentFav := s.hasCurrent && favorites.Contains(list, s.current.Key)
	hasCurrent := s.hasCurrent
	s.mu.Unlock()

	s.deps.Favorites.Save(ctx, list)
	s.deps.View.ShowFavorites(list)
	if hasCurrent {
		s.deps.View.ShowFavoriteState(currentFav)
	}
	s.publish(models.NewEvent(models.EventFavoriteRemoved, removed, s.opts.Now()))
	return true
}

// UseFavorite makes the favorite with key current and remembers it as the
// last place.
func (s *Session) UseFavorite(ctx context.Context, key string) (Outcome, error) {
	s.mu.Lock()
	i := indexOf(s.favorites, key)
	if i < 0 {
		s.mu.Unlock()
		return OutcomeNotFound, fmt.Errorf("favorite %q: %w", key, ErrNoPlace)
	}
	place := s.favorites[i]
	s.mu.Unlock()

	s.cancelDebounce()
	return s.selectPlace(ctx, s.next(), place, true, true), nil
}

func indexOf(list []models.Place, key string) int {
	for i, p := range list {
		if p.Key == key {
			return i
		}
	}
	return -1
}

func (s *Session) publish(e models.Event) {
	if err := s.deps.Publisher.Publish(s.ctx, e); err != nil {
		s.logger.Warn("publish event failed", "type", e.Type, "error", err)
	}
}

// Current returns the selected place, if any.
func (s *Session) Current() (models.Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

// Favorites returns a copy of the favorites list.
func (s *Session) Favorites() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Place(nil), s.favorites...)
}

// Suggestions returns a copy of the pending suggestions.
func (s *Session) Suggestions() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Place(nil), s.suggestions...)
}

// Close stops the clock loops and pending work and waits for background
// image lookups to return.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.mu.Unlock()

	s.next()
	s.cancel()
	s.placeTicker.Stop()
	s.localTicker.Stop()
	s.wg.Wait()
}
