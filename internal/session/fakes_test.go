package session

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"worldclock/internal/clock"
	"worldclock/internal/favorites"
	"worldclock/internal/models"
	"worldclock/internal/storage"
	"worldclock/pkg/location"
)

type fakeResolver struct {
	mu      sync.Mutex
	results map[string][]models.Place
	err     error
	gates   map[string]chan struct{}
	queries []string
	opts    []location.Options
}

func (f *fakeResolver) ResolveCandidates(_ context.Context, q string, opts location.Options) ([]models.Place, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.opts = append(f.opts, opts)
	gate := f.gates[q]
	res, err := f.results[q], f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return res, err
}

func (f *fakeResolver) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeTZ struct {
	mu    sync.Mutex
	tz    string
	err   error
	calls int
}

func (f *fakeTZ) Resolve(context.Context, float64, float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tz, f.err
}

func (f *fakeTZ) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeImages struct {
	url string
	err error
}

func (f *fakeImages) SelectImageURL(context.Context, models.Place) (string, error) {
	return f.url, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingView struct {
	mu          sync.Mutex
	suggestions []models.Place
	errorMsg    string
	errors      []string
	places      []models.Place
	favState    []bool
	favorites   []models.Place
	backgrounds []string
	frames      []clock.Frame
	locals      int
}

func (v *recordingView) ShowSuggestions(places []models.Place) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.suggestions = places
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorMsg = msg
	v.errors = append(v.errors, msg)
}

func (v *recordingView) HideError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorMsg = ""
}

func (v *recordingView) ShowPlace(place models.Place, favorite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.places = append(v.places, place)
	v.favState = append(v.favState, favorite)
}

func (v *recordingView) ShowFavoriteState(favorite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favState = append(v.favState, favorite)
}

func (v *recordingView) ShowFavorites(list []models.Place) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favorites = list
}

func (v *recordingView) ShowBackground(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.backgrounds = append(v.backgrounds, url)
}

func (v *recordingView) ShowFrame(f clock.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames = append(v.frames, f)
}

func (v *recordingView) ShowLocal(clock.LocalFrame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.locals++
}

func (v *recordingView) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errorMsg
}

func (v *recordingView) Suggestions() []models.Place {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.suggestions
}

func (v *recordingView) Backgrounds() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.backgrounds...)
}

func (v *recordingView) Frames() []clock.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]clock.Frame(nil), v.frames...)
}

func (v *recordingView) LastFavState() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.favState[len(v.favState)-1]
}

type harness struct {
	s         *Session
	resolver  *fakeResolver
	tz        *fakeTZ
	images    *fakeImages
	repo      *favorites.Repository
	publisher *recordingPublisher
	view      *recordingView
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		resolver:  &fakeResolver{results: map[string][]models.Place{}, gates: map[string]chan struct{}{}},
		tz:        &fakeTZ{tz: "Asia/Baku"},
		images:    &fakeImages{url: "https://upload.example/Baku.jpg"},
		repo:      favorites.NewRepository(storage.NewMemory(), nil),
		publisher: &recordingPublisher{},
		view:      &recordingView{},
	}
	h.s = New(Deps{
		Resolver:  h.resolver,
		Timezone:  h.tz,
		Images:    h.images,
		Favorites: h.repo,
		Publisher: h.publisher,
		View:      h.view,
	}, Options{
		Debounce:     20 * time.Millisecond,
		TickInterval: 10 * time.Millisecond,
		Local:        time.UTC,
	})
	t.Cleanup(h.s.Close)
	return h
}

var (
	baku   = models.Place{Key: "1", City: "Bakı", Country: "Azərbaycan", Lat: 40.41, Lon: 49.87, Label: "Bakı, Azərbaycan"}
	bakuUS = models.Place{Key: "2", City: "Baku", Country: "USA", Lat: 38.5, Lon: -90.1, Label: "Baku, USA"}
	quba   = models.Place{Key: "3", City: "Quba", Country: "Azərbaycan", Lat: 41.36, Lon: 48.51, Label: "Quba, Azərbaycan"}
)
