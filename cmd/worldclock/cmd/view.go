package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"worldclock/internal/clock"
	"worldclock/internal/models"
	"worldclock/internal/session"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// textView renders a session to a terminal. With live set every clock frame
// is printed; otherwise the latest frame is kept for PrintNow.
type textView struct {
	w    io.Writer
	live bool

	mu         sync.Mutex
	frame      clock.Frame
	hasFrame   bool
	local      clock.LocalFrame
	background string
	bgReady    chan struct{}
}

var _ session.View = (*textView)(nil)

func newTextView(w io.Writer, live bool) *textView {
	return &textView{w: w, live: live, bgReady: make(chan struct{}, 1)}
}

func (v *textView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, format, args...)
}

func (v *textView) ShowSuggestions(places []models.Place) {
	if len(places) == 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	renderPlaces(v.w, places)
}

func renderPlaces(w io.Writer, places []models.Place) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Place", "Coordinates", "Key"})
	for i, p := range places {
		t.AppendRow(table.Row{i + 1, p.Label, clock.FormatCoordinates(p.Lat, p.Lon), p.Key})
	}
	t.Render()
}

func (v *textView) ShowError(msg string) { v.printf("! %s\n", msg) }

func (v *textView) HideError() {}

func (v *textView) ShowPlace(place models.Place, favorite bool) {
	v.printf("▶ %s %s\n", place.Label, star(favorite))
}

func (v *textView) ShowFavoriteState(favorite bool) {
	v.printf("%s\n", star(favorite))
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

func (v *textView) ShowFavorites(list []models.Place) {
	v.mu.Lock()
	defer v.mu.Unlock()
	renderFavorites(v.w, list)
}

func renderFavorites(w io.Writer, list []models.Place) {
	if len(list) == 0 {
		fmt.Fprintln(w, session.MsgNoFavorites)
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Favorite", "Zone", "Key"})
	for i, p := range list {
		t.AppendRow(table.Row{i + 1, p.DisplayName(), p.TZ, p.Key})
	}
	t.Render()
}

func (v *textView) ShowBackground(url string) {
	v.mu.Lock()
	v.background = url
	if url == "" {
		url = "—"
	}
	fmt.Fprintf(v.w, "Şəkil: %s\n", url)
	v.mu.Unlock()

	select {
	case v.bgReady <- struct{}{}:
	default:
	}
}

// WaitBackground blocks until a background has been shown or ctx ends.
func (v *textView) WaitBackground(ctx context.Context) {
	select {
	case <-v.bgReady:
	case <-ctx.Done():
	}
}

func (v *textView) ShowFrame(f clock.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame, v.hasFrame = f, true
	if v.live {
		fmt.Fprintf(v.w, "%s  %s  %s  %s\n", f.Time, f.City, f.TZ, f.OffsetDiff)
	}
}

func (v *textView) ShowLocal(f clock.LocalFrame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.local = f
}

// PrintNow renders the latest frame as a detail table.
func (v *textView) PrintNow() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.hasFrame {
		fmt.Fprintln(v.w, "—")
		return
	}
	f := v.frame
	mode := "gündüz"
	if v.local.Night {
		mode = "gecə"
	}

	t := newTable(v.w)
	t.SetTitle(f.City)
	t.AppendRows([]table.Row{
		{"Saat", f.Time},
		{"Region", f.Region},
		{"Vaxt qurşağı", f.TZ},
		{"Fərq", f.OffsetDiff},
		{"Tarix", f.Date},
		{"Koordinatlar", f.Coordinates},
		{"Yerli vaxt", fmt.Sprintf("%s %s (%s)", v.local.Time, v.local.Zone, mode)},
	})
	t.Render()
}
