package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldclock/internal/clock"
	"worldclock/internal/favorites"
	"worldclock/internal/models"
	"worldclock/internal/session"
	"worldclock/internal/storage"
	"worldclock/pkg/location"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"  Bakı ", command{arg: "Bakı"}},
		{"/go Quba, Azərbaycan", command{name: "go", arg: "Quba, Azərbaycan"}},
		{"/PICK 2", command{name: "pick", arg: "2"}},
		{"/fav", command{name: "fav"}},
		{"", command{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCommand(tt.line), tt.line)
	}
}

func TestPosition(t *testing.T) {
	n, err := position("3")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, bad := range []string{"", "0", "-1", "x"} {
		_, err := position(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatEvent(t *testing.T) {
	e := models.Event{
		Type:     models.EventImageSelected,
		Label:    "Quba, Azərbaycan",
		TZ:       "Asia/Baku",
		ImageURL: "https://upload.example/Quba.jpg",
		At:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	got := formatEvent(e)
	assert.True(t, strings.HasPrefix(got, "2024-03-01 09:30:00  image.selected"))
	assert.Contains(t, got, "Quba, Azərbaycan  Asia/Baku  https://upload.example/Quba.jpg")
}

func TestTextView(t *testing.T) {
	var buf bytes.Buffer
	v := newTextView(&buf, false)

	v.ShowFavorites(nil)
	assert.Contains(t, buf.String(), session.MsgNoFavorites)

	v.ShowSuggestions([]models.Place{{Key: "1", Label: "Bakı, Azərbaycan", Lat: 40.4093, Lon: 49.8671}})
	assert.Contains(t, buf.String(), "Bakı, Azərbaycan")
	assert.Contains(t, buf.String(), "40.40930, 49.86710")

	buf.Reset()
	v.PrintNow()
	assert.Equal(t, "—\n", buf.String())
	buf.Reset()

	v.ShowFrame(clock.Frame{Time: "12:00:00", City: "Bakı", TZ: "Asia/Baku", OffsetDiff: "Eyni vaxt"})
	assert.Empty(t, buf.String(), "frames are quiet unless live")
	v.PrintNow()
	assert.Contains(t, buf.String(), "Asia/Baku")
	assert.Contains(t, buf.String(), "Eyni vaxt")

	buf.Reset()
	v.ShowBackground("")
	assert.Equal(t, "Şəkil: —\n", buf.String())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v.WaitBackground(ctx)
	assert.NoError(t, ctx.Err())
}

type stubResolver map[string][]models.Place

func (s stubResolver) ResolveCandidates(_ context.Context, q string, _ location.Options) ([]models.Place, error) {
	return s[q], nil
}

type stubTZ struct{}

func (stubTZ) Resolve(context.Context, float64, float64) (string, error) { return "Asia/Baku", nil }

type stubImages struct{}

func (stubImages) SelectImageURL(context.Context, models.Place) (string, error) { return "", nil }

func TestInteract(t *testing.T) {
	baku := models.Place{Key: "1", City: "Bakı", Country: "Azərbaycan", Label: "Bakı, Azərbaycan", Lat: 40.4, Lon: 49.8}
	quba := models.Place{Key: "2", City: "Quba", Country: "Azərbaycan", Label: "Quba, Azərbaycan", Lat: 41.3, Lon: 48.5}

	var buf bytes.Buffer
	view := newTextView(&buf, false)
	repo := favorites.NewRepository(storage.NewMemory(), nil)
	s := session.New(session.Deps{
		Resolver:  stubResolver{"Bakı": {baku}, "Quba": {quba}},
		Timezone:  stubTZ{},
		Images:    stubImages{},
		Favorites: repo,
		View:      view,
	}, session.Options{Local: time.UTC, TickInterval: 10 * time.Millisecond})
	defer s.Close()

	input := strings.Join([]string{
		"/go Quba",
		"/fav",
		"/go Bakı",
		"/use 1",
		"/pick 9",
		"/bogus",
		"/quit",
		"/go Bakı",
	}, "\n")
	require.NoError(t, interact(context.Background(), strings.NewReader(input), s, view))

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "2", current.Key, "commands after /quit are ignored")
	require.Len(t, repo.Load(context.Background()), 1)
	assert.Contains(t, buf.String(), "! no such suggestion")
	assert.Contains(t, buf.String(), "! unknown command /bogus")
}
