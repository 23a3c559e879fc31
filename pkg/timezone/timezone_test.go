package timezone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldclock/pkg/restyutil"
)

func newTestResolver(serverURL string, offline bool) *Resolver {
	return NewResolver(Options{
		Options:         restyutil.Options{BaseURL: serverURL},
		OfflineFallback: offline,
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "zone present", status: http.StatusOK, body: `{"latitude":40.4,"longitude":49.8,"timezone":"Asia/Baku"}`, want: "Asia/Baku"},
		{name: "zone missing", status: http.StatusOK, body: `{"latitude":40.4}`, want: ""},
		{name: "malformed payload", status: http.StatusOK, body: `<html>`, want: ""},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":true,"reason":"Latitude must be in range"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := newTestResolver(server.URL, false).Resolve(context.Background(), 40.4, 49.8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_QueryParameters(t *testing.T) {
	var path string
	var q map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		q = r.URL.Query()
		_, _ = w.Write([]byte(`{"timezone":"Europe/Paris"}`))
	}))
	defer server.Close()

	_, err := newTestResolver(server.URL, false).Resolve(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, "/v1/forecast", path)
	assert.Equal(t, []string{"48.8566"}, q["latitude"])
	assert.Equal(t, []string{"2.3522"}, q["longitude"])
	assert.Equal(t, []string{"auto"}, q["timezone"])
}

func TestResolve_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	got, err := newTestResolver(url, false).Resolve(context.Background(), 1, 2)
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestResolve_OfflineFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	got, err := newTestResolver(server.URL, true).Resolve(context.Background(), 40.4093, 49.8671)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Baku", got)
}
