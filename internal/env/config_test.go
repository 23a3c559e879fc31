package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldclock/internal/storage"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Dev())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"az", "en", "tr"}, cfg.WikiLangs)
	assert.Equal(t, 350*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1.0, cfg.NominatimRPS)
	assert.Equal(t, "Bakı", cfg.DefaultQuery)
	assert.Equal(t, storage.DriverSQLite, cfg.Store.Driver)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.TZOfflineFallback)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WORLDCLOCK_APP_ENV", "prod")
	t.Setenv("WORLDCLOCK_LOG_LEVEL", "debug")
	t.Setenv("WORLDCLOCK_WIKI_LANGS", " en , az ")
	t.Setenv("WORLDCLOCK_DEBOUNCE", "1s")
	t.Setenv("WORLDCLOCK_STORE_DRIVER", "memory")
	t.Setenv("WORLDCLOCK_KAFKA_BROKER", "localhost:9092")
	t.Setenv("WORLDCLOCK_TZ_OFFLINE_FALLBACK", "true")
	t.Setenv("WORLDCLOCK_DOMESTIC_COUNTRY", " TR ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Dev())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"en", "az"}, cfg.WikiLangs)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.TZOfflineFallback)
	assert.Equal(t, "tr", cfg.DomesticCountry)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_query: London\nimage_cache_size: 16\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "London", cfg.DefaultQuery)
	assert.Equal(t, 16, cfg.ImageCacheSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"WORLDCLOCK_APP_ENV":       "staging",
		"WORLDCLOCK_LOG_LEVEL":     "loud",
		"WORLDCLOCK_WIKI_LANGS":    " , ",
		"WORLDCLOCK_WIKIPEDIA_URL": "https://en.wikipedia.org/w/api.php",
		"WORLDCLOCK_HTTP_TIMEOUT":  "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WORLDCLOCK_TEST_FROM_DOTENV=yes\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WORLDCLOCK_TEST_FROM_DOTENV") })

	LoadEnv(path)
	assert.Equal(t, "yes", os.Getenv("WORLDCLOCK_TEST_FROM_DOTENV"))

	// a missing file is tolerated
	assert.NotPanics(t, func() { LoadEnv(filepath.Join(t.TempDir(), "nope.env")) })
}
