package env

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"worldclock/internal/storage"
)

// Prefix namespaces every environment variable.
const Prefix = "WORLDCLOCK"

type Kafka struct {
	Broker  string
	Topic   string
	GroupID string
}

// Enabled reports whether an event broker is configured.
func (k Kafka) Enabled() bool { return k.Broker != "" && k.Topic != "" }

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	UserAgent    string
	HTTPTimeout  time.Duration
	NominatimURL string
	NominatimRPS float64
	OpenMeteoURL string
	WikipediaURL string
	PhotoURL     string
	WikiLangs    []string

	DomesticCountry   string
	VocabFile         string
	ImageCacheSize    int
	Debounce          time.Duration
	TZOfflineFallback bool
	DefaultQuery      string
	LocalTZ           string

	Store storage.Config
	Kafka Kafka
}

// Dev reports whether the development environment is selected.
func (c Config) Dev() bool { return c.AppEnv == "dev" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("user_agent", "worldclock/1.0 (+https://github.com/worldclock)")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim_rps", 1.0)
	v.SetDefault("open_meteo_url", "https://api.open-meteo.com")
	v.SetDefault("wikipedia_url", "https://%s.wikipedia.org/w/api.php")
	v.SetDefault("photo_url", "https://source.unsplash.com/1600x900/")
	v.SetDefault("wiki_langs", "az,en,tr")
	v.SetDefault("domestic_country", "")
	v.SetDefault("vocab_file", "")
	v.SetDefault("image_cache_size", 512)
	v.SetDefault("debounce", "350ms")
	v.SetDefault("tz_offline_fallback", false)
	v.SetDefault("default_query", "Bakı")
	v.SetDefault("local_tz", "")

	v.SetDefault("store_driver", storage.DriverSQLite)
	v.SetDefault("sqlite_path", "worldclock.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_bucket", "worldclock")

	v.SetDefault("kafka_broker", "")
	v.SetDefault("kafka_topic", "worldclock-events")
	v.SetDefault("kafka_group_id", "worldclock-history")
}

// Load reads WORLDCLOCK_* variables, optionally layered over a config file.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(Prefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	appEnv := strings.TrimSpace(v.GetString("app_env"))
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v.GetString("log_level")))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	langs := splitList(v.GetString("wiki_langs"))
	if len(langs) == 0 {
		return Config{}, fmt.Errorf("WIKI_LANGS must name at least one language")
	}
	if !strings.Contains(v.GetString("wikipedia_url"), "%s") {
		return Config{}, fmt.Errorf("WIKIPEDIA_URL must contain %%s for the language")
	}

	cfg := Config{
		AppEnv:   appEnv,
		LogLevel: level,

		UserAgent:    v.GetString("user_agent"),
		HTTPTimeout:  v.GetDuration("http_timeout"),
		NominatimURL: v.GetString("nominatim_url"),
		NominatimRPS: v.GetFloat64("nominatim_rps"),
		OpenMeteoURL: v.GetString("open_meteo_url"),
		WikipediaURL: v.GetString("wikipedia_url"),
		PhotoURL:     v.GetString("photo_url"),
		WikiLangs:    langs,

		DomesticCountry:   strings.ToLower(strings.TrimSpace(v.GetString("domestic_country"))),
		VocabFile:         v.GetString("vocab_file"),
		ImageCacheSize:    v.GetInt("image_cache_size"),
		Debounce:          v.GetDuration("debounce"),
		TZOfflineFallback: v.GetBool("tz_offline_fallback"),
		DefaultQuery:      v.GetString("default_query"),
		LocalTZ:           v.GetString("local_tz"),

		Store: storage.Config{
			Driver:      v.GetString("store_driver"),
			SQLitePath:  v.GetString("sqlite_path"),
			PostgresDSN: v.GetString("postgres_dsn"),
			S3: storage.S3Options{
				Endpoint:  v.GetString("minio_endpoint"),
				AccessKey: v.GetString("minio_access_key"),
				SecretKey: v.GetString("minio_secret_key"),
				UseSSL:    v.GetBool("minio_use_ssl"),
				Bucket:    v.GetString("minio_bucket"),
			},
		},
		Kafka: Kafka{
			Broker:  v.GetString("kafka_broker"),
			Topic:   v.GetString("kafka_topic"),
			GroupID: v.GetString("kafka_group_id"),
		},
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
