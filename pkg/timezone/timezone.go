// Package timezone resolves the IANA time zone of a coordinate pair through
// the Open-Meteo forecast API, optionally falling back to an offline lookup.
package timezone

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bradfitz/latlong"
	"github.com/go-resty/resty/v2"

	"worldclock/pkg/restyutil"
)

// DefaultBaseURL is the public Open-Meteo API.
const DefaultBaseURL = "https://api.open-meteo.com"

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Options configures a Resolver.
type Options struct {
	restyutil.Options
	// OfflineFallback consults the bundled shape tables when the upstream
	// has no answer.
	OfflineFallback bool
}

// Resolver looks up time zones.
type Resolver struct {
	http    *resty.Client
	offline bool
	logger  *slog.Logger
}

// NewResolver returns a Resolver talking to Open-Meteo.
func NewResolver(opts Options) *Resolver {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		http:    restyutil.New(opts.Options),
		offline: opts.OfflineFallback,
		logger:  logger,
	}
}

// Resolve returns the zone identifier for the coordinates. A non-2xx status
// or a payload without a zone yields "" and a nil error; only transport
// failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
			"timezone":  "auto",
			"current":   "temperature_2m",
		}).
		Get("/v1/forecast")
	if err != nil {
		return "", fmt.Errorf("timezone lookup: %w", err)
	}

	if !resp.IsSuccess() {
		r.logger.Warn("timezone lookup rejected", "status", resp.StatusCode(), "lat", lat, "lon", lon)
		return r.fallback(lat, lon), nil
	}

	var body forecastResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		r.logger.Warn("timezone payload malformed", "err", err)
		return r.fallback(lat, lon), nil
	}
	if body.Timezone == "" {
		return r.fallback(lat, lon), nil
	}
	return body.Timezone, nil
}

func (r *Resolver) fallback(lat, lon float64) string {
	if !r.offline {
		return ""
	}
	zone := LookupOffline(lat, lon)
	if zone != "" {
		r.logger.Debug("timezone resolved offline", "zone", zone)
	}
	return zone
}

// LookupOffline resolves a zone from the tables compiled into latlong. It
// returns "" when the point is not covered.
func LookupOffline(lat, lon float64) string {
	zone := latlong.LookupZoneName(lat, lon)
	if zone == "tables not generated yet" {
		return ""
	}
	return zone
}
