package location

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-resty/resty/v2"

	"worldclock/pkg/restyutil"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrResolve wraps every transport, status or decoding failure of a search.
var ErrResolve = errors.New("place resolution failed")

// NominatimPlace is one record of a jsonv2 search response.
type NominatimPlace struct {
	PlaceID     int64             `json:"place_id"`
	OsmType     string            `json:"osm_type"`
	OsmID       int64             `json:"osm_id"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	PlaceRank   int               `json:"place_rank"`
	Importance  float64           `json:"importance"`
	AddressType string            `json:"addresstype"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	NameDetails map[string]string `json:"namedetails"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
		Region       string `json:"region"`
		Province     string `json:"province"`
		Country      string `json:"country"`
		CountryCode  string `json:"country_code"`
	} `json:"address"`
}

// Coordinates parses the string coordinates of the record.
func (p NominatimPlace) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("lat %q: %w", p.Lat, err)
	}
	lon, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("lon %q: %w", p.Lon, err)
	}
	return lat, lon, nil
}

// SearchParams describes one geocoding request.
type SearchParams struct {
	Query string
	// CountryCodes scopes the search, e.g. "az". Empty means global.
	CountryCodes string
	Limit        int
}

// Searcher is the geocoding contract the resolver depends on.
type Searcher interface {
	Search(ctx context.Context, params SearchParams) ([]NominatimPlace, error)
}

// Client talks to a Nominatim instance.
type Client struct {
	http           *resty.Client
	acceptLanguage string
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	restyutil.Options
	// AcceptLanguage is sent both as header and query parameter.
	AcceptLanguage string
}

// NewClient returns a Nominatim client. Nominatim's usage policy asks for at
// most one request per second, which is the default rate.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = "az,en"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		http:           restyutil.New(opts.Options),
		acceptLanguage: opts.AcceptLanguage,
	}
}

// Search runs a free-text search. A non-2xx status is an error; a body that
// is not a JSON array yields no records.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]NominatimPlace, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept-Language", c.acceptLanguage+";q=0.8").
		SetQueryParams(map[string]string{
			"format":          "jsonv2",
			"q":               params.Query,
			"addressdetails":  "1",
			"namedetails":     "1",
			"limit":           strconv.Itoa(limit),
			"accept-language": c.acceptLanguage,
			"dedupe":          "1",
			"extratags":       "1",
		})
	if params.CountryCodes != "" {
		req.SetQueryParam("countrycodes", params.CountryCodes)
	}

	resp, err := req.Get("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolve, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: nominatim status %s", ErrResolve, resp.Status())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '[' {
		return nil, nil
	}

	var results []NominatimPlace
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: decode nominatim response: %v", ErrResolve, err)
	}
	return results, nil
}
