package location

import (
	"context"
	"log/slog"

	"worldclock/internal/models"
	"worldclock/pkg/geo"
)

const (
	// DefaultLimit is the per-request result limit for search-as-you-type.
	DefaultLimit = 8
	// TightLimit is the per-request limit for an explicit submission.
	TightLimit = 5
	// DefaultCap bounds the merged candidate list.
	DefaultCap = 8
)

// DomesticMode decides whether the domestic-scoped request is issued.
type DomesticMode int

const (
	// DomesticAuto asks the locale heuristics.
	DomesticAuto DomesticMode = iota
	// DomesticAlways always issues the scoped request.
	DomesticAlways
	// DomesticNever only issues the global request.
	DomesticNever
)

// Options tunes a single ResolveCandidates call.
type Options struct {
	Limit    int
	Cap      int
	Domestic DomesticMode
}

// Resolver turns a free-text query into a ranked, deduplicated candidate list.
type Resolver struct {
	searcher Searcher
	domestic *geo.Domestic
	logger   *slog.Logger
}

// NewResolver wires a resolver. A nil domestic vocabulary selects the
// embedded default.
func NewResolver(searcher Searcher, domestic *geo.Domestic, logger *slog.Logger) *Resolver {
	if domestic == nil {
		domestic = geo.DefaultDomestic()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{searcher: searcher, domestic: domestic, logger: logger}
}

// ResolveCandidates searches domestically first when the query looks
// domestic, then globally, and merges both lists domestic-first. Any upstream
// failure aborts the whole resolution.
func (r *Resolver) ResolveCandidates(ctx context.Context, query string, opts Options) ([]models.Place, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Cap <= 0 {
		opts.Cap = DefaultCap
	}

	var domestic []models.Place
	if r.preferDomestic(query, opts.Domestic) {
		raw, err := r.searcher.Search(ctx, SearchParams{
			Query:        query,
			CountryCodes: r.domestic.Country,
			Limit:        opts.Limit,
		})
		if err != nil {
			return nil, err
		}
		domestic = MapPlaces(raw)
	}

	raw, err := r.searcher.Search(ctx, SearchParams{Query: query, Limit: opts.Limit})
	if err != nil {
		return nil, err
	}
	global := MapPlaces(raw)

	merged := MergeAndDedupe(domestic, global)
	if len(merged) > opts.Cap {
		merged = merged[:opts.Cap]
	}

	r.logger.Debug("resolved candidates",
		"query", query,
		"domestic", len(domestic),
		"global", len(global),
		"merged", len(merged),
	)
	return merged, nil
}

func (r *Resolver) preferDomestic(query string, mode DomesticMode) bool {
	switch mode {
	case DomesticAlways:
		return r.domestic.Country != ""
	case DomesticNever:
		return false
	default:
		return r.domestic.Country != "" && r.domestic.ShouldPreferDomestic(query)
	}
}

// MergeAndDedupe concatenates the lists and keeps the first place seen for
// each key.
func MergeAndDedupe(lists ...[]models.Place) []models.Place {
	seen := make(map[string]struct{})
	var out []models.Place
	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
