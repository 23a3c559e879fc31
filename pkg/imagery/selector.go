package imagery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"worldclock/internal/models"
	"worldclock/pkg/wikipedia"
)

const (
	// DefaultPhotoURL serves a random 1600x900 photo matching the query string.
	DefaultPhotoURL = "https://source.unsplash.com/1600x900/"

	// DefaultCacheSize bounds the number of places whose outcome is remembered.
	DefaultCacheSize = 512

	maxCandidateFiles = 40
)

// DefaultLanguages is the encyclopedia edition order, domestic first.
var DefaultLanguages = []string{"az", "en", "tr"}

var svgURL = regexp.MustCompile(`(?i)\.svg(\?|$)`)

// Source is the encyclopedia surface the selector needs.
type Source interface {
	SearchTitle(ctx context.Context, lang, q string) (string, error)
	LeadImage(ctx context.Context, lang, title string) (string, error)
	CandidateFiles(ctx context.Context, lang, title string, extractor *wikipedia.FileExtractor) ([]string, error)
	FileInfos(ctx context.Context, lang string, fileTitles []string) ([]wikipedia.FileInfo, error)
}

type Options struct {
	Languages []string
	// PhotoURL is the photo-service base. Empty disables the photo fallback.
	PhotoURL  string
	CacheSize int
	// CacheTTL of zero keeps entries for the process lifetime.
	CacheTTL time.Duration
	Words    *Words
	Logger   *slog.Logger
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		Languages: DefaultLanguages,
		PhotoURL:  DefaultPhotoURL,
		CacheSize: DefaultCacheSize,
	}
}

// outcome is a cached result; an empty URL records that nothing was found.
type outcome struct {
	URL string
}

// Selector picks a background image URL for a place.
type Selector struct {
	source    Source
	words     *Words
	extractor *wikipedia.FileExtractor
	languages []string
	photoURL  string
	cache     *expirable.LRU[string, outcome]
	logger    *slog.Logger
}

func NewSelector(source Source, opts Options) *Selector {
	if opts.Words == nil {
		opts.Words = DefaultWords()
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Selector{
		source:    source,
		words:     opts.Words,
		extractor: wikipedia.NewFileExtractor(opts.Words.FileBlocklist, maxCandidateFiles),
		languages: opts.Languages,
		photoURL:  opts.PhotoURL,
		cache:     expirable.NewLRU[string, outcome](opts.CacheSize, nil, opts.CacheTTL),
		logger:    opts.Logger.With("component", "imagery"),
	}
}

// SelectImageURL returns the background for place, or "" when nothing
// suitable exists. Outcomes, including "", are cached per place; transport
// failures are returned and leave the cache untouched.
func (s *Selector) SelectImageURL(ctx context.Context, place models.Place) (string, error) {
	key := place.CacheKey()
	if cached, ok := s.cache.Get(key); ok {
		return cached.URL, nil
	}

	u, err := s.selectImage(ctx, place)
	if err != nil {
		return "", err
	}
	s.cache.Add(key, outcome{URL: u})
	return u, nil
}

// Cached reports the cached outcome for place, if any.
func (s *Selector) Cached(place models.Place) (string, bool) {
	o, ok := s.cache.Peek(place.CacheKey())
	return o.URL, ok
}

func (s *Selector) selectImage(ctx context.Context, place models.Place) (string, error) {
	primary, fallback := Queries(place)

	u, err := s.fromEncyclopedia(ctx, primary)
	if err != nil || u != "" {
		return u, err
	}
	if fallback != primary {
		if u, err = s.fromEncyclopedia(ctx, fallback); err != nil || u != "" {
			return u, err
		}
	}

	if s.photoURL == "" {
		return "", nil
	}
	q := primary
	if q == "" {
		q = fallback
	}
	u = s.PhotoURL(q)
	s.logger.Debug("photo fallback", "place", place.CacheKey(), "url", u)
	return u, nil
}

// Queries returns the primary "city, country" query and the fallback
// city-or-label query for place.
func Queries(place models.Place) (primary, fallback string) {
	var parts []string
	for _, p := range []string{place.City, place.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	primary = strings.Join(parts, ", ")

	fallback = strings.TrimSpace(place.City)
	if fallback == "" {
		fallback = strings.TrimSpace(place.Label)
	}
	return primary, fallback
}

func (s *Selector) fromEncyclopedia(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}
	for _, lang := range s.languages {
		title, err := s.source.SearchTitle(ctx, lang, query)
		if err != nil {
			return "", fmt.Errorf("search %s %q: %w", lang, query, err)
		}
		if title == "" {
			continue
		}

		lead, err := s.source.LeadImage(ctx, lang, title)
		if err != nil {
			return "", fmt.Errorf("lead image %s %q: %w", lang, title, err)
		}
		if s.AcceptableLead(lead) {
			s.logger.Debug("lead image", "lang", lang, "title", title, "url", lead)
			return lead, nil
		}

		u, err := s.bestFile(ctx, lang, title)
		if err != nil {
			return "", err
		}
		if u != "" {
			return u, nil
		}
	}
	return "", nil
}

func (s *Selector) bestFile(ctx context.Context, lang, title string) (string, error) {
	files, err := s.source.CandidateFiles(ctx, lang, title, s.extractor)
	if err != nil {
		return "", fmt.Errorf("files %s %q: %w", lang, title, err)
	}
	if len(files) == 0 {
		return "", nil
	}

	infos, err := s.source.FileInfos(ctx, lang, files)
	if err != nil {
		return "", fmt.Errorf("file info %s %q: %w", lang, title, err)
	}
	candidates := make([]Candidate, 0, len(infos))
	for _, info := range infos {
		candidates = append(candidates, CandidateFromFile(info))
	}

	best, score, ok := s.words.Best(candidates)
	if !ok || !Accepted(score) {
		s.logger.Debug("no file accepted", "lang", lang, "title", title, "candidates", len(candidates), "best", score)
		return "", nil
	}
	s.logger.Debug("file accepted", "lang", lang, "title", title, "file", best.FileTitle, "score", score)
	return best.URL, nil
}

// AcceptableLead reports whether a lead image URL looks like a photograph.
func (s *Selector) AcceptableLead(u string) bool {
	if u == "" || svgURL.MatchString(u) {
		return false
	}
	return !wikipedia.ContainsAny(strings.ToLower(u), s.words.LeadBlocklist)
}

// PhotoURL builds the photo-service URL for query, enriched with scenic and
// landmark keywords.
func (s *Selector) PhotoURL(query string) string {
	return BuildPhotoURL(s.photoURL, query, s.words)
}

// BuildPhotoURL joins base and the enriched, percent-encoded query.
func BuildPhotoURL(base, query string, words *Words) string {
	q := strings.TrimSpace(query)
	if q == "" {
		q = "city"
	}
	parts := append([]string{q}, words.FallbackKeywords...)
	if extra := words.LandmarkKeywords(q); extra != "" {
		parts = append(parts, extra)
	}
	enriched := strings.Join(parts, " ")
	return base + "?" + strings.ReplaceAll(url.QueryEscape(enriched), "+", "%20")
}
