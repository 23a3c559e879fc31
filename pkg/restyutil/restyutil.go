// Package restyutil builds the resty clients shared by the upstream API
// packages: a base URL, a User-Agent, a timeout, optional rate limiting and
// debug logging of every exchange.
package restyutil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the client to public APIs that require it.
const DefaultUserAgent = "worldclock/1.0 (+https://github.com/worldclock)"

// Options configures New. Zero values select sensible defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond limits outgoing requests; <= 0 disables limiting.
	RequestsPerSecond float64
	// Transport replaces the default round tripper, mostly for tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// New returns a configured resty client.
func New(opts Options) *resty.Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.Debug("upstream response",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"took", res.Time(),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logger.Debug("upstream request failed", "method", req.Method, "url", req.URL, "err", err)
	})

	return client
}
