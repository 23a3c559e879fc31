package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"worldclock/pkg/restyutil"
)

// DefaultEndpoint is formatted with the language edition.
const DefaultEndpoint = "https://%s.wikipedia.org/w/api.php"

// ThumbSize is the rendition width requested for lead and file images.
const ThumbSize = 1600

// Client calls the MediaWiki action API of any language edition. Every call
// returns a zero value and a nil error when the API answers with a non-2xx
// status; only transport and decoding failures are errors.
type Client struct {
	http     *resty.Client
	endpoint string
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	restyutil.Options
	// Endpoint is a format string with one %s for the language code.
	Endpoint string
}

func NewClient(opts ClientOptions) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		http:     restyutil.New(opts.Options),
		endpoint: opts.Endpoint,
	}
}

func (c *Client) query(ctx context.Context, lang string, params map[string]string) (*APIResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("action", "query").
		SetQueryParam("format", "json").
		SetQueryParam("formatversion", "2").
		SetQueryParam("origin", "*").
		SetQueryParams(params).
		Get(fmt.Sprintf(c.endpoint, lang))
	if err != nil {
		return nil, fmt.Errorf("wikipedia %s: %w", lang, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, nil
	}

	var apiResp APIResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return nil, fmt.Errorf("wikipedia %s: decode response: %w", lang, err)
	}
	return &apiResp, nil
}

// SearchTitle returns the best full-text match for q, or "".
func (c *Client) SearchTitle(ctx context.Context, lang, q string) (string, error) {
	resp, err := c.query(ctx, lang, map[string]string{
		"list":     "search",
		"srsearch": q,
		"srlimit":  "1",
	})
	if err != nil || resp == nil || len(resp.Query.Search) == 0 {
		return "", err
	}
	return resp.Query.Search[0].Title, nil
}

// LeadImage returns the thumbnail URL of the article's designated image, or "".
func (c *Client) LeadImage(ctx context.Context, lang, title string) (string, error) {
	resp, err := c.query(ctx, lang, map[string]string{
		"titles":      title,
		"prop":        "pageimages",
		"pithumbsize": fmt.Sprint(ThumbSize),
	})
	if err != nil || resp == nil || len(resp.Query.Pages) == 0 {
		return "", err
	}
	if thumb := resp.Query.Pages[0].Thumbnail; thumb != nil {
		return thumb.Source, nil
	}
	return "", nil
}

// FetchImages lists one page of files embedded in the article.
func (c *Client) FetchImages(ctx context.Context, lang, title, imContinue string) (*APIResponse, error) {
	params := map[string]string{
		"titles":  title,
		"prop":    "images",
		"imlimit": "50",
	}
	if imContinue != "" {
		params["imcontinue"] = imContinue
	}
	return c.query(ctx, lang, params)
}

// FetchImageInfo returns URL, size and extended metadata for the given file
// titles. The API accepts at most 50 titles per call.
func (c *Client) FetchImageInfo(ctx context.Context, lang string, fileTitles []string) ([]Page, error) {
	if len(fileTitles) == 0 {
		return nil, nil
	}
	resp, err := c.query(ctx, lang, map[string]string{
		"titles":     strings.Join(fileTitles, "|"),
		"prop":       "imageinfo",
		"iiprop":     "url|size|extmetadata",
		"iiurlwidth": fmt.Sprint(ThumbSize),
	})
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Query.Pages, nil
}
