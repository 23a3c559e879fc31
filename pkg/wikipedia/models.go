package wikipedia

import (
	"encoding/json"
	"fmt"
)

// APIResponse is the top-level envelope of an action=query call made with
// formatversion=2, including pagination info.
type APIResponse struct {
	Query    Query    `json:"query"`
	Continue Continue `json:"continue"`
}

// Continue holds the continuation token for the next images page.
type Continue struct {
	IMContinue string `json:"imcontinue"`
	Continue   string `json:"continue"`
}

// Query contains either full-text search hits or pages, depending on the request.
type Query struct {
	Search []SearchResult `json:"search"`
	Pages  []Page         `json:"pages"`
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	NS     int    `json:"ns"`
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// Page represents an article or a file page. Which fields are set depends on
// the requested props.
type Page struct {
	PageID    int         `json:"pageid"`
	NS        int         `json:"ns"`
	Title     string      `json:"title"`
	Missing   bool        `json:"missing"`
	Thumbnail *Thumbnail  `json:"thumbnail"`
	Images    []ImageRef  `json:"images"`
	ImageInfo []ImageInfo `json:"imageinfo"`
}

// Thumbnail is the lead image rendition of prop=pageimages.
type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageRef is a file embedded in an article (prop=images).
type ImageRef struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

// ImageInfo carries the URL, size and metadata of a file (prop=imageinfo).
type ImageInfo struct {
	URL         string                   `json:"url"`
	Width       int                      `json:"width"`
	Height      int                      `json:"height"`
	ThumbURL    string                   `json:"thumburl"`
	ThumbWidth  int                      `json:"thumbwidth"`
	ThumbHeight int                      `json:"thumbheight"`
	ExtMetadata map[string]MetadataField `json:"extmetadata"`
}

// MetadataField is one extmetadata entry. Values are usually HTML strings
// but may be numbers or booleans.
type MetadataField struct {
	Value  json.RawMessage `json:"value"`
	Source string          `json:"source"`
}

// String returns the raw value as text.
func (f MetadataField) String() string {
	if len(f.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Value, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(f.Value, &v); err != nil || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
