package wikipedia

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// maxImagePages bounds how many continuation pages of an article's file list
// are read while looking for candidates.
const maxImagePages = 3

// FileInfo is a file with its resolved rendition and plain-text metadata.
type FileInfo struct {
	Title       string
	URL         string
	Width       int
	Height      int
	Description string
	Categories  string
	Keywords    string
}

// ImageService composes Client calls into the lookups the image selector needs.
type ImageService struct {
	client *Client
}

func NewImageService(client *Client) *ImageService {
	return &ImageService{client: client}
}

// SearchTitle proxies Client.SearchTitle.
func (s *ImageService) SearchTitle(ctx context.Context, lang, q string) (string, error) {
	return s.client.SearchTitle(ctx, lang, q)
}

// LeadImage proxies Client.LeadImage.
func (s *ImageService) LeadImage(ctx context.Context, lang, title string) (string, error) {
	return s.client.LeadImage(ctx, lang, title)
}

// CandidateFiles walks the article's file list until the extractor is
// satisfied or the list is exhausted.
func (s *ImageService) CandidateFiles(ctx context.Context, lang, title string, extractor *FileExtractor) ([]string, error) {
	var all []ImageRef
	imContinue := ""
	for page := 0; page < maxImagePages; page++ {
		resp, err := s.client.FetchImages(ctx, lang, title, imContinue)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			break
		}
		for _, p := range resp.Query.Pages {
			all = append(all, p.Images...)
		}
		imContinue = resp.Continue.IMContinue
		if imContinue == "" || extractor.full(extractor.ExtractFiles(all)) {
			break
		}
	}
	return extractor.ExtractFiles(all), nil
}

// FileInfos resolves the files and flattens their metadata to plain text.
// Files without image info or URL are skipped.
func (s *ImageService) FileInfos(ctx context.Context, lang string, fileTitles []string) ([]FileInfo, error) {
	pages, err := s.client.FetchImageInfo(ctx, lang, fileTitles)
	if err != nil {
		return nil, err
	}

	var out []FileInfo
	for _, p := range pages {
		if len(p.ImageInfo) == 0 {
			continue
		}
		ii := p.ImageInfo[0]
		info := FileInfo{
			Title:       p.Title,
			URL:         firstNonEmpty(ii.ThumbURL, ii.URL),
			Width:       firstPositive(ii.ThumbWidth, ii.Width),
			Height:      firstPositive(ii.ThumbHeight, ii.Height),
			Description: StripHTML(ii.ExtMetadata["ImageDescription"].String()),
			Categories:  StripHTML(ii.ExtMetadata["Categories"].String()),
			Keywords:    StripHTML(ii.ExtMetadata["Keywords"].String()),
		}
		if info.URL == "" {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	// tags separate words, so every text node is joined with a space
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
