package wikipedia

import (
	"regexp"
	"strings"
)

var bitmapExt = regexp.MustCompile(`(?i)\.(jpe?g|png|webp)\b`)

// FileNamespace is the MediaWiki namespace of media files. Its title prefix
// is localized per edition ("File:", "Fayl:", "Dosya:").
const FileNamespace = 6

// FileExtractor picks photographic file titles out of an article's image
// list: bitmap formats only, nothing whose name matches the blocklist.
type FileExtractor struct {
	blocklisted []string
	max         int
}

// NewFileExtractor builds an extractor keeping at most max titles.
func NewFileExtractor(blocklisted []string, max int) *FileExtractor {
	lowered := make([]string, 0, len(blocklisted))
	for _, b := range blocklisted {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			lowered = append(lowered, b)
		}
	}
	return &FileExtractor{blocklisted: lowered, max: max}
}

// ExtractFiles returns the qualifying titles in listing order.
func (e *FileExtractor) ExtractFiles(images []ImageRef) []string {
	var files []string
	for _, img := range images {
		if e.full(files) {
			break
		}
		if e.include(img) {
			files = append(files, img.Title)
		}
	}
	return files
}

func (e *FileExtractor) full(files []string) bool {
	return e.max > 0 && len(files) >= e.max
}

func (e *FileExtractor) include(img ImageRef) bool {
	if img.NS != FileNamespace || !bitmapExt.MatchString(img.Title) {
		return false
	}
	return !ContainsAny(strings.ToLower(img.Title), e.blocklisted)
}

// ContainsAny reports whether s contains one of the (lower-case) terms.
func ContainsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
