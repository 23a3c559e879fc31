package imagery

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"worldclock/pkg/geo"
	"worldclock/pkg/vocab"
)

//go:embed vocabulary.json5
var vocabularyDefaults []byte

// Landmark maps a city pattern to extra photo-search keywords.
type Landmark struct {
	Pattern  string `json:"pattern"`
	Keywords string `json:"keywords"`
}

// Vocabulary is the word data behind scoring and query enrichment.
type Vocabulary struct {
	Reject           []string   `json:"reject"`
	Scenic           []string   `json:"scenic"`
	People           []string   `json:"people"`
	FileBlocklist    []string   `json:"fileBlocklist"`
	LeadBlocklist    []string   `json:"leadBlocklist"`
	FallbackKeywords []string   `json:"fallbackKeywords"`
	Landmarks        []Landmark `json:"landmarks"`
}

type landmarkRule struct {
	re       *regexp.Regexp
	keywords string
}

// Words is a compiled Vocabulary.
type Words struct {
	Vocabulary
	landmarks []landmarkRule
}

var defaultWords = mustCompile(vocab.MustDecode[Vocabulary](vocabularyDefaults))

// DefaultWords returns the embedded vocabulary.
func DefaultWords() *Words { return defaultWords }

// LoadWords returns the embedded vocabulary merged with the override at path.
func LoadWords(path string) (*Words, error) {
	v, err := vocab.Decode[Vocabulary](vocabularyDefaults, path)
	if err != nil {
		return nil, err
	}
	return Compile(v)
}

// Compile lower-cases the lists and compiles the landmark patterns.
func Compile(v Vocabulary) (*Words, error) {
	w := &Words{Vocabulary: Vocabulary{
		Reject:           lower(v.Reject),
		Scenic:           lower(v.Scenic),
		People:           lower(v.People),
		FileBlocklist:    lower(v.FileBlocklist),
		LeadBlocklist:    lower(v.LeadBlocklist),
		FallbackKeywords: v.FallbackKeywords,
		Landmarks:        v.Landmarks,
	}}
	for _, l := range v.Landmarks {
		re, err := regexp.Compile(l.Pattern)
		if err != nil {
			return nil, fmt.Errorf("landmark pattern %q: %w", l.Pattern, err)
		}
		w.landmarks = append(w.landmarks, landmarkRule{re: re, keywords: l.Keywords})
	}
	return w, nil
}

func mustCompile(v Vocabulary) *Words {
	w, err := Compile(v)
	if err != nil {
		panic(err)
	}
	return w
}

// LandmarkKeywords returns the hint for the first landmark whose pattern
// matches the normalized query, or "".
func (w *Words) LandmarkKeywords(query string) string {
	n := geo.Normalize(query)
	if n == "" {
		return ""
	}
	for _, l := range w.landmarks {
		if l.re.MatchString(n) {
			return l.keywords
		}
	}
	return ""
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
