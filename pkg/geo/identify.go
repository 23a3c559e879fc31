package geo

import (
	_ "embed"
	"strings"

	"worldclock/pkg/vocab"
)

//go:embed domestic.json5
var domesticDefaults []byte

// DomesticVocabulary is the on-disk shape of the domestic locale data.
type DomesticVocabulary struct {
	Country      string   `json:"country"`
	Language     string   `json:"language"`
	SpecialChars string   `json:"specialChars"`
	Cities       []string `json:"cities"`
}

// Domestic holds the locale data used to decide whether a query names a
// place inside the home country.
type Domestic struct {
	DomesticVocabulary

	cities map[string]struct{}
}

var defaultDomestic = NewDomestic(vocab.MustDecode[DomesticVocabulary](domesticDefaults))

// DefaultDomestic returns the embedded domestic vocabulary.
func DefaultDomestic() *Domestic { return defaultDomestic }

// LoadDomestic returns the embedded vocabulary merged with the override file
// at path, if any.
func LoadDomestic(path string) (*Domestic, error) {
	d, err := vocab.Decode[DomesticVocabulary](domesticDefaults, path)
	if err != nil {
		return nil, err
	}
	return NewDomestic(d), nil
}

// NewDomestic indexes the city allow-list. Entries are normalized so the
// list may be written with native spelling.
func NewDomestic(v DomesticVocabulary) *Domestic {
	d := &Domestic{
		DomesticVocabulary: v,
		cities:             make(map[string]struct{}, len(v.Cities)),
	}
	for _, c := range v.Cities {
		d.cities[Normalize(c)] = struct{}{}
	}
	d.SpecialChars = strings.ToLower(v.SpecialChars)
	return d
}

// ShouldPreferDomestic reports whether query looks like a domestic place
// name: it contains a domestic-alphabet letter, or it is (after
// normalization) one of the known city names.
func (d *Domestic) ShouldPreferDomestic(query string) bool {
	raw := strings.ToLower(strings.TrimSpace(query))
	if raw == "" {
		return false
	}
	if d.SpecialChars != "" && strings.ContainsAny(raw, d.SpecialChars) {
		return true
	}
	return d.IsKnownCity(raw)
}

// IsKnownCity reports whether name is on the allow-list.
func (d *Domestic) IsKnownCity(name string) bool {
	_, ok := d.cities[Normalize(name)]
	return ok
}

// ShouldPreferDomestic uses the embedded vocabulary.
func ShouldPreferDomestic(query string) bool {
	return defaultDomestic.ShouldPreferDomestic(query)
}
