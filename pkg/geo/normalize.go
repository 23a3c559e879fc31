package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that carry no combining mark and so survive NFD decomposition
var foldReplacer = strings.NewReplacer(
	"ə", "e",
	"ı", "i",
	"ö", "o",
	"ü", "u",
	"ç", "c",
	"ş", "s",
	"ğ", "g",
)

// Normalize lower-cases s, folds diacritics to ASCII, collapses runs of
// whitespace to one space and trims. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = foldReplacer.Replace(strings.ToLower(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
