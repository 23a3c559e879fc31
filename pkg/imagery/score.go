package imagery

import (
	"strings"

	"worldclock/pkg/wikipedia"
)

// Scoring weights.
const (
	RejectScore     = -100
	AcceptThreshold = 8

	ScenicBonus   = 5
	PeoplePenalty = 4

	WideRatio       = 1.35
	WideBonus       = 8
	ModerateRatio   = 1.15
	ModerateBonus   = 4
	PortraitPenalty = 6

	LargeSidePx = 1200
	LargeBonus  = 2

	DescriptionBonus = 2
	KeywordsBonus    = 1
)

// Candidate is an encyclopedia file considered as a background.
type Candidate struct {
	FileTitle   string
	URL         string
	Width       int
	Height      int
	Description string
	Categories  string
	Keywords    string
}

// CandidateFromFile adapts a resolved encyclopedia file.
func CandidateFromFile(f wikipedia.FileInfo) Candidate {
	return Candidate{
		FileTitle:   f.Title,
		URL:         f.URL,
		Width:       f.Width,
		Height:      f.Height,
		Description: f.Description,
		Categories:  f.Categories,
		Keywords:    f.Keywords,
	}
}

func (c Candidate) text() string {
	return strings.ToLower(strings.Join([]string{c.FileTitle, c.Description, c.Categories, c.Keywords}, " "))
}

// Score rates how well c works as a scenic background. It is a pure function
// of the candidate and the vocabulary.
func (w *Words) Score(c Candidate) int {
	text := c.text()
	if wikipedia.ContainsAny(text, w.Reject) {
		return RejectScore
	}

	score := 0
	for _, term := range w.Scenic {
		if strings.Contains(text, term) {
			score += ScenicBonus
		}
	}
	for _, term := range w.People {
		if strings.Contains(text, term) {
			score -= PeoplePenalty
		}
	}

	if c.Width > 0 && c.Height > 0 {
		ratio := float64(c.Width) / float64(c.Height)
		switch {
		case ratio >= WideRatio:
			score += WideBonus
		case ratio >= ModerateRatio:
			score += ModerateBonus
		case ratio < 1:
			score -= PortraitPenalty
		}
		if max(c.Width, c.Height) >= LargeSidePx {
			score += LargeBonus
		}
	}

	if strings.TrimSpace(c.Description) != "" {
		score += DescriptionBonus
	}
	if strings.TrimSpace(c.Keywords) != "" {
		score += KeywordsBonus
	}
	return score
}

// Score rates c with the embedded vocabulary.
func Score(c Candidate) int {
	return defaultWords.Score(c)
}

// Best returns the highest scoring candidate; ties keep the earlier one.
// ok is false for an empty slice.
func (w *Words) Best(candidates []Candidate) (best Candidate, score int, ok bool) {
	for _, c := range candidates {
		s := w.Score(c)
		if !ok || s > score {
			best, score, ok = c, s, true
		}
	}
	return best, score, ok
}

// Accepted reports whether a score clears the acceptance threshold.
func Accepted(score int) bool {
	return score >= AcceptThreshold
}
