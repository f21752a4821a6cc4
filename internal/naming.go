package internal

import (
	"regexp"
	"strings"
)

// DefaultNameMaxLength is the display limit for derived session names
const DefaultNameMaxLength = 18

// wordBoundaryRatio is the earliest position, as a fraction of the limit,
// at which a word boundary is accepted as the cut point.
const wordBoundaryRatio = 0.6

// lineBreaks matches a run of whitespace holding a tab or line break
var lineBreaks = regexp.MustCompile(`[ ]*[\t\n\v\f\r][\t\n\v\f\r ]*`)

// DeriveSessionName turns the first user message into a tab name.
//
// Line breaks and tabs become single spaces and the ends are trimmed, while
// runs of plain spaces are kept. Text within maxLen runes is kept as is.
// Longer text is cut at the last space at or before maxLen when that space
// sits at or beyond 60% of maxLen, otherwise it is hard-cut at maxLen. Cut
// names end in "...".
func DeriveSessionName(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultNameMaxLength
	}
	text = strings.TrimSpace(lineBreaks.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	cut := maxLen
	if boundary := lastSpace(runes[:maxLen+1]); boundary >= 0 &&
		float64(boundary) >= wordBoundaryRatio*float64(maxLen) {
		cut = boundary
	}

	return strings.TrimRight(string(runes[:cut]), " ") + "..."
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
