package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum   = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	reMultiSpace = regexp.MustCompile(`\s+`)
)

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize folds a level name for comparison: compatibility forms,
// accents, case and punctuation are all dropped.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Fold width/compatibility forms (full-width digits etc.)
	s = norm.NFKC.String(s)

	// é -> e, ñ -> n
	s = stripDiacritics(s)

	s = strings.ToLower(s)

	// Level names often carry decoration like "[v2]" or "~"; keep only
	// letters, digits and spaces.
	s = reNonAlnum.ReplaceAllString(s, " ")

	s = reMultiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
