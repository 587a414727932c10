package service

import (
	"regexp"
	"strings"
)

// Unit vocabulary stripped before comparison. Order does not matter, every
// occurrence is removed as a whole word.
var unitWords = []string{
	"kg", "g", "l", "ml", "pc", "pcs", "can", "cans", "bt", "bottle", "bottles",
	"pk", "pack", "packs", "jar", "jars", "bag", "bags", "small", "big", "lb", "lbs", "oz",
}

var stopWords = []string{"for", "of", "the", "a", "an", "and", "to"}

var (
	reUnitWords = regexp.MustCompile(`(?i)\b(?:` + strings.Join(unitWords, "|") + `)\b`)
	reStopWords = regexp.MustCompile(`(?i)\b(?:` + strings.Join(stopWords, "|") + `)\b`)
	// letters, combining marks (Khmer vowels), digits, '_', whitespace, '-'
	reNonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]+`)
	reSpaces  = regexp.MustCompile(`[\s-]+`)
)

var unitSet = toSet(unitWords)

// Normalize canonicalizes a product name for comparison: case, units,
// stopwords, punctuation and a coarse trailing plural "s".
//
// The steps run until the string stops changing, so Normalize is idempotent
// even when stripping the plural uncovers a unit word ("kgs" -> "kg" -> "").
func Normalize(s string) string {
	out := normalizeOnce(s)
	for {
		next := normalizeOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func normalizeOnce(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = reUnitWords.ReplaceAllString(s, " ")
	s = reStopWords.ReplaceAllString(s, " ")
	s = reNonWord.ReplaceAllString(s, "")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	// "glass" keeps its double s; "gas" still becomes "ga"
	if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "s"))
	}
	return s
}

// compact drops all whitespace; substring and edit-distance stages compare
// names this way.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isUnit(w string) bool {
	_, ok := unitSet[strings.ToLower(w)]
	return ok
}
