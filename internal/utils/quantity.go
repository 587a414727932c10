package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseQuantity parses "4", "1.5", "1,5", "1 200" (NBSP/NNBSP included).
// ok is false when nothing numeric is left after cleanup.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// PositiveQuantity clamps anything unparseable, zero or negative to 1.
func PositiveQuantity(s string) float64 {
	f, ok := ParseQuantity(s)
	if !ok || f <= 0 {
		return 1
	}
	return f
}
