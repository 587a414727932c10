package service

import (
	"regexp"
	"sort"
	"strings"

	"order-intake/internal/utils"
)

// Extraction is the product-name / quantity split of a single line.
// Name is empty when nothing usable is left (e.g. the line was a bare number).
type Extraction struct {
	Name     string
	Quantity float64
	Unit     string
	Strategy string // attached | trailing | leading | bare | none
}

const numPattern = `(\d+(?:[.,]\d+)?)`

// longest first so alternations never stop at a prefix ("pc" vs "pcs")
var unitAlt = func() string {
	u := append([]string(nil), unitWords...)
	sort.SliceStable(u, func(i, j int) bool { return len(u[i]) > len(u[j]) })
	return strings.Join(u, "|")
}()

var (
	// "Cucumber4pcs", "Milk1.5l", "Tomato4"
	reAttached = regexp.MustCompile(`(?i)^(.*[^\d\s.,])` + numPattern + `([\p{L}]*)$`)
	// "Egg 30 pcs", "Tomato 5", "Rice 2kg"
	reSpacedTrailing = regexp.MustCompile(`(?i)^(.+?)\s+` + numPattern + `\s*(?:(` + unitAlt + `)\b)?$`)
	// "30 pcs Egg", "2 Chicken", "500g Sugar"
	reLeading = regexp.MustCompile(`(?i)^` + numPattern + `\s*(?:(` + unitAlt + `)\b\.?)?\s*([^\d\s.,].*)$`)
	// "Tomato (5)", "Egg 30 pcs.", "Onion - 3kg;"
	reTrailingBare = regexp.MustCompile(`(?i)^(.*?[^\d\s.,])[\s\pP]*?` + numPattern + `\s*(?:(` + unitAlt + `)\b)?[\s\pP]*$`)

	reMultiplierEdge = regexp.MustCompile(`(?i)^(?:x|×|\*)\s+|\s+(?:x|×|\*)$`)
	reEdgeSeparators = regexp.MustCompile(`^[\s:;,=*×\-–]+|[\s:;,=*×\-–(]+$`)
	reNumericOnly    = regexp.MustCompile(`^[\d\s.,]*$`)
)

type extractor struct {
	name string
	run  func(line string) (name, qty, unit string, ok bool)
}

// Order matters: the patterns overlap and the first hit wins.
var extractors = []extractor{
	{name: "attached", run: extractAttached},
	{name: "trailing", run: extractSpacedTrailing},
	{name: "leading", run: extractLeading},
	{name: "bare", run: extractTrailingBare},
}

// Extract separates quantity and unit from the product name in one line.
// Quantity falls back to 1 and is never zero or negative.
func Extract(line string) Extraction {
	line = strings.TrimSpace(line)
	for _, ex := range extractors {
		name, qty, unit, ok := ex.run(line)
		if !ok {
			continue
		}
		return Extraction{
			Name:     cleanName(name),
			Quantity: utils.PositiveQuantity(qty),
			Unit:     strings.ToLower(unit),
			Strategy: ex.name,
		}
	}
	return Extraction{Name: cleanName(line), Quantity: 1, Strategy: "none"}
}

func extractAttached(line string) (string, string, string, bool) {
	m := reAttached.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	// trailing letters must be a unit, otherwise the digits are part of the name
	if m[3] != "" && !isUnit(m[3]) {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

func extractSpacedTrailing(line string) (string, string, string, bool) {
	m := reSpacedTrailing.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

func extractLeading(line string) (string, string, string, bool) {
	m := reLeading.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return m[3], m[1], m[2], true
}

func extractTrailingBare(line string) (string, string, string, bool) {
	m := reTrailingBare.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

func cleanName(name string) string {
	name = reUnitWords.ReplaceAllString(name, " ")
	name = collapseSpaces(name)
	name = reMultiplierEdge.ReplaceAllString(name, "")
	name = reEdgeSeparators.ReplaceAllString(name, "")
	name = collapseSpaces(name)
	if reNumericOnly.MatchString(name) {
		return ""
	}
	return name
}
