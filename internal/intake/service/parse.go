package service

import (
	"regexp"
	"strings"

	"order-intake/internal/intake/model"
)

const StaffFoodCategory = "Staff Food"

// Section markers are compared after lowercasing and dropping punctuation,
// so "Staff food:" and "-- FOOD FOR STAFF --" both switch the section on.
var staffFoodMarkers = map[string]struct{}{
	"staff food":     {},
	"food staff":     {},
	"food for staff": {},
}

var reMarkerNoise = regexp.MustCompile(`[^\p{L}\s]+`)

// StaffFood is the category/supplier given to unmatched Khmer lines inside a
// staff-food section.
type StaffFood struct {
	Category string
	Supplier string
}

type Parser struct {
	matcher   *Matcher
	staffFood StaffFood
}

func NewParser(m *Matcher, sf StaffFood) *Parser {
	if sf.Category == "" {
		sf.Category = StaffFoodCategory
	}
	return &Parser{matcher: m, staffFood: sf}
}

// ParseLines turns pasted order text into one ParsedLine per non-blank,
// non-marker line, in input order. Blank input gives an empty result.
func (p *Parser) ParseLines(raw string, c *Catalog) []model.ParsedLine {
	raw = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(raw)
	out := make([]model.ParsedLine, 0)
	inStaffFood := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isStaffFoodMarker(line) {
			inStaffFood = true
			continue
		}
		out = append(out, p.parseLine(line, c, inStaffFood))
	}
	return out
}

func (p *Parser) parseLine(line string, c *Catalog, inStaffFood bool) model.ParsedLine {
	ex := Extract(line)
	pl := model.ParsedLine{
		ID:            model.NewID(),
		RawText:       line,
		ExtractedName: ex.Name,
		Quantity:      ex.Quantity,
		Unit:          ex.Unit,
	}
	if ex.Name != "" {
		if m, ok := p.matcher.Match(ex.Name, c); ok {
			pl.MatchedItem = m.Item
			pl.MatchStage = m.Stage
			pl.Score = m.Score
			pl.ResolvedSupplier = m.Item.SupplierName
			pl.ResolvedCategory = m.Item.Category
			return pl
		}
	}
	if inStaffFood && p.staffFood.Supplier != "" && HasKhmer(ex.Name) {
		pl.ResolvedCategory = p.staffFood.Category
		pl.ResolvedSupplier = p.staffFood.Supplier
	}
	return pl
}

func isStaffFoodMarker(line string) bool {
	s := collapseSpaces(reMarkerNoise.ReplaceAllString(strings.ToLower(line), " "))
	_, ok := staffFoodMarkers[s]
	return ok
}

// HasKhmer reports whether s contains a rune from the Khmer block U+1780-U+17FF.
func HasKhmer(s string) bool {
	for _, r := range s {
		if r >= 0x1780 && r <= 0x17FF {
			return true
		}
	}
	return false
}
