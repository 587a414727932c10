package service

import (
	"regexp"
	"strings"

	"order-intake/internal/intake/model"
	"order-intake/internal/utils"
)

// quick entry accepts a few more unit spellings than the bulk parser
var quickUnitSet = toSet(append(append([]string(nil), unitWords...),
	"piece", "pieces", "box", "boxes", "dozen", "kilo", "kilos"))

var reQuick = regexp.MustCompile(`(?i)^(.+)\s+(\d+(?:[.,]\d+)?)\s*([\p{L}]+)?$`)

type QuickOrder struct {
	Item     *model.CatalogItem `json:"item"`
	Quantity float64            `json:"quantity"`
}

// ParseQuickOrder handles one-line entry such as "Egg 30" or "Rice 2 bags".
// Matching is deliberately plain: case-insensitive equality, then the first
// catalog name containing the search. It returns false when the line has no
// trailing quantity or nothing in the catalog fits.
func ParseQuickOrder(text string, catalog []model.CatalogItem) (QuickOrder, bool) {
	m := reQuick.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return QuickOrder{}, false
	}
	name := strings.TrimSpace(m[1])
	if fields := strings.Fields(name); len(fields) > 1 && isQuickUnit(fields[len(fields)-1]) {
		name = strings.Join(fields[:len(fields)-1], " ")
	}
	if name == "" {
		return QuickOrder{}, false
	}
	item := quickLookup(name, catalog)
	if item == nil {
		return QuickOrder{}, false
	}
	return QuickOrder{Item: item, Quantity: utils.PositiveQuantity(m[2])}, true
}

func quickLookup(name string, catalog []model.CatalogItem) *model.CatalogItem {
	search := strings.ToLower(name)
	for i := range catalog {
		if strings.ToLower(strings.TrimSpace(catalog[i].Name)) == search {
			return &catalog[i]
		}
	}
	for i := range catalog {
		if strings.Contains(strings.ToLower(catalog[i].Name), search) {
			return &catalog[i]
		}
	}
	return nil
}

func isQuickUnit(w string) bool {
	_, ok := quickUnitSet[strings.ToLower(w)]
	return ok
}
