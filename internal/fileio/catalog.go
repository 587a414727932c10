package fileio

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"order-intake/internal/intake/model"
)

var ErrNoNameColumn = errors.New("catalog sheet has no name column")

// CatalogMapping names the sheet columns holding catalog fields. Each key may
// list alternatives separated by "|".
type CatalogMapping struct {
	NameKey     string
	CategoryKey string
	SupplierKey string
	HeaderRow   int
}

func DefaultCatalogMapping() CatalogMapping {
	return CatalogMapping{
		NameKey:     "name|item|product|item name",
		CategoryKey: "category|group|type",
		SupplierKey: "supplier|vendor|supplier name",
		HeaderRow:   1,
	}
}

// ReadCatalog reads a catalog sheet into creation requests, keeping sheet
// order. Rows without a name and repeated header rows are skipped. A row
// without a supplier keeps SupplierName empty.
func ReadCatalog(r io.Reader, filename string, m CatalogMapping) ([]model.NewCatalogItem, error) {
	def := DefaultCatalogMapping()
	if m.NameKey == "" {
		m.NameKey = def.NameKey
	}
	if m.CategoryKey == "" {
		m.CategoryKey = def.CategoryKey
	}
	if m.SupplierKey == "" {
		m.SupplierKey = def.SupplierKey
	}
	if m.HeaderRow <= 0 {
		m.HeaderRow = def.HeaderRow
	}

	recs, err := ReadAnyMaps(r, filename, m.HeaderRow)
	if err != nil {
		return nil, err
	}
	out := make([]model.NewCatalogItem, 0, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	nameKey := resolveKey(recs[0], m.NameKey)
	if nameKey == "" {
		return nil, fmt.Errorf("%w: want %q", ErrNoNameColumn, m.NameKey)
	}
	catKey := resolveKey(recs[0], m.CategoryKey)
	supKey := resolveKey(recs[0], m.SupplierKey)

	for _, rec := range recs {
		if looksLikeHeaderMap(rec) {
			continue
		}
		name := rec[nameKey]
		if name == "" {
			continue
		}
		item := model.NewCatalogItem{Name: name}
		if catKey != "" {
			item.Category = rec[catKey]
		}
		if supKey != "" {
			item.SupplierName = rec[supKey]
		}
		out = append(out, item)
	}
	return out, nil
}

// CatalogItems turns creation requests into an in-memory catalog with fresh
// IDs, for callers that do not persist the catalog.
func CatalogItems(reqs []model.NewCatalogItem) []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(reqs))
	for _, r := range reqs {
		cat := r.Category
		if cat == "" {
			cat = model.DefaultCategory
		}
		out = append(out, model.CatalogItem{
			ID:           model.NewID(),
			Name:         r.Name,
			Category:     cat,
			SupplierName: r.SupplierName,
		})
	}
	return out
}

var reHeaderNoise = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey lowercases a column name and drops punctuation.
func normHeaderKey(s string) string {
	s = strings.ToLower(normalizeCell(s))
	return strings.Join(strings.Fields(reHeaderNoise.ReplaceAllString(s, " ")), " ")
}

// resolveKey finds the actual key in rec for the wanted column. Alternatives
// are tried as is, then normalized, then by containment, longest wins.
func resolveKey(rec map[string]string, want string) string {
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}
	for _, a := range alts {
		if _, ok := rec[a]; ok && a != "" {
			return a
		}
	}

	norms := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			norms = append(norms, n)
		}
	}

	bestKey, bestScore := "", 0
	for k := range rec {
		nk := normHeaderKey(k)
		if nk == "" {
			continue
		}
		score := 0
		for _, n := range norms {
			if nk == n {
				return k
			}
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				score = max(score, len(n))
			}
		}
		// map order is random; break ties on the key itself
		if score > bestScore || (score == bestScore && score > 0 && k < bestKey) {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// looksLikeHeaderMap spots a header row repeated inside the data, as
// produced by exports that paginate.
func looksLikeHeaderMap(m map[string]string) bool {
	cnt := 0
	for k, v := range m {
		if v != "" && normHeaderKey(v) == normHeaderKey(k) {
			cnt++
		}
	}
	return cnt >= 2
}
