package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"order-intake/internal/fileio"
	"order-intake/internal/intake/model"
)

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListCatalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type importResponse struct {
	Rows    int `json:"rows"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ImportCatalog loads a CSV/XLS/XLSX sheet into the catalog. Form fields
// name, category, supplier pick columns ("a|b" lists alternatives);
// header_row is 1-based; default_supplier fills blank supplier cells. Rows
// still without a supplier are skipped, or rejected when strict is set.
func (h *Handler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.reqLogger(r)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(w, r, fmt.Errorf("%w: multipart form: %w", errBadRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: missing file: %w", errBadRequest, err))
		return
	}
	defer func() { _ = file.Close() }()

	mapping := fileio.CatalogMapping{
		NameKey:     r.FormValue("name"),
		CategoryKey: r.FormValue("category"),
		SupplierKey: r.FormValue("supplier"),
		HeaderRow:   atoi(r.FormValue("header_row"), 1),
	}
	rows, err := fileio.ReadCatalog(file, header.Filename, mapping)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	defSupplier := strings.TrimSpace(r.FormValue("default_supplier"))
	strict := toBool(r.FormValue("strict"), false)
	reqs := make([]model.NewCatalogItem, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if row.SupplierName == "" {
			row.SupplierName = defSupplier
		}
		if row.SupplierName == "" || row.SupplierName == model.NewItemsSupplier {
			if strict {
				h.fail(w, r, fmt.Errorf("%w: row %d (%q) has no supplier", errBadRequest, i+1, row.Name))
				return
			}
			skipped++
			continue
		}
		reqs = append(reqs, row)
	}

	created, err := h.catalog.ImportItems(r.Context(), reqs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	log.Info().
		Str("file", header.Filename).
		Int("rows", len(rows)).
		Int("created", created).
		Int("skipped", skipped).
		Dur("elapsed", time.Since(start)).
		Msg("catalog import done")
	writeJSON(w, http.StatusOK, importResponse{Rows: len(rows), Created: created, Skipped: skipped})
}
