package handler

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"order-intake/internal/fileio"
	"order-intake/internal/intake/model"
	"order-intake/internal/intake/service"
)

type textRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Lines []model.ParsedLine   `json:"lines"`
	Cards []model.DispatchCard `json:"cards"`
}

// Parse runs pasted or uploaded order text through the pipeline against the
// current catalog and returns the lines with their grouping.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	lines, err := h.parseRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Lines: lines, Cards: service.Group(lines)})
}

type quickResponse struct {
	Item     model.CatalogItem `json:"item"`
	Quantity float64           `json:"quantity"`
}

// Quick resolves a single "name qty [unit]" entry. No match is a 404.
func (h *Handler) Quick(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.catalog.ListCatalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, ok := service.ParseQuickOrder(req.Text, items)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no catalog item matches %q", req.Text)})
		return
	}
	writeJSON(w, http.StatusOK, quickResponse{Item: *q.Item, Quantity: q.Quantity})
}

func (h *Handler) parseRequest(r *http.Request) ([]model.ParsedLine, error) {
	start := time.Now()
	text, err := h.readOrderText(r)
	if err != nil {
		return nil, err
	}
	items, err := h.catalog.ListCatalog(r.Context())
	if err != nil {
		return nil, err
	}
	lines := h.parser.ParseLines(text, service.NewCatalog(items))

	unmatched := 0
	for _, l := range lines {
		if !l.Matched() {
			unmatched++
		}
	}
	h.rec.LinesParsed(len(lines), unmatched)
	log := h.reqLogger(r)
	log.Info().
		Int("lines", len(lines)).
		Int("unmatched", unmatched).
		Int("catalog", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("order parsed")
	return lines, nil
}

// readOrderText accepts JSON {"text": ...}, or a multipart form with either
// a "file" upload or a "text" field.
func (h *Handler) readOrderText(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "multipart/") {
		var req textRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
		return req.Text, nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return "", fmt.Errorf("%w: multipart form: %w", errBadRequest, err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		if text := r.FormValue("text"); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%w: need a file or text field", errBadRequest)
	}
	defer func() { _ = file.Close() }()
	text, err := fileio.DecodeText(file)
	if err != nil {
		return "", fmt.Errorf("%w: decode upload: %w", errBadRequest, err)
	}
	return text, nil
}
