package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"order-intake/internal/intake/dispatch"
	"order-intake/internal/intake/model"
	"order-intake/internal/intake/service"
)

type boardResponse struct {
	ID    string               `json:"id"`
	Cards []model.DispatchCard `json:"cards"`
}

// CreateBoard parses the order text like Parse and opens an editable board
// over the grouped cards.
func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	lines, err := h.parseRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b := h.sessions.Open(service.Group(lines))
	writeJSON(w, http.StatusCreated, boardResponse{ID: b.ID, Cards: b.Cards()})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, boardResponse{ID: b.ID, Cards: b.Cards()})
}

func (h *Handler) CloseBoard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	h.sessions.Close(b.ID)
	w.WriteHeader(http.StatusNoContent)
}

type supplierRequest struct {
	SupplierName string `json:"supplierName"`
}

func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	card, err := b.AddCard(r.Context(), req.SupplierName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) RenameCard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	cardID := chi.URLParam(r, "card")
	if err := b.RenameSupplier(r.Context(), cardID, req.SupplierName); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeCard(w, r, b, cardID)
}

func (h *Handler) DiscardCard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	if err := b.Discard(chi.URLParam(r, "card")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addItemRequest adds either a catalog item (by ID) or a typed name.
type addItemRequest struct {
	ItemID   string  `json:"itemId,omitempty"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	line := model.ParsedLine{
		ExtractedName: strings.TrimSpace(req.Name),
		Quantity:      req.Quantity,
		Unit:          req.Unit,
	}
	switch {
	case req.ItemID != "":
		items, err := h.catalog.ListCatalog(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		item, found := findItem(items, req.ItemID)
		if !found {
			h.fail(w, r, fmt.Errorf("%w: catalog item %s", dispatch.ErrItemNotFound, req.ItemID))
			return
		}
		line.MatchedItem = &item
		line.ResolvedCategory = item.Category
		line.ResolvedSupplier = item.SupplierName
		if line.ExtractedName == "" {
			line.ExtractedName = item.Name
		}
	case line.ExtractedName == "":
		h.fail(w, r, fmt.Errorf("%w: itemId or name is required", errBadRequest))
		return
	}

	saved, err := b.AddItem(r.Context(), chi.URLParam(r, "card"), line)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

type updateItemRequest struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Position *int     `json:"position,omitempty"`
}

// UpdateItem changes quantity and/or position within the card. Quantity is
// applied first; a bad position still leaves the new quantity in place.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Quantity == nil && req.Position == nil {
		h.fail(w, r, fmt.Errorf("%w: nothing to update", errBadRequest))
		return
	}
	cardID, itemID := chi.URLParam(r, "card"), chi.URLParam(r, "item")
	if req.Quantity != nil {
		if err := b.SetQuantity(cardID, itemID, *req.Quantity); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Position != nil {
		if err := b.ReorderItem(cardID, itemID, *req.Position); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.writeCard(w, r, b, cardID)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "card")
	if err := b.DeleteItem(cardID, chi.URLParam(r, "item")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeCard(w, r, b, cardID)
}

type moveRequest struct {
	ItemID     string `json:"itemId"`
	FromCardID string `json:"fromCardId"`
	ToCardID   string `json:"toCardId"`
}

func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := b.MoveItem(r.Context(), req.ItemID, req.FromCardID, req.ToCardID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boardResponse{ID: b.ID, Cards: b.Cards()})
}

type dispatchRequest struct {
	StoreTag string `json:"storeTag,omitempty"`
}

func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req dispatchRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	order, err := b.Dispatch(r.Context(), chi.URLParam(r, "card"), req.StoreTag)
	switch {
	case err == nil:
		h.rec.Dispatch("ok")
	case errors.Is(err, dispatch.ErrPrecondition):
		h.rec.Dispatch("rejected")
	case errors.Is(err, dispatch.ErrCollaborator):
		h.rec.Dispatch("failed")
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) board(w http.ResponseWriter, r *http.Request) (*dispatch.Board, bool) {
	b, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return b, true
}

func (h *Handler) writeCard(w http.ResponseWriter, r *http.Request, b *dispatch.Board, cardID string) {
	card, err := b.Card(cardID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func findItem(items []model.CatalogItem, id string) (model.CatalogItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return model.CatalogItem{}, false
}
