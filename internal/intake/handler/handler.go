// Package handler serves the order intake HTTP API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"order-intake/internal/fileio"
	"order-intake/internal/intake/dispatch"
	"order-intake/internal/intake/model"
	"order-intake/internal/intake/service"
	"order-intake/internal/middleware"
	"order-intake/internal/storage"
)

// CatalogStore is the catalog as the API sees it.
type CatalogStore interface {
	ListCatalog(ctx context.Context) ([]model.CatalogItem, error)
	ImportItems(ctx context.Context, reqs []model.NewCatalogItem) (int, error)
}

// OrderLister reads back dispatched orders.
type OrderLister interface {
	ListPendingOrders(ctx context.Context) ([]model.PendingOrder, error)
}

// Recorder receives pipeline counters. Nil disables them.
type Recorder interface {
	LinesParsed(total, unmatched int)
	Dispatch(outcome string)
}

type Handler struct {
	catalog   CatalogStore
	orders    OrderLister
	parser    *service.Parser
	sessions  *dispatch.Sessions
	rec       Recorder
	log       zerolog.Logger
	maxUpload int64
}

type Deps struct {
	Catalog     CatalogStore
	Orders      OrderLister
	Parser      *service.Parser
	Sessions    *dispatch.Sessions
	Recorder    Recorder
	Logger      zerolog.Logger
	MaxUploadMB int
}

func New(d Deps) *Handler {
	rec := d.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Handler{
		catalog:   d.Catalog,
		orders:    d.Orders,
		parser:    d.Parser,
		sessions:  d.Sessions,
		rec:       rec,
		log:       d.Logger,
		maxUpload: int64(max(d.MaxUploadMB, 1)) << 20,
	}
}

type nopRecorder struct{}

func (nopRecorder) LinesParsed(int, int) {}
func (nopRecorder) Dispatch(string)      {}

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP codes. Anything unknown is a 500.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dispatch.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrCollaborator):
		return http.StatusBadGateway
	case errors.Is(err, dispatch.ErrBoardNotFound),
		errors.Is(err, dispatch.ErrCardNotFound),
		errors.Is(err, dispatch.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, dispatch.ErrInvalidQuantity),
		errors.Is(err, dispatch.ErrInvalidSupplier),
		errors.Is(err, dispatch.ErrInvalidPosition),
		errors.Is(err, fileio.ErrUnsupportedFile),
		errors.Is(err, fileio.ErrNoNameColumn),
		errors.Is(err, storage.ErrInvalidItem):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) reqLogger(r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return h.log.With().Str("rid", rid).Logger()
	}
	return h.log
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	log := h.reqLogger(r)
	ev := log.Warn()
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		ev = log.Error()
		if code == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	ev.Err(err).Int("status", code).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
