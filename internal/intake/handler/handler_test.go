package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"order-intake/internal/fileio"
	"order-intake/internal/intake/dispatch"
	"order-intake/internal/storage"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %w", dispatch.ErrPrecondition, dispatch.ErrEmptyCard), http.StatusConflict},
		{fmt.Errorf("%w: create pending order: boom", dispatch.ErrCollaborator), http.StatusBadGateway},
		{fmt.Errorf("board x: %w", dispatch.ErrBoardNotFound), http.StatusNotFound},
		{dispatch.ErrCardNotFound, http.StatusNotFound},
		{dispatch.ErrItemNotFound, http.StatusNotFound},
		{dispatch.ErrInvalidQuantity, http.StatusBadRequest},
		{dispatch.ErrInvalidSupplier, http.StatusBadRequest},
		{dispatch.ErrInvalidPosition, http.StatusBadRequest},
		{fileio.ErrUnsupportedFile, http.StatusBadRequest},
		{fmt.Errorf("row 2: %w", storage.ErrInvalidItem), http.StatusBadRequest},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	h := New(Deps{Logger: zerolog.Nop()})
	rec := httptest.NewRecorder()
	h.fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("secret path /var/db"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), dispatch.ErrInvalidQuantity)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"quantity must be positive"}`, rec.Body.String())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var req textRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"txt":"a"}`))
	assert.ErrorIs(t, decodeJSON(r, &req), errBadRequest)
}

func TestFormHelpers(t *testing.T) {
	assert.Equal(t, 3, atoi(" 3", 1))
	assert.Equal(t, 1, atoi("x", 1))
	assert.True(t, toBool("yes", false))
	assert.False(t, toBool("off", true))
	assert.True(t, toBool("", true))
}
