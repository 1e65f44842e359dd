package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/internal/contacts"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/internal/store"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

// writeError maps service errors onto the error envelope. Anything
// unrecognised is logged with op and reported as a generic 500.
func writeError(w http.ResponseWriter, err error, op, notFound string) {
	var verr *contacts.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", verr.Error(),
			map[string]string{"field": verr.Field})
	case errors.Is(err, contacts.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", notFound, nil)
	case errors.Is(err, query.ErrInvalidSort), errors.Is(err, query.ErrInvalidParam):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, store.ErrConflict):
		response.Error(w, http.StatusConflict, "CONFLICT",
			"The contact list was changed by another writer, please retry", nil)
	default:
		slog.Error(op, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+op, nil)
	}
}
