package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/drazba/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store errors to HTTP statuses: missing things are 404,
// domain-rule rejections are 400 with the reason, anything else is an
// internal error logged with full detail.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrItemClosed),
		errors.Is(err, store.ErrBidTooLow),
		errors.Is(err, store.ErrBidNotHighest):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("store error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
