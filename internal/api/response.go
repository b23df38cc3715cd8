package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/store"
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

// storeError maps typed store failures to status codes. Anything
// unrecognized is a storage failure: logged, and reported as a 500 with
// the fallback message (no mutation has occurred in that case).
func storeError(w http.ResponseWriter, err error, fallback string) {
	var checkedOut *store.AlreadyCheckedOutError
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.As(err, &checkedOut):
		jsonError(w, http.StatusConflict, checkedOut.Error())
	case errors.Is(err, store.ErrNotCheckedOut),
		errors.Is(err, store.ErrMissingReason),
		errors.Is(err, store.ErrInvalidRequest),
		errors.Is(err, store.ErrCannotDeactivateSelf):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateBarcode),
		errors.Is(err, store.ErrDuplicateLogin),
		errors.Is(err, store.ErrAlreadyReviewed):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
