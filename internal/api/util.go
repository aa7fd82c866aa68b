package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quorumzone/dnsd/internal/zonecache"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

// normalizeName lowercases and strips the trailing dot from a URL path
// segment or body field, matching the form zone names are stored under.
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, ".")
	if n == "" {
		return "."
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r io.Reader, out any) error {
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// statusForMutation maps a zonecache/zonestore error to the HTTP status
// spec.md's route table assigns it for the create/upsert/delete family.
func statusForMutation(err error) int {
	switch {
	case errors.Is(err, zonestore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, zonestore.ErrAlreadyExists):
		return http.StatusConflict
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusForPatch maps the same errors for the PATCH route, whose table
// calls out 422 for schema/version violations instead of 400.
func statusForPatch(err error) int {
	switch {
	case errors.Is(err, zonestore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, zonecache.ErrVersionRequired), errors.Is(err, zonecache.ErrVersionMismatch):
		return http.StatusUnprocessableEntity
	case isValidationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	var verr *zonestore.ValidationError
	return errors.As(err, &verr)
}
