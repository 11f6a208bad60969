package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies; flag records are small.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes the request body into v, writing the appropriate
// error response on failure. Returns false when the request was rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RequestTooLargeError(w, r, "request body too large")
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return false
	}
	return true
}
