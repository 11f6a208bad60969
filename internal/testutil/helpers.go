// Package testutil provides small helpers shared by HTTP and store tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkoval/flagpole/internal/store"
)

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedFlags populates the store with test flags.
func SeedFlags(ctx context.Context, t *testing.T, st store.Store, flags []store.CreateParams) {
	t.Helper()
	for _, f := range flags {
		if _, err := st.Create(ctx, f); err != nil {
			t.Fatalf("seed flag %q: %v", f.Key, err)
		}
	}
}

// RolloutOf returns a pointer to a rollout percentage, for literal use in
// fixtures.
func RolloutOf(p int32) *int32 { return &p }

// UserID returns a pointer to an identifier, for literal use in fixtures.
func UserID(id string) *string { return &id }
