package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/telemetry"
)

// evaluateRequest is the body for POST /v1/evaluate. UserID distinguishes
// null/absent (anonymous) from the empty string, which is a valid
// identifier.
type evaluateRequest struct {
	Key    string  `json:"key"`
	UserID *string `json:"user_id"`
}

// handleEvaluate handles POST /v1/evaluate.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "key is required")
		return
	}

	flag, err := s.store.Get(r.Context(), req.Key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, fmt.Sprintf("flag %q not found", req.Key))
			return
		}
		InternalError(w, r, "failed to load flag")
		return
	}

	result := s.eval.Evaluate(*flag, req.UserID)
	telemetry.RecordEvaluation(result.Matched, result.Variant)
	writeJSON(w, http.StatusOK, result)
}
