package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"

	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/telemetry"
	"github.com/dkoval/flagpole/internal/validation"
)

// createFlagRequest is the body for POST /v1/flags.
type createFlagRequest struct {
	Key      string            `json:"key"`
	Enabled  bool              `json:"enabled"`
	Rollout  *int32            `json:"rollout"`
	Variants map[string]uint32 `json:"variants"`
}

// updateFlagRequest is the body for PATCH /v1/flags/{key}. Absent fields
// keep their stored values.
type updateFlagRequest struct {
	Enabled  *bool             `json:"enabled"`
	Rollout  *int32            `json:"rollout"`
	Variants map[string]uint32 `json:"variants"`
}

type listFlagsResponse struct {
	Flags []store.Flag `json:"flags"`
}

// handleListFlags handles GET /v1/flags with weak ETag support.
func (s *Server) handleListFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := s.store.List(r.Context())
	if err != nil {
		InternalError(w, r, "failed to list flags")
		return
	}
	if flags == nil {
		flags = []store.Flag{}
	}
	telemetry.FlagCount.Set(float64(len(flags)))

	body, err := json.Marshal(listFlagsResponse{Flags: flags})
	if err != nil {
		InternalError(w, r, "failed to encode flags")
		return
	}

	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleGetFlag handles GET /v1/flags/{key}.
func (s *Server) handleGetFlag(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	flag, err := s.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, fmt.Sprintf("flag %q not found", key))
			return
		}
		InternalError(w, r, "failed to load flag")
		return
	}
	writeJSON(w, http.StatusOK, flag)
}

// handleCreateFlag handles POST /v1/flags.
func (s *Server) handleCreateFlag(w http.ResponseWriter, r *http.Request) {
	var req createFlagRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if result := validation.ValidateFlag(req.Key, req.Rollout, req.Variants); !result.Valid {
		ValidationFailed(w, r, "invalid flag", result.Errors)
		return
	}

	flag, err := s.store.Create(r.Context(), store.CreateParams{
		Key:      req.Key,
		Enabled:  req.Enabled,
		Rollout:  req.Rollout,
		Variants: req.Variants,
	})
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			ConflictError(w, r, fmt.Sprintf("flag %q already exists", req.Key))
			return
		}
		InternalError(w, r, "failed to create flag")
		return
	}
	writeJSON(w, http.StatusCreated, flag)
}

// handleUpdateFlag handles PATCH /v1/flags/{key}.
func (s *Server) handleUpdateFlag(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req updateFlagRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result := validation.ValidateRollout(req.Rollout)
	result.Merge(validation.ValidateVariants(req.Variants))
	if !result.Valid {
		ValidationFailed(w, r, "invalid flag update", result.Errors)
		return
	}

	flag, err := s.store.Update(r.Context(), key, store.UpdateParams{
		Enabled:  req.Enabled,
		Rollout:  req.Rollout,
		Variants: req.Variants,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, fmt.Sprintf("flag %q not found", key))
			return
		}
		InternalError(w, r, "failed to update flag")
		return
	}
	writeJSON(w, http.StatusOK, flag)
}

// handleDeleteFlag handles DELETE /v1/flags/{key}.
func (s *Server) handleDeleteFlag(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.store.Delete(r.Context(), key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, fmt.Sprintf("flag %q not found", key))
			return
		}
		InternalError(w, r, "failed to delete flag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
