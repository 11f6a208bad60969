package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no flag exists for the requested key.
var ErrNotFound = errors.New("flag not found")

// ErrExists is returned by Create when the key is already taken.
var ErrExists = errors.New("flag already exists")

// Store defines the interface for flag persistence operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// List retrieves all flags, ordered by key.
	List(ctx context.Context) ([]Flag, error)

	// Get retrieves a single flag by its key.
	// Returns ErrNotFound if the flag does not exist.
	Get(ctx context.Context, key string) (*Flag, error)

	// Create inserts a new flag and returns the stored record.
	// Returns ErrExists if a flag with the same key already exists.
	Create(ctx context.Context, params CreateParams) (*Flag, error)

	// Update applies a partial update to an existing flag and returns the
	// merged record. Nil fields in params keep their stored values.
	// Returns ErrNotFound if the flag does not exist.
	Update(ctx context.Context, key string, params UpdateParams) (*Flag, error)

	// Delete removes a flag by key.
	// Returns ErrNotFound if the flag does not exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Flag is a stored feature flag record. A nil Rollout means the flag has no
// percentage gate (always passes); nil or empty Variants means no variant
// experiment is configured.
type Flag struct {
	ID        int64             `json:"id"`
	Key       string            `json:"key"`
	Enabled   bool              `json:"enabled"`
	Rollout   *int32            `json:"rollout,omitempty"`
	Variants  map[string]uint32 `json:"variants,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CreateParams contains the fields for creating a flag.
type CreateParams struct {
	Key      string            `json:"key"`
	Enabled  bool              `json:"enabled"`
	Rollout  *int32            `json:"rollout,omitempty"`
	Variants map[string]uint32 `json:"variants,omitempty"`
}

// UpdateParams contains the fields for a partial flag update. Each nil
// field leaves the stored value untouched. There is no way to unset a
// rollout or variants through an update; recreate the flag instead.
type UpdateParams struct {
	Enabled  *bool             `json:"enabled,omitempty"`
	Rollout  *int32            `json:"rollout,omitempty"`
	Variants map[string]uint32 `json:"variants,omitempty"`
}

// Clone returns a deep copy of the flag, so stored state is never aliased
// by callers mutating what they were handed.
func (f Flag) Clone() Flag {
	f.Rollout = cloneRollout(f.Rollout)
	f.Variants = cloneVariants(f.Variants)
	return f
}

// cloneVariants copies a variant map so stored state is never aliased by
// callers mutating what they were handed.
func cloneVariants(v map[string]uint32) map[string]uint32 {
	if v == nil {
		return nil
	}
	out := make(map[string]uint32, len(v))
	for name, weight := range v {
		out[name] = weight
	}
	return out
}

// cloneRollout copies an optional rollout value.
func cloneRollout(r *int32) *int32 {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

// now returns the store timestamp for a write.
func now() time.Time {
	return time.Now().UTC()
}
