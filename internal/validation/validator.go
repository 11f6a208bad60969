// Package validation enforces the write-path invariants for flag records.
// Records that pass here are safe for the evaluator: key shape is fixed,
// rollout is within range, and variant weights cannot overflow a uint32
// total.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxKeyLength is the maximum length for flag keys.
	MaxKeyLength = 64
	// MaxVariantNameLength is the maximum length for variant names.
	MaxVariantNameLength = 64
	// MaxVariants is the maximum number of variants on a single flag.
	MaxVariants = 32
	// MaxVariantWeight caps a single weight so the total of MaxVariants
	// weights always fits in uint32.
	MaxVariantWeight = 1_000_000
	// MinRollout is the minimum rollout percentage.
	MinRollout = 0
	// MaxRollout is the maximum rollout percentage.
	MaxRollout = 100
)

// keyPattern matches alphanumeric characters, underscores, and hyphens.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Result holds the outcome of validation with per-field errors.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// NewResult creates an empty, valid result.
func NewResult() *Result {
	return &Result{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError records a field error and marks the result invalid.
func (r *Result) AddError(field, message string) {
	r.Valid = false
	r.Errors[field] = message
}

// Merge combines another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		r.AddError(field, message)
	}
}

// ValidateKey validates a flag key.
func ValidateKey(key string) *Result {
	result := NewResult()
	key = strings.TrimSpace(key)

	if key == "" {
		result.AddError("key", "key is required")
		return result
	}
	if len(key) > MaxKeyLength {
		result.AddError("key", fmt.Sprintf("key must be at most %d characters", MaxKeyLength))
		return result
	}
	if !keyPattern.MatchString(key) {
		result.AddError("key", "key may only contain letters, digits, underscores, and hyphens")
	}
	return result
}

// ValidateRollout validates an optional rollout percentage. A nil rollout
// is valid and means "no gating".
func ValidateRollout(rollout *int32) *Result {
	result := NewResult()
	if rollout == nil {
		return result
	}
	if *rollout < MinRollout || *rollout > MaxRollout {
		result.AddError("rollout", fmt.Sprintf("rollout must be between %d and %d", MinRollout, MaxRollout))
	}
	return result
}

// ValidateVariants validates a variant map. A nil or empty map is valid
// (no experiment configured), as is an all-zero-weight map.
func ValidateVariants(variants map[string]uint32) *Result {
	result := NewResult()
	if len(variants) == 0 {
		return result
	}
	if len(variants) > MaxVariants {
		result.AddError("variants", fmt.Sprintf("at most %d variants are allowed", MaxVariants))
		return result
	}

	for name, weight := range variants {
		if strings.TrimSpace(name) == "" {
			result.AddError("variants", "variant names cannot be empty")
			continue
		}
		if len(name) > MaxVariantNameLength {
			result.AddError("variants", fmt.Sprintf("variant name %q exceeds %d characters", name, MaxVariantNameLength))
		}
		if weight > MaxVariantWeight {
			result.AddError("variants", fmt.Sprintf("variant %q weight exceeds %d", name, MaxVariantWeight))
		}
	}
	return result
}

// ValidateFlag validates all writable flag fields together.
func ValidateFlag(key string, rollout *int32, variants map[string]uint32) *Result {
	result := NewResult()
	result.Merge(ValidateKey(key))
	result.Merge(ValidateRollout(rollout))
	result.Merge(ValidateVariants(variants))
	return result
}
