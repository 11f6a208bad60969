// Package evaluation decides whether a flag is active for a user and which
// variant applies.
//
// Evaluation is a pure function of the flag record and the optional user
// identifier: no I/O, no shared state, no clock. The same inputs always
// produce the same Result, and an Evaluator may be shared by any number of
// goroutines without synchronization. Records reaching this package are
// assumed already validated by the write path (rollout in [0,100], variant
// weights non-negative); there is nothing here that can fail.
package evaluation

import (
	"github.com/dkoval/flagpole/internal/rollout"
	"github.com/dkoval/flagpole/internal/store"
)

// AnonymousVariantPolicy controls which variant, if any, an evaluation
// without a user identifier is assigned. The question only arises for
// flags that carry variants but no rollout percentage: a configured
// rollout already excludes anonymous traffic at the gate.
type AnonymousVariantPolicy string

const (
	// AnonymousVariantNone assigns no variant to identifier-less
	// evaluations. This is the default: claiming a weighted pick without
	// a stable identity would silently bias toward one variant.
	AnonymousVariantNone AnonymousVariantPolicy = "none"

	// AnonymousVariantFirst assigns the variant at selection point 0,
	// i.e. the lexicographically first name with non-zero cumulative
	// weight. Matches the historical wire behavior; enable it when
	// existing clients depend on anonymous calls receiving a variant.
	AnonymousVariantFirst AnonymousVariantPolicy = "first"
)

// Result is the outcome of evaluating one flag for one identifier.
// Variant is empty unless the flag matched and a variant was selected;
// variant names are validated non-empty, so "" is unambiguous.
type Result struct {
	Key     string `json:"key"`
	Matched bool   `json:"matched"`
	Variant string `json:"variant,omitempty"`
}

// Evaluator evaluates flags. It is stateless apart from its configured
// anonymous-variant policy.
type Evaluator struct {
	anonVariant AnonymousVariantPolicy
}

// New creates an Evaluator with the given anonymous-variant policy.
// An unrecognized policy falls back to AnonymousVariantNone.
func New(policy AnonymousVariantPolicy) *Evaluator {
	if policy != AnonymousVariantFirst {
		policy = AnonymousVariantNone
	}
	return &Evaluator{anonVariant: policy}
}

// Evaluate computes the decision for one flag. userID may be nil
// (anonymous); note that nil is distinct from a pointer to the empty
// string, which is a valid, hashable identity.
//
// Order, each step short-circuiting to an unmatched result:
//  1. Disabled flag → not matched, regardless of anything else.
//  2. Rollout gate (rollout.InRollout) → not matched when outside.
//  3. Matched. If variants are configured, pick one by weight; a
//     zero-total weight map yields a match with no variant.
func (e *Evaluator) Evaluate(flag store.Flag, userID *string) Result {
	result := Result{Key: flag.Key}

	if !flag.Enabled {
		return result
	}
	if !rollout.InRollout(flag.Key, flag.Rollout, userID) {
		return result
	}

	result.Matched = true
	if len(flag.Variants) == 0 {
		return result
	}

	switch {
	case userID != nil:
		result.Variant = rollout.SelectVariant(flag.Variants, rollout.VariantPoint(flag.Key, *userID))
	case e.anonVariant == AnonymousVariantFirst:
		result.Variant = rollout.SelectVariant(flag.Variants, 0)
	}
	return result
}
