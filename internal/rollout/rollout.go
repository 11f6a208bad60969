package rollout

import "sort"

// InRollout reports whether a user is inside a flag's rollout percentage.
//
// Algorithm:
//  1. No rollout configured (nil) → always included, no hashing.
//  2. Rollout configured but no user identity → excluded. Anonymous
//     traffic has no stable bucket, so percentage rollouts fail closed.
//  3. Otherwise: GateBucket(flagKey, userID) < rollout.
//
// rollout=0 never passes (no bucket is below 0) and rollout=100 always
// passes (every bucket is below 100). Increasing the percentage only ever
// adds users; nobody already included is removed.
//
// The rollout value is assumed validated (0-100) by the write path.
func InRollout(flagKey string, rollout *int32, userID *string) bool {
	if rollout == nil {
		return true
	}
	if userID == nil {
		return false
	}
	return GateBucket(flagKey, *userID) < int(*rollout)
}

// SelectVariant picks a variant name by weight for the given selection
// point. Returns "" when there is nothing meaningful to pick (no variants,
// or all weights zero).
//
// Entries are walked in lexicographic name order with cumulative weights;
// the winner is the first name whose cumulative weight strictly exceeds
// point % total. Sorting fixes a canonical order: map iteration order
// would make the same point land on different variants between runs.
//
// Example: variants {a:50, b:30, c:20}, total 100:
//
//	point%100 in [0,49]  → a
//	point%100 in [50,79] → b
//	point%100 in [80,99] → c
//
// Weights are assumed non-negative; zero-weight variants are never picked.
func SelectVariant(variants map[string]uint32, point uint32) string {
	var total uint32
	for _, w := range variants {
		total += w
	}
	if total == 0 {
		return ""
	}

	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)

	n := point % total
	var cum uint32
	for _, name := range names {
		cum += variants[name]
		if n < cum {
			return name
		}
	}
	// Unreachable: n < total and the final cumulative weight equals total.
	return ""
}
