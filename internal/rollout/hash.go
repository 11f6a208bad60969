// Package rollout provides deterministic user bucketing for feature flag
// rollouts and weighted variant assignment.
package rollout

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Domain-separation tags. The gate decision and the variant pick for the
// same (flag, user) pair are derived from different digests so the two
// outcomes are not correlated: without separation, everyone in the first
// slice of a rollout would also land in the first variant.
const (
	gateTag    = ":"
	variantTag = "/"
)

// digest hashes flagKey || tag || userID with BLAKE3. The byte layout is
// fixed; any client re-implementing local evaluation must reproduce it
// exactly to get identical assignments.
func digest(flagKey, tag, userID string) [32]byte {
	buf := make([]byte, 0, len(flagKey)+len(tag)+len(userID))
	buf = append(buf, flagKey...)
	buf = append(buf, tag...)
	buf = append(buf, userID...)
	return blake3.Sum256(buf)
}

// GateBucket returns a deterministic bucket in [0,99] for the given user
// and flag. The same userID + flagKey combination always returns the same
// bucket, which is compared against the rollout percentage.
//
// The bucket is the first digest byte reduced mod 100. 256 does not divide
// evenly by 100, so buckets 0-55 occur with probability 3/256 and 56-99
// with 2/256; a 50% rollout therefore admits slightly more than half of
// identified users. Kept as-is for wire compatibility.
func GateBucket(flagKey, userID string) int {
	d := digest(flagKey, gateTag, userID)
	return int(d[0]) % 100
}

// VariantPoint returns the raw 32-bit selection value for variant
// assignment: the first four bytes of the variant digest as a little-endian
// unsigned integer. Callers reduce it modulo the total variant weight.
func VariantPoint(flagKey, userID string) uint32 {
	d := digest(flagKey, variantTag, userID)
	return binary.LittleEndian.Uint32(d[:4])
}
