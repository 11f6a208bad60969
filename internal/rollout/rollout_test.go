package rollout

import (
	"fmt"
	"testing"
)

func rolloutOf(p int32) *int32 { return &p }
func userOf(id string) *string { return &id }

func TestInRollout_NoRolloutConfigured(t *testing.T) {
	// nil rollout means no gating at all, identifier or not.
	if !InRollout("feature_x", nil, userOf("user-123")) {
		t.Error("expected pass with no rollout configured")
	}
	if !InRollout("feature_x", nil, nil) {
		t.Error("expected pass with no rollout and no identifier")
	}
}

func TestInRollout_NoIdentifierFailsClosed(t *testing.T) {
	for _, p := range []int32{0, 1, 50, 99, 100} {
		if InRollout("feature_x", rolloutOf(p), nil) {
			t.Errorf("expected fail-closed for rollout=%d with nil identifier", p)
		}
	}
}

func TestInRollout_Boundaries(t *testing.T) {
	for i := 0; i < 200; i++ {
		userID := fmt.Sprintf("user-%d", i)
		if InRollout("feature_x", rolloutOf(0), userOf(userID)) {
			t.Fatalf("rollout=0 passed for %q", userID)
		}
		if !InRollout("feature_x", rolloutOf(100), userOf(userID)) {
			t.Fatalf("rollout=100 failed for %q", userID)
		}
	}
}

func TestInRollout_Monotonic(t *testing.T) {
	// For a fixed (key, id), raising the percentage may flip the gate
	// from false to true exactly once, never back.
	userID := userOf("user1")
	prev := false
	transitions := 0
	for p := int32(0); p <= 100; p++ {
		cur := InRollout("new-ui", rolloutOf(p), userID)
		if cur != prev {
			if prev && !cur {
				t.Fatalf("gate went true->false at rollout=%d", p)
			}
			transitions++
			prev = cur
		}
	}
	if transitions != 1 {
		t.Errorf("expected exactly one false->true transition, got %d", transitions)
	}

	// Pinned: bucket for (new-ui, user1) is 53, so the flip is at 54.
	if InRollout("new-ui", rolloutOf(53), userID) {
		t.Error("expected fail at rollout=53 for bucket 53")
	}
	if !InRollout("new-ui", rolloutOf(54), userID) {
		t.Error("expected pass at rollout=54 for bucket 53")
	}
}

func TestInRollout_Deterministic(t *testing.T) {
	first := InRollout("feature_x", rolloutOf(50), userOf("user-123"))
	for i := 0; i < 100; i++ {
		if got := InRollout("feature_x", rolloutOf(50), userOf("user-123")); got != first {
			t.Fatalf("InRollout is not deterministic: got %v and %v", first, got)
		}
	}
}

func TestInRollout_Distribution(t *testing.T) {
	// A single byte mod 100 is not perfectly uniform: buckets 0-55 carry
	// 3/256 each, 56-99 carry 2/256. rollout=50 therefore admits
	// 150/256 ≈ 58.6% of identified users, not 50%.
	rollout := rolloutOf(50)
	passed := 0
	total := 10000
	for i := 0; i < total; i++ {
		userID := fmt.Sprintf("user-%d", i)
		if InRollout("checkout-redesign", rollout, &userID) {
			passed++
		}
	}
	if passed < 5500 || passed > 6300 {
		t.Errorf("expected ~58.6%% admitted at rollout=50, got %.1f%% (%d/%d)",
			float64(passed)/float64(total)*100, passed, total)
	}
}

func TestSelectVariant_Empty(t *testing.T) {
	if got := SelectVariant(nil, 42); got != "" {
		t.Errorf("expected no variant for nil map, got %q", got)
	}
	if got := SelectVariant(map[string]uint32{}, 42); got != "" {
		t.Errorf("expected no variant for empty map, got %q", got)
	}
}

func TestSelectVariant_ZeroWeights(t *testing.T) {
	variants := map[string]uint32{"control": 0, "experiment": 0}
	if got := SelectVariant(variants, 0); got != "" {
		t.Errorf("expected no variant for all-zero weights, got %q", got)
	}
}

func TestSelectVariant_CumulativeWalk(t *testing.T) {
	// Names are walked in lexicographic order: a covers [0,49],
	// b covers [50,79], c covers [80,99].
	variants := map[string]uint32{"c": 20, "a": 50, "b": 30}
	cases := []struct {
		point uint32
		want  string
	}{
		{0, "a"},
		{49, "a"},
		{50, "b"},
		{79, "b"},
		{80, "c"},
		{99, "c"},
		{100, "a"}, // reduced mod total
		{149, "a"},
	}
	for _, tc := range cases {
		if got := SelectVariant(variants, tc.point); got != tc.want {
			t.Errorf("SelectVariant(point=%d) = %q, want %q", tc.point, got, tc.want)
		}
	}
}

func TestSelectVariant_SkipsZeroWeight(t *testing.T) {
	// A zero-weight variant can never be picked, even at point 0.
	variants := map[string]uint32{"a": 0, "b": 1}
	if got := SelectVariant(variants, 0); got != "b" {
		t.Errorf("expected zero-weight variant skipped, got %q", got)
	}
}

func TestSelectVariant_Golden(t *testing.T) {
	// Pinned assignments for the full hash path.
	variants := map[string]uint32{"A": 1, "B": 1}
	cases := []struct {
		userID string
		want   string
	}{
		{"user1", "B"}, // point 3023173887 % 2 = 1
		{"user2", "A"}, // point 972668450 % 2 = 0
	}
	for _, tc := range cases {
		got := SelectVariant(variants, VariantPoint("new-ui", tc.userID))
		if got != tc.want {
			t.Errorf("variant for %q = %q, want %q", tc.userID, got, tc.want)
		}
	}
}

func TestSelectVariant_Distribution(t *testing.T) {
	// Weights {A:1, B:3} should split ~25%/75% over many identifiers.
	variants := map[string]uint32{"A": 1, "B": 3}
	counts := map[string]int{}
	total := 10000
	for i := 0; i < total; i++ {
		userID := fmt.Sprintf("user-%d", i)
		counts[SelectVariant(variants, VariantPoint("checkout-redesign", userID))]++
	}
	if counts["A"]+counts["B"] != total {
		t.Fatalf("unassigned evaluations: %v", counts)
	}
	if counts["A"] < 2000 || counts["A"] > 3000 {
		t.Errorf("expected ~25%% for A, got %.1f%% (%d/%d)",
			float64(counts["A"])/float64(total)*100, counts["A"], total)
	}
}
