package tier

import (
	"testing"
	"time"
)

func TestForThresholds(t *testing.T) {
	tests := []struct {
		score    int
		expected Tier
	}{
		{-10, T0},
		{0, T0},
		{249, T0},
		{250, T1},
		{749, T1},
		{750, T2},
		{1499, T2},
		{1500, T3},
		{2999, T3},
		{3000, T4},
		{1_000_000, T4},
	}

	for _, tc := range tests {
		if got := For(tc.score); got != tc.expected {
			t.Errorf("For(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}
}

func TestForMonotonic(t *testing.T) {
	prev := For(0)
	for score := 0; score <= 5000; score++ {
		cur := For(score)
		if cur < prev {
			t.Fatalf("tier decreased at score %d: %v -> %v", score, prev, cur)
		}
		prev = cur
	}
}

func TestForMatchesIncrementalProgression(t *testing.T) {
	// Reaching a score through many correct answers must land on the same
	// tier as restoring that score directly.
	for _, gain := range []int{20, 25, 30, 40, 50} {
		score := 0
		current := T0
		for score < 4000 {
			score += gain
			for next, ok := current.Next(); ok && score >= next.Threshold(); next, ok = current.Next() {
				current = next
			}
			if current != For(score) {
				t.Fatalf("gain %d: incremental tier %v != restored tier %v at score %d",
					gain, current, For(score), score)
			}
		}
	}
}

func TestTableParamsFor(t *testing.T) {
	var tb Table
	for i := range tb {
		tb[i] = Params{ScoreMultiplier: float64(i + 1), SpawnInterval: time.Second}
	}

	if got := tb.ParamsFor(800).ScoreMultiplier; got != 3 {
		t.Errorf("ParamsFor(800) multiplier = %v, expected 3", got)
	}
	if got := tb.Params(Tier(42)).ScoreMultiplier; got != 5 {
		t.Errorf("Params(out of range) should clamp to T4, got multiplier %v", got)
	}
}

func TestTierString(t *testing.T) {
	if T0.String() != "Easy" || T4.String() != "Master" {
		t.Errorf("unexpected tier names: %s, %s", T0, T4)
	}
	if Tier(9).String() != "Tier(9)" {
		t.Errorf("unexpected name for invalid tier: %s", Tier(9))
	}
}

func TestRange(t *testing.T) {
	r := Range{Min: 2, Max: 6}
	if !r.Contains(2) || !r.Contains(6) || r.Contains(7) {
		t.Error("Range.Contains should be inclusive")
	}
	if (Range{Min: 5, Max: 1}).Valid() {
		t.Error("inverted range should be invalid")
	}
}
