// Package tier defines the difficulty tiers of a session and the pure
// score-to-tier lookup used both while playing and when restoring a score.
package tier

import (
	"fmt"
	"time"
)

// Tier is a difficulty level. Tiers are totally ordered.
type Tier int

const (
	T0 Tier = iota // Easy
	T1             // Normal
	T2             // Hard
	T3             // Expert
	T4             // Master
)

// Count is the number of tiers.
const Count = 5

// Thresholds holds the minimum cumulative score for each tier.
var Thresholds = [Count]int{0, 250, 750, 1500, 3000}

var names = [Count]string{"Easy", "Normal", "Hard", "Expert", "Master"}

// String returns the display name of the tier.
func (t Tier) String() string {
	if t < T0 || t > T4 {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return names[t]
}

// Threshold returns the score at which the tier becomes active.
func (t Tier) Threshold() int {
	return Thresholds[clampTier(t)]
}

// Next returns the following tier and whether one exists.
func (t Tier) Next() (Tier, bool) {
	if t >= T4 {
		return T4, false
	}
	return t + 1, true
}

// For returns the highest tier whose threshold is <= score.
// Negative scores map to T0.
func For(score int) Tier {
	t := T0
	for i := Count - 1; i >= 0; i-- {
		if score >= Thresholds[i] {
			t = Tier(i)
			break
		}
	}
	return t
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Params is the parameter bundle of one tier.
type Params struct {
	Add             Range
	Sub             Range
	Mul             Range
	Div             Range
	DigitMin        int
	DigitMax        int
	SpawnInterval   time.Duration
	Lifetime        time.Duration
	ScoreMultiplier float64
}

// Digits returns the digit range as a Range.
func (p Params) Digits() Range {
	return Range{Min: p.DigitMin, Max: p.DigitMax}
}

// Table holds the parameter bundles of all tiers, indexed by Tier.
type Table [Count]Params

// Params returns the bundle for tier t. Out-of-range tiers are clamped.
func (tb Table) Params(t Tier) Params {
	return tb[clampTier(t)]
}

// ParamsFor returns the bundle of the tier active at the given score.
func (tb Table) ParamsFor(score int) Params {
	return tb.Params(For(score))
}

func clampTier(t Tier) Tier {
	if t < T0 {
		return T0
	}
	if t > T4 {
		return T4
	}
	return t
}
