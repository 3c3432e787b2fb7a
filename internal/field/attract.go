package field

import (
	"time"

	"github.com/vovakirdan/bubblemath/internal/core"
)

// attractBatch is how many random digits are queued at a time.
const attractBatch = 10

// Attract keeps random digits drifting through a field with no round
// behind them. It drives the menu background.
type Attract struct {
	field    *Field
	rng      core.Rand
	digitMin int
	digitMax int
	cadence  time.Duration
	lifetime time.Duration
}

// NewAttract wraps f. Digits are drawn from [digitMin, digitMax].
func NewAttract(f *Field, rng core.Rand, digitMin, digitMax int, cadence, lifetime time.Duration) *Attract {
	return &Attract{
		field:    f,
		rng:      rng,
		digitMin: digitMin,
		digitMax: digitMax,
		cadence:  cadence,
		lifetime: lifetime,
	}
}

// Field returns the underlying field.
func (a *Attract) Field() *Field {
	return a.field
}

// Advance refills the schedule when it runs dry and advances the field.
func (a *Attract) Advance(dt time.Duration) {
	if a.field.Pending() == 0 {
		digits := make([]int, attractBatch)
		for i := range digits {
			digits[i] = core.IntRange(a.rng, a.digitMin, a.digitMax)
		}
		a.field.Enqueue(digits, a.cadence, a.lifetime)
	}
	a.field.Advance(dt, false)
}

// Stop halts spawning and clears the field.
func (a *Attract) Stop() {
	a.field.StopSpawning()
	a.field.Clear()
}
