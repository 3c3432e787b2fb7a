package field

import "github.com/vovakirdan/bubblemath/internal/core"

// DefaultMaxAttempts is the sampling budget used when none is given.
const DefaultMaxAttempts = 100

// Solver finds free positions for new bubbles by rejection sampling.
type Solver struct {
	rng core.Rand
}

// NewSolver creates a solver drawing samples from rng.
func NewSolver(rng core.Rand) *Solver {
	return &Solver{rng: rng}
}

// FindPosition samples uniformly inside bounds until a point lies outside
// every zone and at least minSeparation away from every occupied point.
//
// If maxAttempts samples all fail, one more unchecked sample is returned
// with ok == false. The caller decides whether to log it; it is never an
// error. maxAttempts <= 0 selects DefaultMaxAttempts.
func (s *Solver) FindPosition(bounds core.Rect, zones ZoneSet, occupied []core.Vec2, minSeparation float64, maxAttempts int) (pos core.Vec2, ok bool) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for range maxAttempts {
		p := s.sample(bounds)
		if zones.Contains(p) {
			continue
		}
		if tooClose(p, occupied, minSeparation) {
			continue
		}
		return p, true
	}

	return s.sample(bounds), false
}

func (s *Solver) sample(bounds core.Rect) core.Vec2 {
	x := core.FloatRange(s.rng, bounds.Min.X, bounds.Max.X)
	y := core.FloatRange(s.rng, bounds.Min.Y, bounds.Max.Y)
	return core.V(x, y)
}

func tooClose(p core.Vec2, occupied []core.Vec2, minSeparation float64) bool {
	for _, o := range occupied {
		if p.Dist(o) < minSeparation {
			return true
		}
	}
	return false
}
