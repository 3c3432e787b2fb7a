package core

// Rand is the random source used by the round generator and the placement
// solver. *math/rand.Rand satisfies it; tests inject scripted sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// IntRange returns a uniform integer in [min, max] inclusive.
// If max < min the bounds are swapped.
func IntRange(r Rand, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Intn(max-min+1)
}

// FloatRange returns a uniform float in [min, max).
func FloatRange(r Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
