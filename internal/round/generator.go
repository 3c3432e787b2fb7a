package round

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

const (
	// MulBase is the fixed starting value of a multiplication round before
	// any range fallback kicks in.
	MulBase = 2

	// maxAttempts bounds reject-and-resample before the safe round is used.
	maxAttempts = 1000

	// DefaultCount is the number of digits (correct + distractors) per round.
	DefaultCount = 30
)

// Settings configures round generation.
type Settings struct {
	Count      int  // Total digits per round, including the correct one
	ExcludeOne bool // Keep 1 out of distractors for Mul and Div rounds
}

// Generator produces solvable rounds for a tier's parameter bundle.
type Generator struct {
	rng      core.Rand
	settings Settings
	logger   *log.Logger
}

// NewGenerator creates a generator drawing from rng.
// A nil logger discards output.
func NewGenerator(rng core.Rand, s Settings, logger *log.Logger) *Generator {
	if s.Count < 1 {
		s.Count = DefaultCount
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{rng: rng, settings: s, logger: logger}
}

// Generate returns a valid round for the given parameters. It always
// terminates: degenerate samples are discarded and resampled, and if the
// parameters never yield a valid round a minimal addition round is used.
func (g *Generator) Generate(p tier.Params) Round {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		r, ok := g.sample(p)
		if !ok {
			continue
		}
		g.fillDigits(&r, p)
		return r
	}

	g.logger.Warn("no valid round after resampling, using safe round", "attempts", maxAttempts)
	r := safeRound(p)
	g.fillDigits(&r, p)
	return r
}

// sample draws one candidate round and reports whether it is usable.
func (g *Generator) sample(p tier.Params) (Round, bool) {
	op := Operations[g.rng.Intn(len(Operations))]
	digit := core.IntRange(g.rng, p.DigitMin, p.DigitMax)

	var start, target int
	switch op {
	case Add:
		target = core.IntRange(g.rng, p.Add.Min, p.Add.Max)
		start = target - digit
	case Sub:
		target = core.IntRange(g.rng, p.Sub.Min, p.Sub.Max)
		start = target + digit
	case Mul:
		var ok bool
		start, digit, target, ok = g.multiply(p, digit)
		if !ok {
			return Round{}, false
		}
	case Div:
		if digit == 0 {
			return Round{}, false
		}
		target = core.IntRange(g.rng, p.Div.Min, p.Div.Max)
		start = target * digit
	}

	r := Round{Op: op, Start: start, Target: target, Digit: digit}
	if target == digit || start == digit {
		return Round{}, false
	}
	return r, true
}

// multiply solves start × digit = target with start fixed at MulBase.
// When the product misses the configured range it first looks for another
// digit that lands in range, then for a multiple of the sampled digit inside
// the range (solving for start instead). The first fallback that succeeds wins.
func (g *Generator) multiply(p tier.Params, digit int) (start, d, target int, ok bool) {
	start = MulBase
	target = start * digit
	if p.Mul.Contains(target) {
		return start, digit, target, true
	}

	var digits []int
	for c := p.DigitMin; c <= p.DigitMax; c++ {
		if p.Mul.Contains(start * c) {
			digits = append(digits, c)
		}
	}
	if len(digits) > 0 {
		digit = digits[g.rng.Intn(len(digits))]
		return start, digit, start * digit, true
	}

	if digit == 0 {
		return 0, 0, 0, false
	}
	var multiples []int
	for n := p.Mul.Min; n <= p.Mul.Max; n++ {
		if n%digit == 0 {
			multiples = append(multiples, n)
		}
	}
	if len(multiples) == 0 {
		return 0, 0, 0, false
	}
	target = multiples[g.rng.Intn(len(multiples))]
	return target / digit, digit, target, true
}

// fillDigits draws the distractors and shuffles the full digit set.
func (g *Generator) fillDigits(r *Round, p tier.Params) {
	pool := g.distractorPool(r.Op, p)

	r.Distractors = make([]int, 0, g.settings.Count-1)
	for len(r.Distractors) < g.settings.Count-1 {
		r.Distractors = append(r.Distractors, pool[g.rng.Intn(len(pool))])
	}

	r.Layout = make([]int, 0, g.settings.Count)
	r.Layout = append(r.Layout, r.Digit)
	r.Layout = append(r.Layout, r.Distractors...)
	shuffle(g.rng, r.Layout)
}

// distractorPool lists the digits distractors are drawn from. For Mul and
// Div rounds 1 is left out when configured, unless it is the only digit.
func (g *Generator) distractorPool(op Operation, p tier.Params) []int {
	lo, hi := p.DigitMin, p.DigitMax
	if hi < lo {
		lo, hi = hi, lo
	}
	exclude := g.settings.ExcludeOne && (op == Mul || op == Div)

	pool := make([]int, 0, hi-lo+1)
	for d := lo; d <= hi; d++ {
		if exclude && d == 1 {
			continue
		}
		pool = append(pool, d)
	}
	if len(pool) == 0 {
		pool = append(pool, lo)
	}
	return pool
}

// shuffle is an in-place Fisher–Yates shuffle.
func shuffle(rng core.Rand, s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// safeRound builds an addition round that is valid for any positive digit.
func safeRound(p tier.Params) Round {
	d := p.DigitMin
	if d < 1 {
		d = 1
	}
	return Round{Op: Add, Start: d + 1, Target: 2*d + 1, Digit: d}
}
