// Package round synthesizes arithmetic rounds: a starting value, an
// operation, a target and the digit that turns one into the other.
package round

import (
	"fmt"
	"strings"
)

// Operation is one of the four arithmetic operations a round can use.
type Operation int

const (
	Add Operation = iota
	Sub
	Mul
	Div
)

// Operations lists every operation in selection order.
var Operations = [...]Operation{Add, Sub, Mul, Div}

// String returns the operator symbol.
func (o Operation) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "×"
	case Div:
		return "÷"
	default:
		return "?"
	}
}

// Name returns the lower-case operation name used in config and snapshots.
func (o Operation) Name() string {
	switch o {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	if o < Add || o > Div {
		return nil, fmt.Errorf("round: invalid operation %d", int(o))
	}
	return []byte(o.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for _, op := range Operations {
		if op.Name() == name {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("round: unknown operation %q", name)
}

// Apply computes a op b. Division only succeeds when it is exact.
func (o Operation) Apply(a, b int) (int, bool) {
	switch o {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case Div:
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}

// Round is one puzzle instance. Applying Op to (Start, Digit) yields Target.
type Round struct {
	Op          Operation `yaml:"op"`
	Start       int       `yaml:"start"`
	Target      int       `yaml:"target"`
	Digit       int       `yaml:"digit"`
	Distractors []int     `yaml:"distractors"`
	// Layout is the full digit set (correct digit plus distractors) in
	// shuffled spawn order.
	Layout []int `yaml:"layout"`
}

// Check reports whether selecting d solves the round.
func (r Round) Check(d int) bool {
	got, ok := r.Op.Apply(r.Start, d)
	return ok && got == r.Target
}

// Valid reports whether the round satisfies its invariants: the correct digit
// solves it and neither the start nor the target equals that digit.
func (r Round) Valid() bool {
	return r.Check(r.Digit) && r.Start != r.Digit && r.Target != r.Digit
}

// Digits returns the full digit set in spawn order.
func (r Round) Digits() []int {
	return r.Layout
}

// Expression renders the round as "start op ? = target".
func (r Round) Expression() string {
	return fmt.Sprintf("%d %s ? = %d", r.Start, r.Op, r.Target)
}
