// Package field simulates the bubble field: timed, auto-expiring bubbles
// placed over time inside the arena while avoiding forbidden zones and
// each other.
package field

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblemath/internal/core"
)

// RemoveReason tells the sink why a bubble left the field.
type RemoveReason int

const (
	Expired RemoveReason = iota
	Selected
	Cleared
)

func (r RemoveReason) String() string {
	switch r {
	case Expired:
		return "expired"
	case Selected:
		return "selected"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Bubble is one live entity on the field. Times are field-clock times,
// which only advance while the field is not paused.
type Bubble struct {
	ID        int           `yaml:"id"`
	Digit     int           `yaml:"digit"`
	Pos       core.Vec2     `yaml:"pos"`
	CreatedAt time.Duration `yaml:"created_at"`
	Lifetime  time.Duration `yaml:"lifetime"`
}

// ExpiredAt reports whether the bubble has outlived its lifetime at now.
func (b Bubble) ExpiredAt(now time.Duration) bool {
	return now-b.CreatedAt >= b.Lifetime
}

// Remaining returns the time left before expiry at now, never negative.
func (b Bubble) Remaining(now time.Duration) time.Duration {
	left := b.Lifetime - (now - b.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Sink receives bubble lifecycle notifications. Implementations must not
// call back into the field.
type Sink interface {
	BubbleCreated(b Bubble)
	BubbleRemoved(id int, reason RemoveReason)
}

// NopSink ignores all notifications.
type NopSink struct{}

func (NopSink) BubbleCreated(Bubble)            {}
func (NopSink) BubbleRemoved(int, RemoveReason) {}

// Settings describes the arena a field places bubbles in.
type Settings struct {
	Bounds        core.Rect
	Zones         ZoneSet
	MinSeparation float64
	MaxAttempts   int
}

// Field owns the live bubbles and the pending spawn schedule.
type Field struct {
	settings Settings
	solver   *Solver
	sink     Sink
	logger   *log.Logger

	now     time.Duration
	nextID  int
	bubbles []Bubble // creation order

	pending  []int
	cadence  time.Duration
	lifetime time.Duration
	nextDue  time.Duration
}

// New creates an empty field. A nil sink or logger is replaced with a no-op.
func New(s Settings, rng core.Rand, sink Sink, logger *log.Logger) *Field {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Field{
		settings: s,
		solver:   NewSolver(rng),
		sink:     sink,
		logger:   logger,
		nextID:   1,
	}
}

// Settings returns the arena settings.
func (f *Field) Settings() Settings {
	return f.settings
}

// SpawnBatch schedules one bubble per digit, in order, spaced by cadence.
// Any previously pending schedule is replaced. The first bubble appears on
// the next unpaused Advance.
func (f *Field) SpawnBatch(digits []int, cadence, lifetime time.Duration) {
	f.pending = append(f.pending[:0:0], digits...)
	f.cadence = max(cadence, 0)
	f.lifetime = lifetime
	f.nextDue = f.now
}

// Enqueue appends digits to the pending schedule, keeping the cadence phase
// of the previous spawns. A schedule that fell behind restarts at the
// current time.
func (f *Field) Enqueue(digits []int, cadence, lifetime time.Duration) {
	if len(f.pending) == 0 && f.nextDue < f.now {
		f.nextDue = f.now
	}
	f.pending = append(f.pending, digits...)
	f.cadence = max(cadence, 0)
	f.lifetime = lifetime
}

// Advance moves the field clock forward by dt. While paused nothing
// happens at all. Otherwise expiries are processed before due spawns.
func (f *Field) Advance(dt time.Duration, paused bool) {
	if paused {
		return
	}
	if dt > 0 {
		f.now += dt
	}

	f.expire()
	f.spawnDue()
}

func (f *Field) expire() {
	kept := f.bubbles[:0]
	var expired []int
	for _, b := range f.bubbles {
		if b.ExpiredAt(f.now) {
			expired = append(expired, b.ID)
			continue
		}
		kept = append(kept, b)
	}
	f.bubbles = kept

	for _, id := range expired {
		f.sink.BubbleRemoved(id, Expired)
	}
}

// spawnDue places every bubble whose slot has come up. A slot that lies a
// whole lifetime in the past is dropped, as that bubble would already have
// expired.
func (f *Field) spawnDue() {
	for len(f.pending) > 0 && f.nextDue <= f.now {
		digit := f.pending[0]
		f.pending = f.pending[1:]
		if f.nextDue+f.lifetime <= f.now {
			f.logger.Debug("spawn slot already expired", "digit", digit, "due", f.nextDue)
		} else {
			f.place(digit, f.nextDue)
		}
		f.nextDue += f.cadence
	}
}

func (f *Field) place(digit int, at time.Duration) {
	occupied := make([]core.Vec2, len(f.bubbles))
	for i, b := range f.bubbles {
		occupied[i] = b.Pos
	}

	s := f.settings
	pos, ok := f.solver.FindPosition(s.Bounds, s.Zones, occupied, s.MinSeparation, s.MaxAttempts)
	if !ok {
		f.logger.Warn("placement attempts exhausted, using best-effort position",
			"digit", digit, "live", len(f.bubbles))
	}

	b := Bubble{
		ID:        f.nextID,
		Digit:     digit,
		Pos:       pos,
		CreatedAt: at,
		Lifetime:  f.lifetime,
	}
	f.nextID++
	f.bubbles = append(f.bubbles, b)
	f.sink.BubbleCreated(b)
}

// Remove takes a selected bubble off the field. It reports false if the
// bubble is not live.
func (f *Field) Remove(id int) bool {
	for i, b := range f.bubbles {
		if b.ID == id {
			f.bubbles = append(f.bubbles[:i], f.bubbles[i+1:]...)
			f.sink.BubbleRemoved(id, Selected)
			return true
		}
	}
	return false
}

// Clear removes every live bubble. The spawn schedule is left alone.
func (f *Field) Clear() {
	removed := f.bubbles
	f.bubbles = nil
	for _, b := range removed {
		f.sink.BubbleRemoved(b.ID, Cleared)
	}
}

// StopSpawning drops the pending schedule and keeps live bubbles.
func (f *Field) StopSpawning() {
	f.pending = nil
}

// Get returns the live bubble with the given id.
func (f *Field) Get(id int) (Bubble, bool) {
	for _, b := range f.bubbles {
		if b.ID == id {
			return b, true
		}
	}
	return Bubble{}, false
}

// FindDigit returns the oldest live bubble carrying digit.
func (f *Field) FindDigit(digit int) (Bubble, bool) {
	for _, b := range f.bubbles {
		if b.Digit == digit {
			return b, true
		}
	}
	return Bubble{}, false
}

// Nearest returns the live bubble closest to p within radius.
func (f *Field) Nearest(p core.Vec2, radius float64) (Bubble, bool) {
	var (
		best  Bubble
		found bool
		bestD = radius
	)
	for _, b := range f.bubbles {
		if d := b.Pos.Dist(p); d <= bestD {
			best, bestD, found = b, d, true
		}
	}
	return best, found
}

// Bubbles returns a copy of the live bubbles in creation order.
func (f *Field) Bubbles() []Bubble {
	return append([]Bubble(nil), f.bubbles...)
}

// Len returns the number of live bubbles.
func (f *Field) Len() int {
	return len(f.bubbles)
}

// Pending returns the number of digits still waiting to spawn.
func (f *Field) Pending() int {
	return len(f.pending)
}

// Now returns the field clock.
func (f *Field) Now() time.Duration {
	return f.now
}
