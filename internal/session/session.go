// Package session is the top-level round controller. It tracks score and
// tier, drives the round timer and the field, evaluates answers and decides
// when a session ends.
package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/progress"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

// ErrNothingToContinue is returned by Continue when no score was saved.
var ErrNothingToContinue = errors.New("session: no saved score to continue")

// ErrStillActive is returned by Continue while a session is running.
var ErrStillActive = errors.New("session: session has not ended")

// State is the lifecycle state of a session.
type State int

const (
	Ended State = iota
	Active
	Paused
)

func (s State) String() string {
	switch s {
	case Ended:
		return "ended"
	case Active:
		return "active"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Ended, Active, Paused} {
		if st.String() == strings.ToLower(string(text)) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("session: unknown state %q", text)
}

// Outcome is the result of evaluating a selected digit.
type Outcome int

const (
	Ignored Outcome = iota
	Correct
	Wrong
)

// Progress loads and stores the persisted score record.
type Progress interface {
	Load() (progress.Record, error)
	Save(rec progress.Record) error
}

// Leaderboard receives new high scores.
type Leaderboard interface {
	Submit(score int) error
}

// Feedback is told about answer events. It is purely observational.
type Feedback interface {
	CorrectAnswer()
	WrongAnswer()
	BubbleSelected(digit int)
}

// NopFeedback ignores all events.
type NopFeedback struct{}

func (NopFeedback) CorrectAnswer()     {}
func (NopFeedback) WrongAnswer()       {}
func (NopFeedback) BubbleSelected(int) {}

type nopLeaderboard struct{}

func (nopLeaderboard) Submit(int) error { return nil }

// Collaborators are the external services a session talks to. Nil members
// are replaced with no-ops; a nil Progress keeps the record in memory.
type Collaborators struct {
	Progress    Progress
	Leaderboard Leaderboard
	Feedback    Feedback
}

// Config holds the session rules.
type Config struct {
	Tiers       tier.Table
	BasePoints  int           // Points per correct answer before the tier multiplier
	RoundTime   time.Duration // Budget per round; running out rolls to the next round
	SessionTime time.Duration // Countdown reset on every correct answer; 0 disables
	EndDelay    time.Duration // Pause between a wrong answer and the end of the session
}

// Machine is the session state machine. It is not safe for concurrent use;
// the host drives it from one loop.
type Machine struct {
	cfg    Config
	gen    *round.Generator
	field  *field.Field
	collab Collaborators
	logger *log.Logger

	state     State
	score     int
	highScore int
	tier      tier.Tier
	round     round.Round
	rounds    int
	lastGain  int

	roundElapsed time.Duration
	sessionLeft  time.Duration
	endPending   bool
	endIn        time.Duration

	savedForContinue *int
}

// New creates a session in the Ended state. Call Start to begin playing.
func New(cfg Config, gen *round.Generator, f *field.Field, c Collaborators, logger *log.Logger) *Machine {
	if c.Progress == nil {
		c.Progress = progress.NewMemoryStore(progress.Record{})
	}
	if c.Leaderboard == nil {
		c.Leaderboard = nopLeaderboard{}
	}
	if c.Feedback == nil {
		c.Feedback = NopFeedback{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{
		cfg:    cfg,
		gen:    gen,
		field:  f,
		collab: c,
		logger: logger,
		state:  Ended,
	}
}

// Start begins a fresh session at score 0. Any saved continue score is
// discarded.
func (m *Machine) Start() {
	rec := m.load()
	m.highScore = rec.HighScore
	m.savedForContinue = nil
	m.score = 0

	m.begin()
	m.persist()
	m.logger.Info("session started", "high_score", m.highScore)
}

// Continue restarts an ended session from the saved final score. The tier
// is derived from that score alone.
func (m *Machine) Continue() error {
	if m.state != Ended {
		return ErrStillActive
	}

	rec := m.load()
	saved := m.savedForContinue
	if saved == nil {
		saved = rec.SavedForContinue
	}
	if saved == nil {
		return ErrNothingToContinue
	}

	m.highScore = max(m.highScore, rec.HighScore)
	m.score = *saved
	m.savedForContinue = nil

	m.begin()
	m.persist()
	m.logger.Info("session continued", "score", m.score, "tier", m.tier)
	return nil
}

func (m *Machine) begin() {
	m.tier = tier.For(m.score)
	m.lastGain = 0
	m.rounds = 0
	m.endPending = false
	m.endIn = 0
	m.sessionLeft = m.cfg.SessionTime
	m.state = Active
	m.nextRound()
}

func (m *Machine) nextRound() {
	p := m.cfg.Tiers.Params(m.tier)
	m.round = m.gen.Generate(p)
	m.rounds++
	m.roundElapsed = 0

	m.field.Clear()
	m.field.SpawnBatch(m.round.Digits(), p.SpawnInterval, p.Lifetime)
	m.logger.Debug("round", "n", m.rounds, "expr", m.round.Expression(), "tier", m.tier)
}

// Pause suspends all time accounting. Only an active session can pause.
func (m *Machine) Pause() {
	if m.state == Active {
		m.state = Paused
	}
}

// Resume continues a paused session.
func (m *Machine) Resume() {
	if m.state == Paused {
		m.state = Active
	}
}

// TogglePause switches between Active and Paused.
func (m *Machine) TogglePause() {
	switch m.state {
	case Active:
		m.Pause()
	case Paused:
		m.Resume()
	}
}

// accepting reports whether answers are currently evaluated.
func (m *Machine) accepting() bool {
	return m.state == Active && !m.endPending
}

// Select handles a click on bubble id. Selections of bubbles that are no
// longer live, or made while paused or ending, are ignored.
func (m *Machine) Select(id int) Outcome {
	if !m.accepting() {
		return Ignored
	}
	b, ok := m.field.Get(id)
	if !ok {
		return Ignored
	}
	m.field.Remove(id)
	m.collab.Feedback.BubbleSelected(b.Digit)
	return m.OnDigitSelected(b.Digit)
}

// OnDigitSelected evaluates digit against the current round.
func (m *Machine) OnDigitSelected(digit int) Outcome {
	if !m.accepting() {
		return Ignored
	}

	if !m.round.Check(digit) {
		m.collab.Feedback.WrongAnswer()
		m.persist()
		m.endPending = true
		m.endIn = m.cfg.EndDelay
		m.logger.Debug("wrong answer", "digit", digit, "expected", m.round.Digit)
		return Wrong
	}

	p := m.cfg.Tiers.Params(m.tier)
	m.lastGain = int(math.Round(float64(m.cfg.BasePoints) * p.ScoreMultiplier))
	m.score += m.lastGain

	if t := tier.For(m.score); t != m.tier {
		m.logger.Info("tier up", "tier", t, "score", m.score)
		m.tier = t
	}

	m.collab.Feedback.CorrectAnswer()
	m.persist()
	m.nextRound()
	m.sessionLeft = m.cfg.SessionTime
	return Correct
}

// OnRoundTimeout rolls over to a fresh round without ending the session.
func (m *Machine) OnRoundTimeout() {
	if !m.accepting() {
		return
	}
	m.logger.Debug("round timed out", "n", m.rounds)
	m.nextRound()
}

// End finishes the session: spawning stops, the field is cleared, the final
// score is kept for Continue and submitted if it beats the high score, and
// the current score resets to 0.
func (m *Machine) End() {
	if m.state == Ended {
		return
	}

	m.field.StopSpawning()
	m.field.Clear()

	final := m.score
	m.savedForContinue = &final

	m.syncHighScore()
	if final > m.highScore {
		if err := m.collab.Leaderboard.Submit(final); err != nil {
			m.logger.Warn("leaderboard submit failed", "score", final, "err", err)
		}
		m.highScore = final
	}

	m.score = 0
	m.tier = tier.T0
	m.endPending = false
	m.endIn = 0
	m.state = Ended
	m.persist()
	m.logger.Info("session ended", "final", final, "high_score", m.highScore)
}

// Advance moves session time forward by dt. The field goes first (expiry
// before spawn), then a pending end, then the round timer, then the
// session clock. While paused nothing moves.
func (m *Machine) Advance(dt time.Duration) {
	if m.state != Active {
		return
	}
	if dt < 0 {
		dt = 0
	}

	m.field.Advance(dt, false)

	if m.endPending {
		m.endIn -= dt
		if m.endIn <= 0 {
			m.End()
		}
		return
	}

	m.roundElapsed += dt
	if m.cfg.RoundTime > 0 && m.roundElapsed >= m.cfg.RoundTime {
		m.OnRoundTimeout()
	}

	if m.cfg.SessionTime > 0 {
		m.sessionLeft -= dt
		if m.sessionLeft <= 0 {
			m.logger.Debug("session clock ran out")
			m.End()
		}
	}
}

func (m *Machine) load() progress.Record {
	rec, err := m.collab.Progress.Load()
	if err != nil {
		m.logger.Warn("progress unavailable, starting from zero", "err", err)
		return progress.Record{}
	}
	return rec
}

// syncHighScore folds in a high score that another session of the same
// player stored since this one last loaded.
func (m *Machine) syncHighScore() {
	m.highScore = max(m.highScore, m.load().HighScore)
}

func (m *Machine) persist() {
	m.syncHighScore()
	rec := progress.Record{
		CurrentScore: m.score,
		HighScore:    m.highScore,
	}
	if m.savedForContinue != nil {
		v := *m.savedForContinue
		rec.SavedForContinue = &v
	}
	if err := m.collab.Progress.Save(rec); err != nil {
		m.logger.Warn("progress save failed", "err", err)
	}
}

// State returns the lifecycle state.
func (m *Machine) State() State { return m.state }

// Score returns the current score.
func (m *Machine) Score() int { return m.score }

// HighScore returns the best known score.
func (m *Machine) HighScore() int { return m.highScore }

// Tier returns the active tier.
func (m *Machine) Tier() tier.Tier { return m.tier }

// Round returns the current round.
func (m *Machine) Round() round.Round { return m.round }

// RoundNumber counts rounds since the last Start or Continue.
func (m *Machine) RoundNumber() int { return m.rounds }

// LastGain returns the points awarded by the latest correct answer.
func (m *Machine) LastGain() int { return m.lastGain }

// Ending reports whether a wrong answer is waiting out the end delay.
func (m *Machine) Ending() bool { return m.endPending }

// CanContinue reports whether Continue would find a saved score in memory.
func (m *Machine) CanContinue() bool {
	return m.state == Ended && m.savedForContinue != nil
}

// Field returns the bubble field the session drives.
func (m *Machine) Field() *field.Field { return m.field }

// RoundRemaining returns the time left in the current round.
func (m *Machine) RoundRemaining() time.Duration {
	return max(m.cfg.RoundTime-m.roundElapsed, 0)
}

// RoundFraction returns the share of the round budget left, in [0, 1].
func (m *Machine) RoundFraction() float64 {
	if m.cfg.RoundTime <= 0 {
		return 1
	}
	return float64(m.RoundRemaining()) / float64(m.cfg.RoundTime)
}

// SessionRemaining returns the time left on the session clock, or 0 when
// the clock is disabled.
func (m *Machine) SessionRemaining() time.Duration {
	if m.cfg.SessionTime <= 0 {
		return 0
	}
	return max(m.sessionLeft, 0)
}
