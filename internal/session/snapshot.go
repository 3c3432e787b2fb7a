package session

import (
	"time"

	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

// Snapshot is the complete session state, suitable for writing to disk
// when the host suspends. The tier is not stored; it is derived from Score.
type Snapshot struct {
	State            State          `yaml:"state"`
	Score            int            `yaml:"score"`
	HighScore        int            `yaml:"high_score"`
	Round            round.Round    `yaml:"round"`
	Rounds           int            `yaml:"rounds"`
	LastGain         int            `yaml:"last_gain"`
	RoundElapsed     time.Duration  `yaml:"round_elapsed"`
	SessionLeft      time.Duration  `yaml:"session_left"`
	EndPending       bool           `yaml:"end_pending"`
	EndIn            time.Duration  `yaml:"end_in"`
	SavedForContinue *int           `yaml:"saved_for_continue,omitempty"`
	Field            field.Snapshot `yaml:"field"`
}

// Snapshot captures the session and its field.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		State:        m.state,
		Score:        m.score,
		HighScore:    m.highScore,
		Round:        m.round,
		Rounds:       m.rounds,
		LastGain:     m.lastGain,
		RoundElapsed: m.roundElapsed,
		SessionLeft:  m.sessionLeft,
		EndPending:   m.endPending,
		EndIn:        m.endIn,
		Field:        m.field.Snapshot(),
	}
	if m.savedForContinue != nil {
		v := *m.savedForContinue
		snap.SavedForContinue = &v
	}
	return snap
}

// ApplySnapshot restores a captured session, replacing the field contents.
func (m *Machine) ApplySnapshot(snap Snapshot) {
	m.state = snap.State
	m.score = snap.Score
	m.highScore = snap.HighScore
	m.tier = tier.For(snap.Score)
	m.round = snap.Round
	m.rounds = snap.Rounds
	m.lastGain = snap.LastGain
	m.roundElapsed = snap.RoundElapsed
	m.sessionLeft = snap.SessionLeft
	m.endPending = snap.EndPending
	m.endIn = snap.EndIn
	m.savedForContinue = nil
	if snap.SavedForContinue != nil {
		v := *snap.SavedForContinue
		m.savedForContinue = &v
	}
	m.field.ApplySnapshot(snap.Field)
}
