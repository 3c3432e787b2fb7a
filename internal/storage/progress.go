package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/bubblemath/internal/progress"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

// LoadProgress returns the stored record of player. Unknown players get the
// zero record.
func (s *Store) LoadProgress(player string) (progress.Record, error) {
	var (
		rec   progress.Record
		saved sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT current_score, high_score, saved_for_continue
		 FROM progress
		 WHERE player = ?`,
		player,
	).Scan(&rec.CurrentScore, &rec.HighScore, &saved)

	if errors.Is(err, sql.ErrNoRows) {
		return progress.Record{}, nil
	}
	if err != nil {
		return progress.Record{}, fmt.Errorf("storage: cannot load progress: %w", err)
	}

	if saved.Valid {
		v := int(saved.Int64)
		rec.SavedForContinue = &v
	}
	return rec, nil
}

// SaveProgress stores the record of player, replacing any previous one.
func (s *Store) SaveProgress(player string, rec progress.Record) error {
	var saved sql.NullInt64
	if rec.SavedForContinue != nil {
		saved = sql.NullInt64{Int64: int64(*rec.SavedForContinue), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO progress (player, current_score, high_score, saved_for_continue, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET
			current_score = excluded.current_score,
			high_score = excluded.high_score,
			saved_for_continue = excluded.saved_for_continue,
			updated_at = excluded.updated_at`,
		player, rec.CurrentScore, rec.HighScore, saved,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	return nil
}

// PlayerProgress binds the progress table to one player.
type PlayerProgress struct {
	store  *Store
	player string
}

// NewPlayerProgress returns the progress store of player.
func NewPlayerProgress(s *Store, player string) *PlayerProgress {
	return &PlayerProgress{store: s, player: player}
}

// Load returns the player's record.
func (p *PlayerProgress) Load() (progress.Record, error) {
	return p.store.LoadProgress(p.player)
}

// Save stores the player's record.
func (p *PlayerProgress) Save(rec progress.Record) error {
	return p.store.SaveProgress(p.player, rec)
}

// Leaderboard submits high scores of one player to the scores table.
type Leaderboard struct {
	store  *Store
	player string
}

// NewLeaderboard returns a leaderboard that records scores as player.
func NewLeaderboard(s *Store, player string) *Leaderboard {
	return &Leaderboard{store: s, player: player}
}

// Submit records score together with the tier it was reached in.
func (l *Leaderboard) Submit(score int) error {
	_, err := l.store.SaveScore(l.player, score, tier.For(score).String())
	return err
}
