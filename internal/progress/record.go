// Package progress persists the small score record a session reads at start
// and writes on every score change.
package progress

import "sync"

// Record is the persisted score state of one player.
type Record struct {
	CurrentScore int `yaml:"current_score"`
	HighScore    int `yaml:"high_score"`
	// SavedForContinue is the final score of the last ended session, kept
	// until a fresh start or a continue consumes it. Nil means absent.
	SavedForContinue *int `yaml:"saved_for_continue,omitempty"`
}

// HasContinue reports whether a saved score is waiting to be continued.
func (r Record) HasContinue() bool {
	return r.SavedForContinue != nil
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r.SavedForContinue != nil {
		v := *r.SavedForContinue
		r.SavedForContinue = &v
	}
	return r
}

// MemoryStore keeps the record in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	rec   Record
	saves int
}

// NewMemoryStore creates a store holding rec.
func NewMemoryStore(rec Record) *MemoryStore {
	return &MemoryStore{rec: rec.Clone()}
}

// Load returns the stored record.
func (s *MemoryStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone(), nil
}

// Save replaces the stored record.
func (s *MemoryStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
