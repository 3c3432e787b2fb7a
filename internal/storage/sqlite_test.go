package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/bubblemath/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []struct {
		player string
		score  int
	}{
		{"alice", 100}, {"bob", 50}, {"alice", 260}, {"carol", 800},
	} {
		if _, err := store.SaveScore(s.player, s.score, "Easy"); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 4 {
		t.Fatalf("Expected 4 scores, got %d", len(scores))
	}

	expected := []int{800, 260, 100, 50}
	for i, want := range expected {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, want)
		}
	}
	if scores[0].Player != "carol" || scores[0].Tier != "Easy" {
		t.Errorf("unexpected top entry: %+v", scores[0])
	}

	alice, err := store.PlayerScores("alice", 10)
	if err != nil {
		t.Fatalf("PlayerScores() failed: %v", err)
	}
	if len(alice) != 2 || alice[0].Score != 260 {
		t.Errorf("PlayerScores(alice) = %+v", alice)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 20; i++ {
		if _, err := store.SaveScore("p", i*10, ""); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 || scores[0].Score != 190 {
		t.Errorf("TopScores(5) = %d entries, top %d", len(scores), scores[0].Score)
	}

	scores, _ = store.TopScores(0)
	if len(scores) != 10 {
		t.Errorf("TopScores(0) should default to 10, got %d", len(scores))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil || high != 0 {
		t.Fatalf("HighScore() on empty db = %d, %v", high, err)
	}

	store.SaveScore("a", 40, "")
	store.SaveScore("b", 400, "")
	if high, _ := store.HighScore(); high != 400 {
		t.Errorf("HighScore() = %d, expected 400", high)
	}

	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores(10); len(scores) != 0 {
		t.Errorf("expected empty leaderboard, got %d entries", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.bubblemath/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".bubblemath", "test.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	store := openTestStore(t)
	p := NewPlayerProgress(store, "alice")

	rec, err := p.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rec.CurrentScore != 0 || rec.HighScore != 0 || rec.HasContinue() {
		t.Errorf("unknown player should load the zero record, got %+v", rec)
	}

	saved := 320
	if err := p.Save(progress.Record{CurrentScore: 0, HighScore: 900, SavedForContinue: &saved}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	rec, _ = p.Load()
	if rec.HighScore != 900 || !rec.HasContinue() || *rec.SavedForContinue != 320 {
		t.Errorf("Load() = %+v", rec)
	}

	// Upsert clears the continue score.
	if err := p.Save(progress.Record{CurrentScore: 20, HighScore: 900}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	rec, _ = p.Load()
	if rec.CurrentScore != 20 || rec.HasContinue() {
		t.Errorf("Load() after upsert = %+v", rec)
	}

	// Players are isolated.
	other, _ := NewPlayerProgress(store, "bob").Load()
	if other.HighScore != 0 {
		t.Errorf("bob sees alice's record: %+v", other)
	}
}

func TestLeaderboardSubmit(t *testing.T) {
	store := openTestStore(t)
	lb := NewLeaderboard(store, "alice")

	if err := lb.Submit(800); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	scores, _ := store.TopScores(1)
	if len(scores) != 1 || scores[0].Player != "alice" || scores[0].Tier != "Hard" {
		t.Errorf("TopScores() = %+v, expected alice in Hard", scores)
	}
}
