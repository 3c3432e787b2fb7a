package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/storage"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

func newTestRouter(t *testing.T, scores ScoreStore) http.Handler {
	t.Helper()
	return NewRouter(scores, config.DefaultGameConfig().Table(), nil)
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

type brokenStore struct{}

func (brokenStore) TopScores(int) ([]storage.ScoreEntry, error) {
	return nil, errors.New("disk gone")
}

func (brokenStore) PlayerScores(string, int) ([]storage.ScoreEntry, error) {
	return nil, errors.New("disk gone")
}

func (brokenStore) Ping(context.Context) error {
	return errors.New("disk gone")
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		store      ScoreStore
		wantStatus int
		wantSQLite string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"unhealthy", brokenStore{}, http.StatusServiceUnavailable, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store
			if store == nil {
				store = openStore(t)
			}
			rec := get(t, newTestRouter(t, store), "/healthz")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, expected %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["sqlite"] != tt.wantSQLite {
				t.Errorf("sqlite = %q, expected %q", body["sqlite"], tt.wantSQLite)
			}
		})
	}
}

func TestScores(t *testing.T) {
	store := openStore(t)
	for _, s := range []struct {
		player string
		score  int
	}{
		{"ann", 120}, {"bob", 40}, {"ann", 300},
	} {
		if _, err := store.SaveScore(s.player, s.score, "T0"); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}
	h := newTestRouter(t, store)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantScores []int
	}{
		{"top", "/api/scores", http.StatusOK, []int{300, 120, 40}},
		{"limited", "/api/scores?limit=1", http.StatusOK, []int{300}},
		{"player", "/api/scores/bob", http.StatusOK, []int{40}},
		{"unknown player", "/api/scores/zed", http.StatusOK, []int{}},
		{"bad limit", "/api/scores?limit=nope", http.StatusBadRequest, nil},
		{"zero limit", "/api/scores/ann?limit=0", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, expected %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantScores == nil {
				return
			}
			var body scoresResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if len(body.Scores) != len(tt.wantScores) {
				t.Fatalf("got %d scores, expected %d", len(body.Scores), len(tt.wantScores))
			}
			for i, want := range tt.wantScores {
				if body.Scores[i].Score != want {
					t.Errorf("scores[%d] = %d, expected %d", i, body.Scores[i].Score, want)
				}
			}
		})
	}
}

func TestScoresStoreError(t *testing.T) {
	rec := get(t, newTestRouter(t, brokenStore{}), "/api/scores")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", rec.Code)
	}
}

func TestTiers(t *testing.T) {
	rec := get(t, newTestRouter(t, brokenStore{}), "/api/tiers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	var infos []tierInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(infos) != tier.Count {
		t.Fatalf("got %d tiers, expected %d", len(infos), tier.Count)
	}
	for i, info := range infos {
		if info.Threshold != tier.Tier(i).Threshold() {
			t.Errorf("tier %d threshold = %d, expected %d", i, info.Threshold, tier.Tier(i).Threshold())
		}
		if i > 0 && info.ScoreMultiplier < infos[i-1].ScoreMultiplier {
			t.Errorf("tier %d multiplier %g drops below tier %d", i, info.ScoreMultiplier, i-1)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestRouter(t, brokenStore{}), "/api/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestOpenAPI(t *testing.T) {
	rec := get(t, newTestRouter(t, brokenStore{}), "/openapi.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	if doc.Info.Title != "Bubble Math API" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	for _, path := range []string{"/healthz", "/api/tiers", "/api/scores", "/api/scores/{player}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("document is missing %s", path)
		}
	}
}
