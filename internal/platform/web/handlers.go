package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/bubblemath/internal/storage"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseLimit reads ?limit=, defaulting to defaultLimit and capped at maxLimit.
func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return min(n, maxLimit), true
}

func handleHealth(scores ScoreStore, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := scores.Ping(ctx); err != nil {
			logger.Error("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{SQLite: "error"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{SQLite: "ok"})
	}
}

type scoresResponse struct {
	Scores []storage.ScoreEntry `json:"scores"`
}

func handleTopScores(scores ScoreStore, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		entries, err := scores.TopScores(limit)
		if err != nil {
			logger.Error("top scores", "err", err)
			writeError(w, http.StatusInternalServerError, "scores unavailable")
			return
		}
		writeJSON(w, http.StatusOK, scoresResponse{Scores: nonNil(entries)})
	}
}

func handlePlayerScores(scores ScoreStore, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		player := chi.URLParam(r, "player")
		entries, err := scores.PlayerScores(player, limit)
		if err != nil {
			logger.Error("player scores", "player", player, "err", err)
			writeError(w, http.StatusInternalServerError, "scores unavailable")
			return
		}
		writeJSON(w, http.StatusOK, scoresResponse{Scores: nonNil(entries)})
	}
}

func nonNil(entries []storage.ScoreEntry) []storage.ScoreEntry {
	if entries == nil {
		return []storage.ScoreEntry{}
	}
	return entries
}

type tierInfo struct {
	Name            string  `json:"name"`
	Threshold       int     `json:"threshold"`
	ScoreMultiplier float64 `json:"score_multiplier"`
	Digits          [2]int  `json:"digits"`
	SpawnIntervalMS int64   `json:"spawn_interval_ms"`
	LifetimeMS      int64   `json:"lifetime_ms"`
}

func handleTiers(tiers tier.Table) http.HandlerFunc {
	infos := make([]tierInfo, 0, tier.Count)
	for i := range tier.Count {
		t := tier.Tier(i)
		p := tiers.Params(t)
		infos = append(infos, tierInfo{
			Name:            t.String(),
			Threshold:       t.Threshold(),
			ScoreMultiplier: p.ScoreMultiplier,
			Digits:          [2]int{p.DigitMin, p.DigitMax},
			SpawnIntervalMS: p.SpawnInterval.Milliseconds(),
			LifetimeMS:      p.Lifetime.Milliseconds(),
		})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, infos)
	}
}
