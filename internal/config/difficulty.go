package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the accepted preset names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(s))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// IsFixedPreset returns true if the preset disables tier progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
// Easy and hard scale the time budgets; fixed pins every tier to the first
// one so the difficulty never ramps.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		scaleTimes(cfg, 1.5, 1.25, 1.0)
	case DifficultyHard:
		scaleTimes(cfg, 0.75, 0.8, 0.85)
	case DifficultyFixed:
		if len(cfg.Tiers) == 0 {
			return
		}
		first := cfg.Tiers[0]
		for i := range cfg.Tiers {
			name := cfg.Tiers[i].Name
			cfg.Tiers[i] = first
			cfg.Tiers[i].Name = name
		}
	}
}

// scaleTimes multiplies the session clocks by clock, bubble lifetimes by
// life and spawn intervals by spawn.
func scaleTimes(cfg *GameConfig, clock, life, spawn float64) {
	cfg.Session.RoundTime = scale(cfg.Session.RoundTime, clock)
	cfg.Session.SessionTime = scale(cfg.Session.SessionTime, clock)
	for i := range cfg.Tiers {
		cfg.Tiers[i].Lifetime = scale(cfg.Tiers[i].Lifetime, life)
		cfg.Tiers[i].SpawnInterval = scale(cfg.Tiers[i].SpawnInterval, spawn)
	}
}

func scale(d time.Duration, k float64) time.Duration {
	return time.Duration(float64(d) * k)
}
