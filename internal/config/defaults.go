package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

//go:embed defaults/bubblemath.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// DefaultGameConfig returns the built-in configuration. It matches the
// embedded YAML and is used when that fails to parse.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Tiers: []TierConfig{
			{
				Name:            "Easy",
				Add:             tier.Range{Min: 10, Max: 20},
				Sub:             tier.Range{Min: 1, Max: 15},
				Mul:             tier.Range{Min: 4, Max: 20},
				Div:             tier.Range{Min: 2, Max: 10},
				Digits:          tier.Range{Min: 2, Max: 6},
				SpawnInterval:   time.Second,
				Lifetime:        3 * time.Second,
				ScoreMultiplier: 1.0,
			},
			{
				Name:            "Normal",
				Add:             tier.Range{Min: 15, Max: 40},
				Sub:             tier.Range{Min: 5, Max: 30},
				Mul:             tier.Range{Min: 6, Max: 40},
				Div:             tier.Range{Min: 2, Max: 12},
				Digits:          tier.Range{Min: 2, Max: 9},
				SpawnInterval:   900 * time.Millisecond,
				Lifetime:        2800 * time.Millisecond,
				ScoreMultiplier: 1.25,
			},
			{
				Name:            "Hard",
				Add:             tier.Range{Min: 30, Max: 70},
				Sub:             tier.Range{Min: 10, Max: 50},
				Mul:             tier.Range{Min: 10, Max: 60},
				Div:             tier.Range{Min: 3, Max: 15},
				Digits:          tier.Range{Min: 3, Max: 9},
				SpawnInterval:   800 * time.Millisecond,
				Lifetime:        2500 * time.Millisecond,
				ScoreMultiplier: 1.5,
			},
			{
				Name:            "Expert",
				Add:             tier.Range{Min: 50, Max: 99},
				Sub:             tier.Range{Min: 20, Max: 80},
				Mul:             tier.Range{Min: 12, Max: 81},
				Div:             tier.Range{Min: 4, Max: 20},
				Digits:          tier.Range{Min: 3, Max: 9},
				SpawnInterval:   700 * time.Millisecond,
				Lifetime:        2200 * time.Millisecond,
				ScoreMultiplier: 2.0,
			},
			{
				Name:            "Master",
				Add:             tier.Range{Min: 80, Max: 150},
				Sub:             tier.Range{Min: 40, Max: 120},
				Mul:             tier.Range{Min: 20, Max: 99},
				Div:             tier.Range{Min: 5, Max: 25},
				Digits:          tier.Range{Min: 4, Max: 9},
				SpawnInterval:   600 * time.Millisecond,
				Lifetime:        2 * time.Second,
				ScoreMultiplier: 2.5,
			},
		},
		Arena: ArenaConfig{
			Center:         core.V(0, 0),
			ViewportHeight: 10,
			Aspect:         1.7778,
			MinSeparation:  1.5,
			MaxAttempts:    100,
			ForbiddenZones: []field.Zone{
				{Center: core.V(0, 4.25), HalfExtent: core.V(8.9, 0.75)},
				{Center: core.V(8.1, -4.4), HalfExtent: core.V(0.8, 0.6)},
			},
		},
		Session: SessionConfig{
			BasePoints:      20,
			BubblesPerRound: 30,
			ExcludeOne:      true,
			RoundTime:       30 * time.Second,
			SessionTime:     60 * time.Second,
			EndDelay:        700 * time.Millisecond,
		},
		Attract: AttractConfig{
			Digits:        tier.Range{Min: 1, Max: 9},
			SpawnInterval: 600 * time.Millisecond,
			Lifetime:      3 * time.Second,
		},
	}
}
