// Package config provides YAML-based configuration for the bubblemath
// engine: the tier table, the arena layout and the session rules.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/session"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

// GameConfig is the complete engine configuration.
type GameConfig struct {
	Tiers   []TierConfig  `yaml:"tiers"`
	Arena   ArenaConfig   `yaml:"arena"`
	Session SessionConfig `yaml:"session"`
	Attract AttractConfig `yaml:"attract"`
}

// TierConfig is the parameter bundle of one tier.
type TierConfig struct {
	Name            string        `yaml:"name"`
	Add             tier.Range    `yaml:"add"`
	Sub             tier.Range    `yaml:"sub"`
	Mul             tier.Range    `yaml:"mul"`
	Div             tier.Range    `yaml:"div"`
	Digits          tier.Range    `yaml:"digits"`
	SpawnInterval   time.Duration `yaml:"spawn_interval"`
	Lifetime        time.Duration `yaml:"lifetime"`
	ScoreMultiplier float64       `yaml:"score_multiplier"`
}

// Params converts the tier config into engine parameters.
func (t TierConfig) Params() tier.Params {
	return tier.Params{
		Add:             t.Add,
		Sub:             t.Sub,
		Mul:             t.Mul,
		Div:             t.Div,
		DigitMin:        t.Digits.Min,
		DigitMax:        t.Digits.Max,
		SpawnInterval:   t.SpawnInterval,
		Lifetime:        t.Lifetime,
		ScoreMultiplier: t.ScoreMultiplier,
	}
}

// ArenaConfig describes the visible play area in world units.
type ArenaConfig struct {
	Center         core.Vec2    `yaml:"center"`
	ViewportHeight float64      `yaml:"viewport_height"`
	Aspect         float64      `yaml:"aspect"`
	MinSeparation  float64      `yaml:"min_separation"`
	MaxAttempts    int          `yaml:"max_attempts"`
	ForbiddenZones []field.Zone `yaml:"forbidden_zones"`
}

// SessionConfig holds scoring and timing rules.
type SessionConfig struct {
	BasePoints      int           `yaml:"base_points"`
	BubblesPerRound int           `yaml:"bubbles_per_round"`
	ExcludeOne      bool          `yaml:"exclude_one"`  // No 1 among Mul/Div distractors
	RoundTime       time.Duration `yaml:"round_time"`   // Budget per round
	SessionTime     time.Duration `yaml:"session_time"` // 0 disables the session clock
	EndDelay        time.Duration `yaml:"end_delay"`    // Wrong answer to game over
}

// AttractConfig drives the bubbles drifting behind the menu.
type AttractConfig struct {
	Digits        tier.Range    `yaml:"digits"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	Lifetime      time.Duration `yaml:"lifetime"`
}

// Table builds the tier table. Missing tiers repeat the last configured one.
func (c GameConfig) Table() tier.Table {
	var tb tier.Table
	for i := range tb {
		if len(c.Tiers) == 0 {
			break
		}
		tc := c.Tiers[min(i, len(c.Tiers)-1)]
		tb[i] = tc.Params()
	}
	return tb
}

// Bounds returns the placement rectangle.
func (a ArenaConfig) Bounds() core.Rect {
	return core.ComputeBounds(a.Center, a.ViewportHeight, a.Aspect)
}

// FieldSettings returns the settings for a bubble field in this arena.
func (a ArenaConfig) FieldSettings() field.Settings {
	return field.Settings{
		Bounds:        a.Bounds(),
		Zones:         field.NewZoneSet(a.ForbiddenZones...),
		MinSeparation: a.MinSeparation,
		MaxAttempts:   a.MaxAttempts,
	}
}

// RoundSettings returns the round generator settings.
func (c GameConfig) RoundSettings() round.Settings {
	return round.Settings{
		Count:      c.Session.BubblesPerRound,
		ExcludeOne: c.Session.ExcludeOne,
	}
}

// SessionRules returns the session state machine configuration.
func (c GameConfig) SessionRules() session.Config {
	return session.Config{
		Tiers:       c.Table(),
		BasePoints:  c.Session.BasePoints,
		RoundTime:   c.Session.RoundTime,
		SessionTime: c.Session.SessionTime,
		EndDelay:    c.Session.EndDelay,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c GameConfig) Validate() error {
	var errs []error

	if len(c.Tiers) != tier.Count {
		errs = append(errs, fmt.Errorf("tiers: expected %d entries, got %d", tier.Count, len(c.Tiers)))
	}
	for i, t := range c.Tiers {
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("tiers[%d] (%s): %w", i, t.Name, err))
		}
	}

	a := c.Arena
	if a.ViewportHeight <= 0 {
		errs = append(errs, errors.New("arena: viewport_height must be positive"))
	}
	if a.MinSeparation < 0 {
		errs = append(errs, errors.New("arena: min_separation must not be negative"))
	}
	for i, z := range a.ForbiddenZones {
		if z.HalfExtent.X < 0 || z.HalfExtent.Y < 0 {
			errs = append(errs, fmt.Errorf("arena: forbidden_zones[%d] has a negative half_extent", i))
		}
	}

	s := c.Session
	if s.BasePoints <= 0 {
		errs = append(errs, errors.New("session: base_points must be positive"))
	}
	if s.BubblesPerRound < 1 {
		errs = append(errs, errors.New("session: bubbles_per_round must be at least 1"))
	}
	if s.RoundTime <= 0 {
		errs = append(errs, errors.New("session: round_time must be positive"))
	}
	if s.SessionTime < 0 || s.EndDelay < 0 {
		errs = append(errs, errors.New("session: durations must not be negative"))
	}

	if !c.Attract.Digits.Valid() {
		errs = append(errs, errors.New("attract: digits range is inverted"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (t TierConfig) validate() error {
	ranges := []struct {
		name string
		r    tier.Range
	}{
		{"add", t.Add}, {"sub", t.Sub}, {"mul", t.Mul}, {"div", t.Div}, {"digits", t.Digits},
	}
	for _, nr := range ranges {
		if !nr.r.Valid() {
			return fmt.Errorf("%s range [%d, %d] is inverted", nr.name, nr.r.Min, nr.r.Max)
		}
	}
	if t.Digits.Min < 1 {
		return errors.New("digits must start at 1 or above")
	}
	if t.SpawnInterval < 0 || t.Lifetime <= 0 {
		return errors.New("spawn_interval must not be negative and lifetime must be positive")
	}
	if t.ScoreMultiplier <= 0 {
		return errors.New("score_multiplier must be positive")
	}
	return nil
}
