package core

import "time"

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickInterval returns the wall time between two simulation ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / time.Duration(DefaultConfig().TickRate)
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score known at session start or updated at end
	GameOver  bool // Whether the session has ended
	Paused    bool // Whether the session is paused
	CanResume bool // Whether a saved score is available for continue

	TimeLeft float64 // Share of the round budget left, in [0, 1]
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Bell  bool // Feedback event the platform may turn into a terminal bell
}
