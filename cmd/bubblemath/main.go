// bubblemath is an arithmetic bubble-popping game for the terminal.
//
// Usage:
//
//	bubblemath play          - Play in this terminal
//	bubblemath menu          - Start menu with play, continue and scores
//	bubblemath scores        - Show the leaderboard
//	bubblemath tiers         - Show the difficulty tiers
//	bubblemath serve         - Serve the game over SSH and the scores API over HTTP
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.bubblemath/scores.db)
//	--config <path> - Load tier and arena settings from a YAML file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

// appEnv holds the environment settings that seed the flag defaults.
var appEnv, envErr = config.LoadEnv()

func main() {
	if envErr != nil {
		fmt.Fprintln(os.Stderr, envErr)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubblemath",
	Short: "Bubble Math - pop the digit that completes the sum",
	Long: `Bubble Math shows an expression like "3 + ? = 7" and a field of
numbered bubbles. Pop the bubble that completes it before the round runs
out. A wrong pick ends the session; your score unlocks harder tiers.

Available commands:
  play     - Play directly
  menu     - Start menu with play, continue and scores
  scores   - View the leaderboard
  tiers    - Show the difficulty tiers
  serve    - Start SSH and HTTP servers

Examples:
  bubblemath play
  bubblemath play --difficulty hard
  bubblemath menu
  bubblemath serve --ssh :2222 --http :8080
  bubblemath scores --player ann`,
	SilenceUsage: true,
}

func init() {
	dbPath := appEnv.DBPath
	if dbPath == "" {
		dbPath = storage.DefaultPath()
	}

	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", dbPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", appEnv.ConfigPath, "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadGameConfig loads the config file and applies the difficulty preset.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.GameConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}
