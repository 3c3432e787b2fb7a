package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblemath/internal/storage"
)

var (
	flagPlayer string
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best scores, across all players or for one player.

Examples:
  bubblemath scores
  bubblemath scores --player ann --limit 5`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show this player's scores")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	var scores []storage.ScoreEntry
	if flagPlayer != "" {
		scores, err = store.PlayerScores(flagPlayer, flagLimit)
	} else {
		scores, err = store.TopScores(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	if flagPlayer != "" {
		fmt.Printf("High Scores - %s\n", flagPlayer)
	} else {
		fmt.Println("High Scores")
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bubblemath play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %s\n", "Rank", "Player", "Score", "Tier", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-4s  %s\n", "----", "------", "-----", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %-4s  %s\n", i+1, entry.Player, entry.Score, entry.Tier, dateStr)
	}

	if flagPlayer == "" {
		if best, err := store.HighScore(); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
	return nil
}
