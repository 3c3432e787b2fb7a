package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblemath/internal/games/bubblemath"
	"github.com/vovakirdan/bubblemath/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the menu",
	Long: `Start in interactive menu mode with bubbles drifting behind it.

Use arrow keys or j/k to navigate, Enter to select.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  bubblemath menu
  bubblemath menu --fps 20
  bubblemath menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
}

func runMenu(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	l, err := openLocal(flagLogPath)
	if err != nil {
		return err
	}
	defer l.Close()

	cfg := runtimeConfig()

	// Menu loop
	for {
		rec, err := l.progress.Load()
		if err != nil {
			l.logger.Warn("progress unavailable", "err", err)
		}

		backdrop := bubblemath.NewMenuBackdrop(gameCfg, time.Now().UnixNano(), cfg.ScreenW, max(cfg.ScreenH-1, 1))
		choice, updated, err := tui.RunMenu(backdrop, rec.HasContinue(), rec.HighScore, cfg)
		if err != nil {
			return err
		}
		cfg = updated

		switch choice {
		case tui.ChoicePlay, tui.ChoiceContinue:
			start := bubblemath.StartFresh
			if choice == tui.ChoiceContinue {
				start = bubblemath.StartContinue
			}
			game := bubblemath.New(l.options(gameCfg, start))

			// Fresh seed for each game unless one was pinned
			runCfg := cfg
			if flagSeed == 0 {
				runCfg.Seed = time.Now().UnixNano()
			}
			if err := tui.Run(game, runCfg); err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			}
			// Leaving a running game from the menu ends it so the score
			// is submitted and kept for continue.
			if m := game.Session(); m != nil && !game.State().GameOver {
				m.End()
			}

		case tui.ChoiceScores:
			if l.store == nil {
				fmt.Fprintln(os.Stderr, "Scores are unavailable without a database.")
				continue
			}
			goBack, err := tui.RunScoreboard(l.store, l.player, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return nil
			}

		default:
			return nil
		}
	}
}
