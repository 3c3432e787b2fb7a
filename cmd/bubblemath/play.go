package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/bubblemath/internal/games/bubblemath"
	"github.com/vovakirdan/bubblemath/internal/platform/tui"
	"github.com/vovakirdan/bubblemath/internal/session"
)

var (
	flagResume  bool
	flagLogPath string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a session in this terminal.

Controls:
  0-9        - Pop the bubble with that digit
  Click      - Pop the bubble under the pointer
  P/Space    - Pause
  R          - Restart (after game over)
  C          - Continue from the last score (after game over)
  Q/Ctrl+C   - Quit

Quitting a running session suspends it; --resume picks it up again.

Difficulty options:
  easy   - Longer rounds and slower bubbles
  normal - Default timings
  hard   - Shorter rounds and faster bubbles
  fixed  - No progression, every tier plays like the first

Examples:
  bubblemath play
  bubblemath play --difficulty easy
  bubblemath play --resume
  bubblemath play --config ./my-tiers.yaml --log ./bubblemath.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Resume the suspended session, if any")
	playCmd.Flags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	l, err := openLocal(flagLogPath)
	if err != nil {
		return err
	}
	defer l.Close()

	opts := l.options(cfg, bubblemath.StartFresh)
	if flagResume {
		snap, err := loadSuspended(l)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintln(os.Stderr, "No suspended session, starting a new one.")
		}
		opts.Resume = snap
	}

	game := bubblemath.New(opts)
	if err := tui.Run(game, runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return suspend(l, game)
}

// loadSuspended reads and clears the suspended session.
func loadSuspended(l *local) (*session.Snapshot, error) {
	data, err := l.progress.LoadSuspended()
	if err != nil || data == nil {
		return nil, err
	}
	var snap session.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding suspended session: %w", err)
	}
	if err := l.progress.SaveSuspended(nil); err != nil {
		l.logger.Warn("could not clear suspended session", "err", err)
	}
	return &snap, nil
}

// suspend saves a session that is still running so --resume can restore it.
// The session is paused first so it resumes behind the pause overlay.
func suspend(l *local, game *bubblemath.Game) error {
	m := game.Session()
	if m == nil || m.State() == session.Ended {
		return nil
	}
	m.Pause()

	data, err := yaml.Marshal(game.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := l.progress.SaveSuspended(data); err != nil {
		return err
	}
	if l.progress.Degraded() {
		return nil
	}
	fmt.Printf("Session suspended at %d points. Run 'bubblemath play --resume' to continue.\n", m.Score())
	return nil
}
