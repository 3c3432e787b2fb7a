package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/games/bubblemath"
	"github.com/vovakirdan/bubblemath/internal/progress"
	"github.com/vovakirdan/bubblemath/internal/storage"
)

// local holds the collaborators for playing in this terminal.
type local struct {
	progress *progress.GdataStore
	store    *storage.Store // nil when the database could not be opened
	player   string
	logger   *log.Logger
	logFile  *os.File
}

// openLocal opens the progress store, the scores database and the log
// file. Missing progress or scores degrade the game instead of failing it.
func openLocal(logPath string) (*local, error) {
	l := &local{player: localPlayer()}

	l.logger = log.New(io.Discard)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.logFile = f
		l.logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Level:           appEnv.Level(),
			Prefix:          "bubblemath",
		})
	}

	ps, err := progress.OpenGdata(appEnv.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: progress will not be saved: %v\n", err)
		ps = progress.NewGdataStore(nil)
	}
	l.progress = ps

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	l.store = store
	return l, nil
}

// options returns game options wired to the local collaborators.
func (l *local) options(cfg config.GameConfig, start bubblemath.Start) bubblemath.Options {
	opts := bubblemath.Options{
		Config:   cfg,
		Progress: l.progress,
		Logger:   l.logger,
		Start:    start,
	}
	if l.store != nil {
		opts.Leaderboard = storage.NewLeaderboard(l.store, l.player)
	}
	return opts
}

func (l *local) Close() {
	if l.store != nil {
		l.store.Close()
	}
	if l.logFile != nil {
		l.logFile.Close()
	}
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// localPlayer names the leaderboard entries of this terminal.
func localPlayer() string {
	if appEnv.Player != "" {
		return appEnv.Player
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
