package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/games/bubblemath"
	"github.com/vovakirdan/bubblemath/internal/progress"
	"github.com/vovakirdan/bubblemath/internal/session"
	"github.com/vovakirdan/bubblemath/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated at ~/.bubblemath/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the configuration every session plays with.
	Game config.GameConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2222",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultGameConfig(),
	}
}

// SSHServer serves the game over SSH. Each SSH user gets their own progress
// record and leaderboard entries in the shared store.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a server. A nil store keeps progress in memory per
// connection and disables the leaderboard.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "bubblemath-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("ssh: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".bubblemath", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
		Seed:     time.Now().UnixNano(),
	}

	deps := s.playerDeps(sess.User())
	model := NewSessionModel(deps, cfg, NewPainter(bubbletea.MakeRenderer(sess)))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// playerDeps wires the collaborators for one SSH user.
func (s *SSHServer) playerDeps(player string) PlayerDeps {
	deps := PlayerDeps{
		Game:   s.config.Game,
		Player: player,
		Logger: s.logger.With("user", player),
	}
	if s.store == nil {
		deps.Progress = progress.NewMemoryStore(progress.Record{})
		return deps
	}
	deps.Progress = storage.NewPlayerProgress(s.store, player)
	deps.Leaderboard = storage.NewLeaderboard(s.store, player)
	deps.Scores = s.store
	return deps
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) Run(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// PlayerDeps are the per-player collaborators of a session model.
type PlayerDeps struct {
	Game        config.GameConfig
	Player      string
	Progress    session.Progress
	Leaderboard session.Leaderboard
	Scores      ScoreSource // nil hides the scoreboard contents
	Logger      *log.Logger
}

type page int

const (
	pageMenu page = iota
	pageGame
	pageScores
)

// SessionModel runs the full flow for one player: menu, game and
// scoreboard. It owns the tick loop of the screen it hosts.
type SessionModel struct {
	deps    PlayerDeps
	config  core.RuntimeConfig
	painter *Painter

	page   page
	menu   MenuModel
	game   Model
	active *bubblemath.Game
	scores ScoreboardModel

	quitting bool
}

// NewSessionModel creates a session model that opens on the menu.
func NewSessionModel(deps PlayerDeps, cfg core.RuntimeConfig, painter *Painter) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	m := SessionModel{
		deps:    deps,
		config:  cfg,
		painter: painter,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	best, canContinue := 0, false
	if m.deps.Progress != nil {
		rec, err := m.deps.Progress.Load()
		if err != nil {
			m.deps.Logger.Warn("progress unavailable", "err", err)
		}
		best, canContinue = rec.HighScore, rec.HasContinue()
	}

	backdrop := bubblemath.NewMenuBackdrop(m.deps.Game, m.config.Seed, m.config.ScreenW, playHeight(m.config.ScreenH))
	menu := NewMenuModel(backdrop, canContinue, best, m.config, m.painter)
	menu.embedded = true
	return menu
}

func (m SessionModel) newGame(start bubblemath.Start) (Model, *bubblemath.Game) {
	g := bubblemath.New(bubblemath.Options{
		Config:      m.deps.Game,
		Progress:    m.deps.Progress,
		Leaderboard: m.deps.Leaderboard,
		Logger:      m.deps.Logger,
		Start:       start,
	})
	cfg := m.config
	cfg.Seed = time.Now().UnixNano()

	model := NewModel(g, cfg, m.painter)
	model.embedded = true
	return model, g
}

// Init starts the tick loop.
func (m SessionModel) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update routes messages to the current screen and switches screens.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}
	if _, ok := msg.(TickMsg); ok {
		cmd = tickCmd(m.config.TickInterval())
	}

	switch m.page {
	case pageGame:
		return m.updateGame(msg, cmd)
	case pageScores:
		return m.updateScores(msg, cmd)
	default:
		return m.updateMenu(msg, cmd)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	next, sub := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch m.menu.Chosen() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case ChoicePlay, ChoiceContinue:
		start := bubblemath.StartFresh
		if m.menu.Chosen() == ChoiceContinue {
			start = bubblemath.StartContinue
		}
		m.game, m.active = m.newGame(start)
		m.page = pageGame
		return m, tea.Batch(cmd, m.game.Init())
	case ChoiceScores:
		m.scores = NewScoreboardModel(m.deps.Scores, m.deps.Player, m.config.ScreenW, m.config.ScreenH)
		m.scores.embedded = true
		m.page = pageScores
		return m, cmd
	}
	return m, tea.Batch(cmd, sub)
}

func (m SessionModel) updateGame(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	next, sub := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	if m.game.Quitting() {
		m.endGame()
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.endGame()
		m.menu = m.newMenu()
		m.page = pageMenu
		return m, cmd
	}
	return m, tea.Batch(cmd, sub)
}

// endGame finishes a running session so its score is submitted and kept
// for continue.
func (m *SessionModel) endGame() {
	if m.active != nil && !m.active.State().GameOver {
		m.active.Session().End()
	}
	m.active = nil
}

func (m SessionModel) updateScores(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, cmd
	}
	next, sub := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		m.menu = m.newMenu()
		m.page = pageMenu
		return m, cmd
	}
	return m, tea.Batch(cmd, sub)
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.page {
	case pageGame:
		return m.game.View()
	case pageScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
