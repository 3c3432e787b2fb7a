package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblemath/internal/core"
)

// alertTicks is how long the status line stays red after a bell.
const alertTicks = 12

// Game is what the platform drives: a fixed-step simulation that draws
// into a screen buffer.
type Game interface {
	ID() string
	Title() string
	Reset(cfg core.RuntimeConfig)
	Resize(w, h int)
	Step(in core.InputFrame) core.StepResult
	Render(dst *core.Screen)
	State() core.GameState
}

// Model is the Bubble Tea model running a game. The bottom terminal row is
// a status line with the round timer and key help.
type Model struct {
	game    Game
	screen  *core.Screen
	painter *Painter
	config  core.RuntimeConfig
	keys    GameKeyMap
	help    help.Model
	timer   progress.Model
	input   core.InputFrame
	state   core.GameState
	alert   int

	embedded   bool // Hosted by a session model: Back returns to its menu and it owns the tick loop
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for game. A nil painter uses the local terminal.
func NewModel(game Game, cfg core.RuntimeConfig, painter *Painter) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if painter == nil {
		painter = NewPainter(nil)
	}

	m := Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		painter: painter,
		config:  cfg,
		keys:    DefaultGameKeyMap(),
		help:    help.New(),
		timer:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:   core.NewInputFrame(),
	}
	m.sizeStatus(cfg.ScreenW)
	return m
}

func playHeight(h int) int {
	return max(h-1, 1)
}

func (m *Model) sizeStatus(w int) {
	m.timer.Width = max(w/3, 10)
	m.help.Width = max(w-m.timer.Width-2, 0)
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	rt := m.config
	rt.ScreenH = playHeight(rt.ScreenH)
	m.game.Reset(rt)
	return m.nextTick()
}

// nextTick schedules the next tick unless a host model owns the loop.
func (m Model) nextTick() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		MapMouse(msg, &m.input)
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playHeight(msg.Height))
		m.game.Resize(msg.Width, playHeight(msg.Height))
		m.sizeStatus(msg.Width)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	if m.keys.MapKey(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	res := m.game.Step(m.input)
	m.state = res.State
	m.input.Clear()

	if res.Bell {
		m.alert = alertTicks
	} else if m.alert > 0 {
		m.alert--
	}

	return m, m.nextTick()
}

// View renders the game and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	status := m.timer.ViewAs(m.state.TimeLeft) + "  " + m.help.View(m.keys)
	if m.alert > 0 {
		status = alertStyle.Render(status)
	}
	return m.painter.Paint(m.screen) + "\n" + status
}

var alertStyle = lipgloss.NewStyle().Background(lipgloss.Color("52"))

// Quitting reports whether the player asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the local terminal until the player quits.
func Run(game Game, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, cfg, nil),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
