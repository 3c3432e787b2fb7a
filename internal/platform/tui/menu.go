package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/games/bubblemath"
)

// MenuChoice is what the player picked in the menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceContinue
	ChoiceScores
	ChoiceQuit
)

func (c MenuChoice) String() string {
	switch c {
	case ChoicePlay:
		return "Play"
	case ChoiceContinue:
		return "Continue"
	case ChoiceScores:
		return "High Scores"
	case ChoiceQuit:
		return "Quit"
	default:
		return ""
	}
}

// MenuModel is the main menu, drawn over drifting attract-mode bubbles.
type MenuModel struct {
	items    []MenuChoice
	cursor   int
	best     int
	backdrop *bubblemath.Backdrop
	screen   *core.Screen
	painter  *Painter
	config   core.RuntimeConfig
	keys     MenuKeyMap
	help     help.Model

	embedded bool
	chosen   MenuChoice
}

// NewMenuModel creates a menu. Continue is offered only when canContinue.
func NewMenuModel(backdrop *bubblemath.Backdrop, canContinue bool, best int, cfg core.RuntimeConfig, painter *Painter) MenuModel {
	items := []MenuChoice{ChoicePlay}
	if canContinue {
		items = append(items, ChoiceContinue)
	}
	items = append(items, ChoiceScores, ChoiceQuit)

	if painter == nil {
		painter = NewPainter(nil)
	}
	backdrop.Resize(cfg.ScreenW, playHeight(cfg.ScreenH))

	return MenuModel{
		items:    items,
		best:     best,
		backdrop: backdrop,
		screen:   core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		painter:  painter,
		config:   cfg,
		keys:     DefaultMenuKeyMap(),
		help:     help.New(),
	}
}

// Init starts the backdrop animation.
func (m MenuModel) Init() tea.Cmd {
	return m.nextTick()
}

func (m MenuModel) nextTick() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tickCmd(m.config.TickInterval())
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playHeight(msg.Height))
		m.backdrop.Resize(msg.Width, playHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.chosen != ChoiceNone {
			return m, nil
		}
		m.backdrop.Step(m.config.TickInterval())
		return m, m.nextTick()
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.choose(ChoiceQuit)
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.items)
	case key.Matches(msg, m.keys.Select):
		return m.choose(m.items[m.cursor])
	}
	return m, nil
}

func (m MenuModel) choose(c MenuChoice) (tea.Model, tea.Cmd) {
	m.chosen = c
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.chosen == ChoiceQuit {
		return ""
	}

	m.screen.Clear()
	m.backdrop.Render(m.screen)

	boxW, boxH := 30, len(m.items)+6
	box := core.Box{X: (m.screen.Width() - boxW) / 2, Y: (m.screen.Height() - boxH) / 2, W: boxW, H: boxH}
	m.screen.FillBox(box, ' ')
	m.screen.DrawBox(box, core.ColorCyan)
	m.screen.DrawTextCentered(box.Y+1, "B U B B L E   M A T H", core.ColorBrightYellow)
	m.screen.DrawTextCentered(box.Y+2, fmt.Sprintf("best %d", m.best), core.ColorGray)

	for i, item := range m.items {
		label, color := "  "+item.String()+"  ", core.ColorWhite
		if i == m.cursor {
			label, color = "> "+item.String()+" <", core.ColorBrightGreen
		}
		m.screen.DrawTextCentered(box.Y+4+i, label, color)
	}

	return m.painter.Paint(m.screen) + "\n" + m.help.View(m.keys)
}

// Chosen returns the picked item, or ChoiceNone while the menu is open.
func (m MenuModel) Chosen() MenuChoice {
	return m.chosen
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// RunMenu shows the menu in the local terminal and returns the choice.
func RunMenu(backdrop *bubblemath.Backdrop, canContinue bool, best int, cfg core.RuntimeConfig) (MenuChoice, core.RuntimeConfig, error) {
	p := tea.NewProgram(NewMenuModel(backdrop, canContinue, best, cfg, nil), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return ChoiceQuit, cfg, err
	}
	m, ok := final.(MenuModel)
	if !ok || m.Chosen() == ChoiceNone {
		return ChoiceQuit, cfg, nil
	}
	return m.Chosen(), m.Config(), nil
}
