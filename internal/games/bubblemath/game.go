// Package bubblemath adapts the session engine to the terminal platform:
// it turns key and mouse picks into bubble selections and draws the field
// and HUD into a screen buffer.
package bubblemath

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/session"
)

// Start selects how Reset begins play.
type Start int

const (
	StartFresh    Start = iota // New session at score 0
	StartContinue              // Continue from the saved score, falling back to fresh
)

// Options wires the game to its configuration and collaborators.
type Options struct {
	Config      config.GameConfig
	Progress    session.Progress
	Leaderboard session.Leaderboard
	Logger      *log.Logger

	Start  Start
	Resume *session.Snapshot // Restores a suspended session instead of starting one
}

// Game is the playable arithmetic bubble game.
type Game struct {
	opts    Options
	runtime core.RuntimeConfig
	logger  *log.Logger

	field   *field.Field
	machine *session.Machine
	view    viewport
	cues    *cues
	bursts  *bursts
}

// New creates a game. Call Reset before stepping it.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{opts: opts, logger: logger}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "bubblemath"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Bubble Math"
}

// Reset builds a new session for the given runtime and starts it.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt
	cfg := g.opts.Config
	rng := rand.New(rand.NewSource(rt.Seed))

	g.bursts = newBursts()
	g.field = field.New(cfg.Arena.FieldSettings(), rng, g.bursts, g.logger.WithPrefix("field"))
	gen := round.NewGenerator(rng, cfg.RoundSettings(), g.logger.WithPrefix("round"))

	g.cues = &cues{}
	g.machine = session.New(cfg.SessionRules(), gen, g.field, session.Collaborators{
		Progress:    g.opts.Progress,
		Leaderboard: g.opts.Leaderboard,
		Feedback:    g.cues,
	}, g.logger.WithPrefix("session"))
	g.cues.machine = g.machine

	g.Resize(rt.ScreenW, rt.ScreenH)

	switch {
	case g.opts.Resume != nil:
		g.machine.ApplySnapshot(*g.opts.Resume)
		g.logger.Info("session resumed", "score", g.machine.Score(), "state", g.machine.State())
	case g.opts.Start == StartContinue:
		if err := g.machine.Continue(); err != nil {
			g.logger.Info("cannot continue, starting fresh", "err", err)
			g.machine.Start()
		}
	default:
		g.machine.Start()
	}
}

// Resize adapts the world to screen mapping without touching the session.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW, g.runtime.ScreenH = w, h
	if g.field == nil {
		return
	}
	g.view = newViewport(g.field.Settings().Bounds, w, h)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	dt := g.runtime.TickInterval()
	m := g.machine

	if in.Has(core.ActionPause) {
		m.TogglePause()
	}

	if m.State() == session.Ended {
		switch {
		case in.Has(core.ActionContinue):
			g.bursts.reset()
			if err := m.Continue(); err != nil && !errors.Is(err, session.ErrNothingToContinue) {
				g.logger.Warn("continue failed", "err", err)
			}
		case in.Has(core.ActionRestart):
			g.bursts.reset()
			m.Start()
		}
	}

	for _, p := range in.Picks {
		g.pick(p)
	}

	m.Advance(dt)
	if m.State() == session.Active {
		g.bursts.tick(dt)
		g.cues.tick(dt)
	}

	return core.StepResult{State: g.State(), Bell: g.cues.takeBell()}
}

// pick resolves a player selection to a live bubble and hands it to the
// session.
func (g *Game) pick(p core.Pick) session.Outcome {
	var (
		b  field.Bubble
		ok bool
	)
	if p.Mouse {
		b, ok = g.field.Nearest(g.view.ToWorld(p.CellX, p.CellY), g.pickRadius())
	} else {
		b, ok = g.field.FindDigit(p.Digit)
	}
	if !ok {
		return session.Ignored
	}
	return g.machine.Select(b.ID)
}

// pickRadius is how far from a click a bubble still counts as hit.
func (g *Game) pickRadius() float64 {
	cell := g.view.CellSize()
	return max(g.field.Settings().MinSeparation/2, 2*cell.X, cell.Y)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawBox(core.Box{X: 0, Y: 0, W: dst.Width(), H: dst.Height()}, core.ColorGray)

	m := g.machine
	now := g.field.Now()
	for _, b := range g.field.Bubbles() {
		drawBubble(dst, g.view, b, now)
	}
	for _, bu := range g.bursts.live {
		x, y := g.view.ToCell(bu.at)
		dst.SetColor(x, y, '*', core.ColorBrightYellow)
	}

	g.drawHUD(dst)

	switch {
	case m.State() == session.Paused:
		drawMessage(dst, "PAUSED", "P: resume  Q: quit")
	case m.State() == session.Ended:
		hint := "R: new game  Q: quit"
		if m.CanContinue() {
			hint = "R: new game  C: continue  Q: quit"
		}
		drawMessage(dst, "GAME OVER", hint)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	m := g.machine
	top := g.view.area.Y
	w := dst.Width()

	score := fmt.Sprintf(" Score %d  Best %d ", m.Score(), m.HighScore())
	dst.DrawTextColor(2, top, score, core.ColorBrightWhite)

	mult := g.opts.Config.Table().Params(m.Tier()).ScoreMultiplier
	level := fmt.Sprintf(" %s x%g ", m.Tier(), mult)
	if next, ok := m.Tier().Next(); ok {
		level = fmt.Sprintf(" %s x%g  next %d ", m.Tier(), mult, next.Threshold())
	}
	dst.DrawTextColor(w-len(level)-2, top, level, core.ColorMagenta)

	if m.State() != session.Ended {
		dst.DrawTextCentered(top, " "+m.Round().Expression()+" ", core.ColorBrightYellow)
	}

	status := fmt.Sprintf(" Round %d  %ds left ", m.RoundNumber(), int(m.RoundRemaining().Seconds()))
	if left := m.SessionRemaining(); left > 0 {
		status += fmt.Sprintf(" Clock %ds ", int(left.Round(time.Second).Seconds()))
	}
	dst.DrawTextColor(2, top+1, status, core.ColorGray)

	if g.cues.left > 0 {
		dst.DrawTextCentered(top+1, " "+g.cues.text+" ", g.cues.color)
	}

	hint := "[P]ause"
	dst.DrawTextColor(w-len(hint)-3, dst.Height()-1, hint, core.ColorGray)
}

// drawMessage draws a framed two-line message in the middle of the screen.
func drawMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	box := core.Box{X: (dst.Width() - boxW) / 2, Y: (dst.Height() - boxH) / 2, W: boxW, H: boxH}

	dst.FillBox(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorBrightWhite)
	dst.DrawHLine(box.X+1, box.Y+2, box.W-2, '─', core.ColorGray)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorDefault)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	m := g.machine
	return core.GameState{
		Score:     m.Score(),
		HighScore: m.HighScore(),
		GameOver:  m.State() == session.Ended,
		Paused:    m.State() == session.Paused,
		CanResume: m.CanContinue(),
		TimeLeft:  m.RoundFraction(),
	}
}

// Session exposes the underlying state machine.
func (g *Game) Session() *session.Machine {
	return g.machine
}

// Snapshot captures the session for a later Resume.
func (g *Game) Snapshot() session.Snapshot {
	return g.machine.Snapshot()
}
