package bubblemath

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
)

// viewport maps arena world units onto a box of screen cells. World Y grows
// upward, screen rows grow downward.
type viewport struct {
	world core.Rect
	area  core.Box
}

// newViewport maps world onto a w x h screen, leaving a one-cell frame.
func newViewport(world core.Rect, w, h int) viewport {
	return viewport{
		world: world,
		area:  core.Box{X: 1, Y: 1, W: max(w-2, 1), H: max(h-2, 1)},
	}
}

// ToCell returns the screen cell closest to p.
func (v viewport) ToCell(p core.Vec2) (x, y int) {
	fx := (p.X - v.world.Min.X) / v.world.Width()
	fy := (v.world.Max.Y - p.Y) / v.world.Height()
	x = v.area.X + int(math.Round(fx*float64(v.area.W-1)))
	y = v.area.Y + int(math.Round(fy*float64(v.area.H-1)))
	return x, y
}

// ToWorld returns the world point at the center of cell (x, y).
func (v viewport) ToWorld(x, y int) core.Vec2 {
	fx, fy := 0.5, 0.5
	if v.area.W > 1 {
		fx = float64(x-v.area.X) / float64(v.area.W-1)
	}
	if v.area.H > 1 {
		fy = float64(y-v.area.Y) / float64(v.area.H-1)
	}
	return core.V(
		v.world.Min.X+fx*v.world.Width(),
		v.world.Max.Y-fy*v.world.Height(),
	)
}

// CellSize returns the world size of one screen cell.
func (v viewport) CellSize() core.Vec2 {
	return core.V(
		v.world.Width()/float64(max(v.area.W-1, 1)),
		v.world.Height()/float64(max(v.area.H-1, 1)),
	)
}

// drawBubble renders b as "(d)" centered on its cell. Bubbles close to
// expiry fade out.
func drawBubble(dst *core.Screen, v viewport, b field.Bubble, now time.Duration) {
	label := "(" + strconv.Itoa(b.Digit) + ")"
	x, y := v.ToCell(b.Pos)

	color := core.ColorBrightCyan
	if b.Lifetime > 0 {
		frac := float64(b.Remaining(now)) / float64(b.Lifetime)
		color = core.Fade(frac, core.ColorBrightCyan, core.ColorBrightCyan, core.ColorCyan, core.ColorGray)
	}
	dst.DrawTextColor(x-len(label)/2, y, label, color)
}

// Backdrop is the attract-mode bubble field shown behind menus.
type Backdrop struct {
	attract *field.Attract
	view    viewport
}

// NewBackdrop creates a backdrop over attract, drawn on a w x h screen.
func NewBackdrop(attract *field.Attract, w, h int) *Backdrop {
	return &Backdrop{
		attract: attract,
		view:    newViewport(attract.Field().Settings().Bounds, w, h),
	}
}

// NewMenuBackdrop builds an attract-mode backdrop for the arena and attract
// settings in cfg.
func NewMenuBackdrop(cfg config.GameConfig, seed int64, w, h int) *Backdrop {
	rng := rand.New(rand.NewSource(seed))
	f := field.New(cfg.Arena.FieldSettings(), rng, nil, nil)
	a := cfg.Attract
	return NewBackdrop(field.NewAttract(f, rng, a.Digits.Min, a.Digits.Max, a.SpawnInterval, a.Lifetime), w, h)
}

// Resize changes the screen size the backdrop is drawn on.
func (b *Backdrop) Resize(w, h int) {
	b.view = newViewport(b.attract.Field().Settings().Bounds, w, h)
}

// Step advances the backdrop by dt.
func (b *Backdrop) Step(dt time.Duration) {
	b.attract.Advance(dt)
}

// Render draws the live backdrop bubbles. The screen is not cleared.
func (b *Backdrop) Render(dst *core.Screen) {
	f := b.attract.Field()
	for _, bub := range f.Bubbles() {
		drawBubble(dst, b.view, bub, f.Now())
	}
}
