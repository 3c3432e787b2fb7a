package bubblemath

import (
	"fmt"
	"time"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/session"
)

const (
	flashTime = 900 * time.Millisecond
	burstTime = 300 * time.Millisecond
)

// cues turns answer events into a flash message and the terminal bell.
type cues struct {
	machine *session.Machine

	bell  bool
	text  string
	color core.Color
	left  time.Duration
}

func (c *cues) CorrectAnswer() {
	c.show(fmt.Sprintf("+%d", c.machine.LastGain()), core.ColorBrightGreen)
}

func (c *cues) WrongAnswer() {
	r := c.machine.Round()
	c.bell = true
	c.show(fmt.Sprintf("%d %s %d = %d", r.Start, r.Op, r.Digit, r.Target), core.ColorBrightRed)
}

func (c *cues) BubbleSelected(int) {}

func (c *cues) show(text string, color core.Color) {
	c.text, c.color, c.left = text, color, flashTime
}

func (c *cues) tick(dt time.Duration) {
	if c.left > 0 {
		c.left -= dt
	}
}

// takeBell reports and resets a pending bell.
func (c *cues) takeBell() bool {
	b := c.bell
	c.bell = false
	return b
}

type burst struct {
	at   core.Vec2
	left time.Duration
}

// bursts tracks bubble positions so a short pop can be drawn where a
// selected bubble was.
type bursts struct {
	pos  map[int]core.Vec2
	live []burst
}

func newBursts() *bursts {
	return &bursts{pos: make(map[int]core.Vec2)}
}

func (b *bursts) BubbleCreated(bub field.Bubble) {
	b.pos[bub.ID] = bub.Pos
}

func (b *bursts) BubbleRemoved(id int, reason field.RemoveReason) {
	if p, ok := b.pos[id]; ok && reason == field.Selected {
		b.live = append(b.live, burst{at: p, left: burstTime})
	}
	delete(b.pos, id)
}

func (b *bursts) tick(dt time.Duration) {
	kept := b.live[:0]
	for _, bu := range b.live {
		bu.left -= dt
		if bu.left > 0 {
			kept = append(kept, bu)
		}
	}
	b.live = kept
}

func (b *bursts) reset() {
	clear(b.pos)
	b.live = nil
}
