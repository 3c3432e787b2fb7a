package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionPause           // P, Escape - pause/unpause game
	ActionRestart         // R key - restart game after game over
	ActionContinue        // C key - continue with the saved score after game over
	ActionQuit            // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionContinue:
		return "Continue"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Pick is a player selection: either a digit typed on the keyboard or a
// screen cell clicked with the mouse.
type Pick struct {
	Digit int  // Digit key pressed, valid when !Mouse
	Mouse bool // Whether the pick came from a mouse click
	CellX int  // Clicked column, valid when Mouse
	CellY int  // Clicked row, valid when Mouse
}

// InputFrame represents the input state for a single simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// Picks holds the selections made this frame, in order.
	Picks []Pick
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// AddPick records a selection for this frame.
func (f *InputFrame) AddPick(p Pick) {
	f.Picks = append(f.Picks, p)
}

// Clear resets all actions and picks for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Picks = f.Picks[:0]
}
