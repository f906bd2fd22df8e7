package core

import "sync"

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveLeft         // A, Left arrow
	ActionMoveRight        // D, Right arrow
	ActionSoftDrop         // S, Down arrow
	ActionRotateCW         // P, Up arrow
	ActionRotateCCW        // O
	ActionPause            // Space, Escape
	ActionRestart          // R, after game over
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action is one of the piece-control actions
// the simulation core consumes.
func (a Action) IsMove() bool {
	switch a {
	case ActionMoveLeft, ActionMoveRight, ActionSoftDrop, ActionRotateCW, ActionRotateCCW:
		return true
	}
	return false
}

// ParseAction is the inverse of Action.String. Unknown names map to ActionNone.
func ParseAction(s string) Action {
	for a := ActionNone; a <= ActionQuit; a++ {
		if a.String() == s {
			return a
		}
	}
	return ActionNone
}

// KeyLatch is a non-blocking input source with a single slot.
// Push overwrites whatever is pending, so only the last action of a burst
// survives until the next Poll.
type KeyLatch struct {
	mu      sync.Mutex
	pending Action
}

// NewKeyLatch creates an empty latch.
func NewKeyLatch() *KeyLatch {
	return &KeyLatch{}
}

// Push records an action. ActionNone is ignored so it never erases a real key.
func (l *KeyLatch) Push(a Action) {
	if a == ActionNone {
		return
	}
	l.mu.Lock()
	l.pending = a
	l.mu.Unlock()
}

// Poll returns the pending action and empties the slot.
// Returns ActionNone when nothing was pushed since the last poll.
func (l *KeyLatch) Poll() Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.pending
	l.pending = ActionNone
	return a
}
