package replay

import (
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

// Recorder captures the actions of a running game.
// It either wraps the loop's InputSource (Poll) or is fed by a game
// observer (Observe); a single recorder should use one of the two.
type Recorder struct {
	src    tetris.InputSource
	script *Script
	polls  uint64
}

// NewRecorder creates a recorder around src. src may be nil when the
// recorder is only fed through Observe.
func NewRecorder(src tetris.InputSource) *Recorder {
	return &Recorder{src: src, script: NewScript()}
}

// Poll forwards to the wrapped source and records the result.
func (r *Recorder) Poll() core.Action {
	a := core.ActionNone
	if r.src != nil {
		a = r.src.Poll()
	}
	if a.IsMove() {
		r.script.Set(r.polls, a)
	} else {
		a = core.ActionNone
	}
	r.polls++
	return a
}

// Observe records a applied on poll. Matches tetris.PollObserver.
func (r *Recorder) Observe(poll int, a core.Action) {
	if poll < 0 || !a.IsMove() {
		return
	}
	r.script.Set(uint64(poll), a)
	if uint64(poll) >= r.polls {
		r.polls = uint64(poll) + 1
	}
}

// Script returns the recorded script.
func (r *Recorder) Script() *Script { return r.script }

// Polls returns the number of polls seen through Poll, or one past the
// last observed poll.
func (r *Recorder) Polls() int { return int(r.polls) }

// Player is an InputSource that replays a script.
type Player struct {
	script *Script
	poll   uint64
}

// NewPlayer creates a player positioned at poll 0.
func NewPlayer(s *Script) *Player {
	return &Player{script: s}
}

// Poll returns the scripted action for the current poll and advances.
func (p *Player) Poll() core.Action {
	a := p.script.At(p.poll)
	p.poll++
	return a
}

// Position returns the number of polls served.
func (p *Player) Position() int { return int(p.poll) }
