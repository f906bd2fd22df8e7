package tetris

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Clock suspends the loop between input polls.
type Clock interface {
	Sleep(d time.Duration)
}

// RealClock sleeps on the wall clock.
type RealClock struct{}

// Sleep blocks for d.
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// VirtualClock advances instantly. Used for tests and headless replays.
type VirtualClock struct {
	now    time.Duration
	sleeps int
}

// Sleep advances the virtual time by d.
func (c *VirtualClock) Sleep(d time.Duration) {
	c.now += d
	c.sleeps++
}

// Now returns the virtual time elapsed since creation.
func (c *VirtualClock) Now() time.Duration { return c.now }

// Sleeps returns how many times Sleep was called.
func (c *VirtualClock) Sleeps() int { return c.sleeps }

// InputSource is polled once per interval and must never block.
// core.KeyLatch satisfies it.
type InputSource interface {
	Poll() core.Action
}

// RenderSink receives a frame for every visible state change.
type RenderSink interface {
	Render(f Frame)
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func(f Frame)

// Render calls fn(f).
func (fn RenderFunc) Render(f Frame) { fn(f) }

// Timing holds the cycle period and the poll interval.
type Timing struct {
	Cycle time.Duration
	Poll  time.Duration
}

// DefaultTiming returns the 500ms cycle polled every 10ms.
func DefaultTiming() Timing {
	return Timing{Cycle: 500 * time.Millisecond, Poll: 10 * time.Millisecond}
}

// PeriodFunc returns the cycle period for the given progress.
type PeriodFunc func(score, pieces int) time.Duration

// StepInfo reports what one poll interval did.
type StepInfo struct {
	Renders    int
	Moved      bool
	Froze      bool
	Freeze     FreezeResult
	CycleEnded bool
}

// Loop runs the gravity cycle of a Session: one gravity step when a cycle
// begins, then one action per poll interval until gravity blocks or the
// cycle period elapses.
type Loop struct {
	session *Session
	timing  Timing
	sink    RenderSink
	logger  *log.Logger
	period  PeriodFunc
	limit   int // Run stops after this many polls; 0 means no limit

	started     bool
	pending     bool // Previous cycle ended, next not begun
	blocked     bool
	elapsed     time.Duration
	cyclePeriod time.Duration
	cycles      int
	polls       int
	renders     int
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the logger for cycle events.
func WithLogger(l *log.Logger) LoopOption {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithPeriod makes the cycle period depend on progress.
func WithPeriod(fn PeriodFunc) LoopOption {
	return func(lp *Loop) { lp.period = fn }
}

// WithPollLimit makes Run return after n poll intervals even when the game
// is still running.
func WithPollLimit(n int) LoopOption {
	return func(lp *Loop) { lp.limit = n }
}

// NewLoop creates a loop over s. A nil sink discards frames.
func NewLoop(s *Session, timing Timing, sink RenderSink, opts ...LoopOption) *Loop {
	l := &Loop{
		session: s,
		timing:  timing,
		sink:    sink,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Session returns the driven session.
func (l *Loop) Session() *Session { return l.session }

// Timing returns the base timing.
func (l *Loop) Timing() Timing { return l.timing }

// Cycles returns the number of cycles begun.
func (l *Loop) Cycles() int { return l.cycles }

// Polls returns the number of poll intervals stepped.
func (l *Loop) Polls() int { return l.polls }

// Renders returns the number of frames pushed to the sink.
func (l *Loop) Renders() int { return l.renders }

// Period returns the period of the current cycle.
func (l *Loop) Period() time.Duration { return l.cyclePeriod }

func (l *Loop) render() int {
	l.renders++
	if l.sink != nil {
		l.sink.Render(l.session.Snapshot())
	}
	return 1
}

// Start draws the initial frame and begins the first cycle.
// It returns the number of renders performed. Calling it again is a no-op.
func (l *Loop) Start() int {
	if l.started {
		return 0
	}
	l.started = true
	n := l.render()
	l.pending = true
	return n + l.NextCycle()
}

// NextCycle begins a pending cycle: the period is recomputed and gravity is
// applied immediately. It does nothing while a cycle is running or after
// game over.
func (l *Loop) NextCycle() int {
	if !l.pending || l.session.Over() {
		return 0
	}
	l.pending = false
	l.cycles++
	l.elapsed = 0
	l.cyclePeriod = l.timing.Cycle
	if l.period != nil {
		l.cyclePeriod = l.period(l.session.Score(), l.session.Pieces())
	}

	l.blocked = l.session.Gravity()
	if !l.blocked {
		return l.render()
	}
	return 0
}

// Step advances one poll interval with action a.
// A pending cycle is begun first, so callers that never call NextCycle get
// the same ordering one interval later.
func (l *Loop) Step(a core.Action) StepInfo {
	var info StepInfo
	if !l.started {
		info.Renders += l.Start()
	}
	if l.session.Over() {
		return info
	}
	info.Renders += l.NextCycle()

	l.polls++
	l.elapsed += l.timing.Poll

	changed, dropBlocked := l.session.Move(a)
	info.Moved = changed
	switch {
	case a == core.ActionSoftDrop:
		l.blocked = dropBlocked
	case changed && l.blocked:
		l.blocked = l.session.Resting()
	}

	if l.blocked {
		info.Froze = true
		info.Freeze = l.freeze()
		info.Renders += l.render()
		info.Renders += l.endCycle()
		info.CycleEnded = true
		return info
	}

	if changed {
		info.Renders += l.render()
	}
	if l.elapsed >= l.cyclePeriod {
		info.Renders += l.endCycle()
		info.CycleEnded = true
	}
	return info
}

func (l *Loop) freeze() FreezeResult {
	res := l.session.Freeze()
	l.logger.Debug("piece frozen", "pieces", l.session.Pieces(), "cycle", l.cycles)
	if res.Cleared > 0 {
		l.logger.Debug("rows cleared",
			"cleared", res.Cleared,
			"heights", res.HeightSum,
			"points", res.Points,
			"score", l.session.Score(),
		)
	}
	if res.Overflow {
		l.logger.Debug("game over",
			"score", l.session.Score(),
			"rows", l.session.RowsCleared(),
			"pieces", l.session.Pieces(),
		)
	}
	return res
}

func (l *Loop) endCycle() int {
	l.blocked = false
	l.pending = true
	return l.render()
}

// Run drives the loop until game over or the poll limit: sleep one poll
// interval, poll the input, step. ctx is checked between cycles only; a
// cancelled context returns ctx.Err() with the session left as it was at the
// cycle boundary.
func (l *Loop) Run(ctx context.Context, clock Clock, input InputSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.Start()
	for !l.session.Over() {
		if l.limit > 0 && l.polls >= l.limit {
			return nil
		}
		clock.Sleep(l.timing.Poll)
		info := l.Step(input.Poll())
		if info.CycleEnded {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.NextCycle()
		}
	}
	return nil
}
