package tetris

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
)

// script is an InputSource returning actions by poll index.
type script struct {
	actions map[int]core.Action
	polls   int
	onPoll  func(poll int)
}

func (s *script) Poll() core.Action {
	i := s.polls
	s.polls++
	if s.onPoll != nil {
		s.onPoll(i)
	}
	return s.actions[i]
}

type frameLog struct {
	frames []Frame
}

func (l *frameLog) Render(f Frame) { l.frames = append(l.frames, f) }

func newTestLoop(seed int64, sink RenderSink, opts ...LoopOption) *Loop {
	s := NewSession(DefaultDimensions(), rand.New(rand.NewSource(seed)))
	return NewLoop(s, DefaultTiming(), sink, opts...)
}

func lowestY(p Piece) int {
	_, _, minY, _ := p.Bounds()
	return minY
}

func TestLoopIdleCycle(t *testing.T) {
	frames := &frameLog{}
	l := newTestLoop(1, frames)
	spawnY := l.Session().Piece().Anchor.Y

	assert.Equal(t, 2, l.Start(), "initial render plus gravity render")
	assert.Equal(t, spawnY-1, l.Session().Piece().Anchor.Y, "gravity applies as the cycle begins")
	assert.Equal(t, 500*time.Millisecond, l.Period())
	assert.Zero(t, l.Start(), "second Start is a no-op")

	for i := 1; i < 50; i++ {
		info := l.Step(core.ActionNone)
		require.False(t, info.CycleEnded, "poll %d", i)
		require.Zero(t, info.Renders, "poll %d", i)
	}

	info := l.Step(core.ActionNone)
	assert.True(t, info.CycleEnded)
	assert.Equal(t, 1, info.Renders, "one render at cycle end")
	assert.Equal(t, 3, len(frames.frames))

	assert.Equal(t, 1, l.NextCycle())
	assert.Equal(t, spawnY-2, l.Session().Piece().Anchor.Y)
	assert.Equal(t, 2, l.Cycles())
	assert.Zero(t, l.NextCycle(), "cycle already running")
}

func TestLoopRendersPerCommittedChange(t *testing.T) {
	l := newTestLoop(1, nil)
	l.Start()
	l.session.piece = NewPiece(ShapeT, 4, 10)

	info := l.Step(core.ActionMoveLeft)
	assert.True(t, info.Moved)
	assert.Equal(t, 1, info.Renders)

	l.session.piece = NewPiece(ShapeT, 1, 10)
	info = l.Step(core.ActionMoveLeft)
	assert.False(t, info.Moved, "T at column 1 touches the wall")
	assert.Zero(t, info.Renders)

	info = l.Step(core.ActionRotateCW)
	assert.True(t, info.Moved)
	assert.Equal(t, 1, info.Renders)
}

func TestRunVirtualClock(t *testing.T) {
	clock := &VirtualClock{}
	l := newTestLoop(3, nil, WithPollLimit(120))
	spawnY := l.Session().Piece().Anchor.Y

	err := l.Run(context.Background(), clock, &script{})
	require.NoError(t, err)

	assert.Equal(t, 120, clock.Sleeps())
	assert.Equal(t, 1200*time.Millisecond, clock.Now())
	assert.Equal(t, 120, l.Polls())
	assert.Equal(t, 3, l.Cycles(), "cycles begin at 0ms, 500ms and 1000ms")
	assert.Equal(t, spawnY-3, l.Session().Piece().Anchor.Y)
}

func TestSoftDropToFreeze(t *testing.T) {
	l := newTestLoop(5, nil)
	l.Start()
	drops := lowestY(l.Session().Piece())

	for i := 0; i < drops; i++ {
		info := l.Step(core.ActionSoftDrop)
		require.True(t, info.Moved, "drop %d", i)
		require.False(t, info.Froze, "drop %d", i)
	}
	require.Zero(t, lowestY(l.Session().Piece()))

	info := l.Step(core.ActionSoftDrop)
	assert.True(t, info.Froze)
	assert.True(t, info.CycleEnded)
	assert.Equal(t, 2, info.Renders, "freeze render plus cycle end render")
	assert.Equal(t, 1, l.Session().Pieces())
	assert.Equal(t, 4, l.Session().Grid().Filled())
}

func TestBlockedAtCycleStartFreezesOnFirstPoll(t *testing.T) {
	l := newTestLoop(1, nil)
	l.session.piece = NewPiece(ShapeO, 4, 0)

	assert.Equal(t, 1, l.Start(), "blocked gravity does not render")

	info := l.Step(core.ActionNone)
	assert.True(t, info.Froze)
	assert.Equal(t, 1, l.Polls())
}

func TestBlockedRecheckAfterMove(t *testing.T) {
	t.Run("move off the ledge cancels freeze", func(t *testing.T) {
		l := newTestLoop(1, nil)
		l.session.grid.Set(5, 1)
		l.session.piece = NewPiece(ShapeO, 4, 2)
		l.Start()

		info := l.Step(core.ActionMoveLeft)
		assert.True(t, info.Moved)
		assert.False(t, info.Froze)
		assert.Equal(t, 1, info.Renders)
		assert.Equal(t, 3, l.Session().Piece().Anchor.X)
	})

	t.Run("move still resting freezes", func(t *testing.T) {
		l := newTestLoop(1, nil)
		l.session.piece = NewPiece(ShapeO, 4, 0)
		l.Start()

		info := l.Step(core.ActionMoveLeft)
		assert.True(t, info.Moved)
		assert.True(t, info.Froze)
		assert.True(t, l.Session().Grid().Occupied(3, 0))
	})

	t.Run("rejected move freezes", func(t *testing.T) {
		l := newTestLoop(1, nil)
		l.session.piece = NewPiece(ShapeO, 0, 0)
		l.Start()

		info := l.Step(core.ActionMoveLeft)
		assert.False(t, info.Moved)
		assert.True(t, info.Froze)
	})
}

func TestRunUntilGameOver(t *testing.T) {
	frames := &frameLog{}
	l := newTestLoop(11, frames, WithPollLimit(1_000_000))

	err := l.Run(context.Background(), &VirtualClock{}, core.NewKeyLatch())
	require.NoError(t, err)
	require.True(t, l.Session().Over())
	require.Less(t, l.Polls(), 1_000_000)

	over := -1
	for i, f := range frames.frames {
		if f.GameOver && over < 0 {
			over = i
		}
		if over >= 0 {
			assert.True(t, f.GameOver, "frame %d after game over", i)
		}
	}
	require.GreaterOrEqual(t, over, 0)

	// Further steps are ignored
	renders, polls := l.Renders(), l.Polls()
	assert.Equal(t, StepInfo{}, l.Step(core.ActionSoftDrop))
	assert.Zero(t, l.NextCycle())
	assert.Equal(t, renders, l.Renders())
	assert.Equal(t, polls, l.Polls())
}

func TestRunHonorsContextAtCycleBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newTestLoop(1, nil)
	input := &script{onPoll: func(poll int) {
		if poll == 5 {
			cancel()
		}
	}}

	err := l.Run(ctx, &VirtualClock{}, input)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 50, l.Polls(), "the running cycle completes")
	assert.Equal(t, 1, l.Cycles())
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newTestLoop(1, nil)
	err := l.Run(ctx, &VirtualClock{}, &script{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, l.Renders())
}

func TestRunIsDeterministic(t *testing.T) {
	actions := map[int]core.Action{
		3: core.ActionMoveLeft, 7: core.ActionMoveLeft, 12: core.ActionRotateCW,
		40: core.ActionSoftDrop, 41: core.ActionSoftDrop, 90: core.ActionMoveRight,
		150: core.ActionRotateCCW, 300: core.ActionSoftDrop,
	}

	run := func() (Frame, int) {
		l := newTestLoop(2024, nil, WithPollLimit(2000))
		require.NoError(t, l.Run(context.Background(), &VirtualClock{}, &script{actions: actions}))
		return l.Session().Snapshot(), l.Renders()
	}

	f1, r1 := run()
	f2, r2 := run()
	assert.Equal(t, f1, f2)
	assert.Equal(t, r1, r2)
}

func TestEnginePeriodFollowsDifficulty(t *testing.T) {
	cfg := config.DefaultTetrisConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 1.0

	l := NewEngine(cfg, 1, nil)
	l.Start()
	assert.Equal(t, 120*time.Millisecond, l.Period())

	for i := 1; i < 12; i++ {
		require.False(t, l.Step(core.ActionNone).CycleEnded, "poll %d", i)
	}
	assert.True(t, l.Step(core.ActionNone).CycleEnded)

	fixed := NewEngine(config.DefaultTetrisConfig(), 1, nil)
	fixed.Start()
	assert.Equal(t, 500*time.Millisecond, fixed.Period())
}
