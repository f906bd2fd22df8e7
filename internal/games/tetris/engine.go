package tetris

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
)

// DimensionsFromConfig converts the board section of cfg.
func DimensionsFromConfig(cfg config.TetrisConfig) Dimensions {
	return Dimensions{
		Width:  cfg.Board.Width,
		Height: cfg.Board.Height,
		SpawnX: cfg.Board.SpawnX,
	}
}

// TimingFromConfig converts the timing section of cfg.
func TimingFromConfig(cfg config.TetrisConfig) Timing {
	return Timing{Cycle: cfg.Timing.Cycle(), Poll: cfg.Timing.Poll()}
}

// NewEngine builds a session seeded with seed and the loop that drives it.
// When difficulty is enabled in cfg the cycle period shrinks with progress.
// The same cfg and seed always yield the same piece sequence.
func NewEngine(cfg config.TetrisConfig, seed int64, sink RenderSink, opts ...LoopOption) *Loop {
	session := NewSession(DimensionsFromConfig(cfg), rand.New(rand.NewSource(seed)))
	timing := TimingFromConfig(cfg)

	difficulty := config.NewDifficultyManager(cfg.Difficulty)
	if difficulty.IsEnabled() {
		opts = append([]LoopOption{WithPeriod(func(score, pieces int) time.Duration {
			return difficulty.CyclePeriod(timing.Cycle, timing.Poll, score, pieces)
		})}, opts...)
	}

	return NewLoop(session, timing, sink, opts...)
}
