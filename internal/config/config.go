// Package config provides YAML-based game configuration loading and
// difficulty management for blockfall.
package config

import (
	"errors"
	"fmt"
	"time"
)

// TetrisConfig contains all configuration for the falling-block game.
type TetrisConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Timing     TimingConfig     `yaml:"timing"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the playfield geometry.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	SpawnX int `yaml:"spawn_x"` // Anchor column of every new piece
}

// TimingConfig defines the gravity cycle and the input poll cadence.
type TimingConfig struct {
	CycleMS int `yaml:"cycle_ms"` // One gravity step per cycle
	PollMS  int `yaml:"poll_ms"`  // Sleep between input polls inside a cycle
}

// Cycle returns the cycle period as a duration.
func (t TimingConfig) Cycle() time.Duration {
	return time.Duration(t.CycleMS) * time.Millisecond
}

// Poll returns the poll interval as a duration.
func (t TimingConfig) Poll() time.Duration {
	return time.Duration(t.PollMS) * time.Millisecond
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "pieces", or "none"
	MaxAt int    `yaml:"max_at"` // Score/piece count at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Extra gravity speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI flag value to a preset. Empty and unknown
// values return "" which means "use the config file as is".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid tetris config")

// Validate checks that the config describes a playable board.
// The I piece spans four columns once rotated, so narrower boards
// would let a rotation overflow both walls at once.
func (c TetrisConfig) Validate() error {
	b := c.Board
	switch {
	case b.Width < 4:
		return fmt.Errorf("%w: board width %d < 4", ErrInvalidConfig, b.Width)
	case b.Height < 4:
		return fmt.Errorf("%w: board height %d < 4", ErrInvalidConfig, b.Height)
	case b.SpawnX < 1 || b.SpawnX > b.Width-2:
		return fmt.Errorf("%w: spawn_x %d outside [1, %d]", ErrInvalidConfig, b.SpawnX, b.Width-2)
	case c.Timing.CycleMS <= 0 || c.Timing.PollMS <= 0:
		return fmt.Errorf("%w: timings must be positive (cycle %dms, poll %dms)",
			ErrInvalidConfig, c.Timing.CycleMS, c.Timing.PollMS)
	case c.Timing.PollMS > c.Timing.CycleMS:
		return fmt.Errorf("%w: poll %dms longer than cycle %dms",
			ErrInvalidConfig, c.Timing.PollMS, c.Timing.CycleMS)
	}
	return nil
}
