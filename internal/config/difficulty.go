package config

import (
	"math"
	"time"
)

// DifficultyManager derives the gravity cycle period from game progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
// When progression is disabled the level is always 0 so the base
// cycle period is used unchanged.
func (d *DifficultyManager) Level(score, pieces int) float64 {
	if !d.IsEnabled() {
		return 0
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "pieces":
		progress = float64(pieces) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// CyclePeriod returns the gravity cycle period for the current progress.
// The period shrinks from base to base/(1+speed_multiplier) and never drops
// below two poll intervals, so each cycle still polls input at least twice.
func (d *DifficultyManager) CyclePeriod(base, poll time.Duration, score, pieces int) time.Duration {
	level := d.Level(score, pieces)
	if level == 0 {
		return base
	}
	period := time.Duration(float64(base) / (1.0 + level*d.cfg.Scaling.SpeedMultiplier))
	// Round down to whole poll intervals so cycles stay aligned to polls
	if poll > 0 {
		period -= period % poll
		if period < 2*poll {
			period = 2 * poll
		}
	}
	return period
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
