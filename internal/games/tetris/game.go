// Package tetris implements the falling-block engine: the grid, the seven
// pieces, movement and rotation with a translation-only wall kick, row
// clearing, scoring and the fixed-period gravity cycle.
package tetris

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Variant IDs registered by this package.
const (
	IDClassic  = "tetris"
	IDMarathon = "tetris_marathon"
)

// PollObserver is told about every piece-control action that reached the
// loop, with the zero-based index of the poll it was applied on.
type PollObserver func(poll int, a core.Action)

// Game adapts a Loop to the registry. Each Step is one poll interval.
type Game struct {
	id       string
	title    string
	desc     string
	marathon bool

	runtime  core.RuntimeConfig
	cfg      config.TetrisConfig
	seed     int64
	loop     *Loop
	paused   bool
	observer PollObserver
}

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           *log.Logger
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset ("easy", "normal", "hard", "fixed").
// Unknown names select the config default.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLogger sets the logger handed to every new loop.
func SetLogger(l *log.Logger) {
	logger = l
}

// New creates the classic variant: fixed 500ms gravity.
func New() *Game {
	return &Game{
		id:    IDClassic,
		title: "Tetris",
		desc:  "Classic rules, fixed gravity",
	}
}

// NewMarathon creates the variant whose gravity speeds up with score.
func NewMarathon() *Game {
	return &Game{
		id:       IDMarathon,
		title:    "Tetris Marathon",
		desc:     "Gravity speeds up as the score grows",
		marathon: true,
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return g.id }

// Title returns the display name for this game.
func (g *Game) Title() string { return g.title }

// Description returns a one-line summary for menus.
func (g *Game) Description() string { return g.desc }

// Reset loads the config and starts a new session.
// A zero runtime seed is replaced by the current time.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("using default config", "error", err)
		}
		cfg = config.DefaultTetrisConfig()
	}

	if g.marathon {
		cfg.Difficulty.Enabled = true
	}
	if difficultyPreset != "" {
		config.ApplyTetrisPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.seed = runtime.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}

	g.loop = NewEngine(cfg, g.seed, nil, WithLogger(logger))
	g.paused = false
	g.loop.Start()
}

// Step advances one poll interval.
// Pause toggles the pause state; other non-piece actions are ignored.
func (g *Game) Step(a core.Action) core.StepResult {
	if g.loop == nil || g.loop.Session().Over() {
		return core.StepResult{State: g.State()}
	}

	if a == core.ActionPause {
		g.paused = !g.paused
		return core.StepResult{State: g.State()}
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if !a.IsMove() {
		a = core.ActionNone
	}

	info := g.loop.Step(a)
	if g.observer != nil && a != core.ActionNone {
		g.observer(g.loop.Polls()-1, a)
	}
	if info.CycleEnded {
		info.Renders += g.loop.NextCycle()
	}

	return core.StepResult{State: g.State(), Renders: info.Renders}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.loop == nil {
		return
	}

	f := g.loop.Session().Snapshot()
	l := DrawFrame(dst, f, g.title)

	switch {
	case f.GameOver:
		DrawMessage(dst, l, "GAME OVER", DeletedRowsText(f.RowsCleared))
		dst.DrawText(l.HUD.X, l.Box.Bottom()-1, "R to restart")
	case g.paused:
		DrawMessage(dst, l, "PAUSED", "Esc to resume")
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.loop == nil {
		return core.GameState{}
	}
	s := g.loop.Session()
	return core.GameState{
		Score:    s.Score(),
		GameOver: s.Over(),
		Paused:   g.paused,
	}
}

// PollInterval returns how often Step should be called.
func (g *Game) PollInterval() time.Duration {
	if g.loop == nil {
		return config.DefaultTetrisConfig().Timing.Poll()
	}
	return g.loop.Timing().Poll
}

// Snapshot returns the visible state for deterministic testing.
func (g *Game) Snapshot() Frame {
	return g.loop.Session().Snapshot()
}

// RowsCleared returns the rows cleared in the current session.
func (g *Game) RowsCleared() int {
	if g.loop == nil {
		return 0
	}
	return g.loop.Session().RowsCleared()
}

// Seed returns the RNG seed of the current session.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the effective config of the current session.
func (g *Game) Config() config.TetrisConfig { return g.cfg }

// Polls returns the number of poll intervals applied to the loop.
func (g *Game) Polls() int {
	if g.loop == nil {
		return 0
	}
	return g.loop.Polls()
}

// Observe registers fn to be told about applied actions. nil removes it.
func (g *Game) Observe(fn PollObserver) {
	g.observer = fn
}

// Register the game variants with the registry
func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New()
	})
	registry.Register(IDMarathon, func() registry.Game {
		return NewMarathon()
	})
}
