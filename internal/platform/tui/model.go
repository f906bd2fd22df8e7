package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// recordable is implemented by games whose sessions can be journaled.
type recordable interface {
	Seed() int64
	Config() config.TetrisConfig
	Polls() int
	Observe(fn tetris.PollObserver)
}

// Options configure a game Model.
type Options struct {
	Store  *storage.Store // Replay journal; nil disables recording
	Logger *log.Logger
}

// Model is the Bubble Tea model for running a game.
// Key presses land in a KeyLatch; every tick polls it once and steps the
// game one poll interval, so only the last key between two ticks counts.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	latch     *core.KeyLatch
	keys      *KeyMapper
	help      help.Model
	store     *storage.Store
	logger    *log.Logger
	recorder  *replay.Recorder
	config    core.RuntimeConfig
	gameState core.GameState
	quitting  bool
	saved     bool  // Whether the current session has been journaled
	replayID  int64 // ID of the last journaled session
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) *Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	m := &Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-1)),
		latch:  core.NewKeyLatch(),
		keys:   NewKeyMapper(),
		help:   help.New(),
		store:  opts.Store,
		logger: logger,
		config: cfg,
	}
	m.help.Width = cfg.ScreenW
	m.reset()
	return m
}

// reset starts a fresh session and, when journaling, a fresh recorder.
func (m *Model) reset() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.saved = false
	m.recorder = nil

	if r, ok := m.game.(recordable); ok && m.store != nil {
		m.recorder = replay.NewRecorder(nil)
		r.Observe(m.recorder.Observe)
	}
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.game.PollInterval())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(1, msg.Height-1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.saveReplay()
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionRestart {
		if m.gameState.GameOver {
			m.config.Seed = time.Now().UnixNano()
			m.reset()
		}
		return m, nil
	}

	// Pause bypasses the latch so a move in the same tick cannot drop it
	if action == core.ActionPause {
		m.gameState = m.game.Step(action).State
		return m, nil
	}

	m.latch.Push(action)
	return m, nil
}

// handleTick steps the game one poll interval.
func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.latch.Poll())
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveReplay()
	}

	return m, tickCmd(m.game.PollInterval())
}

// saveReplay journals the current session once.
func (m *Model) saveReplay() {
	if m.saved || m.recorder == nil || m.store == nil {
		return
	}
	r, ok := m.game.(recordable)
	if !ok || r.Polls() == 0 {
		return
	}
	m.saved = true

	h := replay.Header{
		Variant: m.game.ID(),
		Seed:    r.Seed(),
		Config:  r.Config(),
		Polls:   r.Polls(),
	}
	id, err := replay.Save(m.store, h, m.recorder.Script())
	if err != nil {
		m.logger.Warn("could not journal game", "error", err)
		return
	}
	m.replayID = id
	m.logger.Info("game journaled",
		"replay", id,
		"variant", h.Variant,
		"score", m.gameState.Score,
		"polls", h.Polls,
	)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".blockfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Debug("screenshot saved", "path", path)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// State returns the last observed game state.
func (m *Model) State() core.GameState { return m.gameState }

// ReplayID returns the journal ID of the last saved session, or 0.
func (m *Model) ReplayID() int64 { return m.replayID }

// rowCounter is implemented by games that track cleared rows.
type rowCounter interface {
	RowsCleared() int
}

// RunResult summarizes a finished TUI session.
type RunResult struct {
	State       core.GameState
	RowsCleared int
	ReplayID    int64
}

// Result summarizes the session so far.
func (m *Model) Result() RunResult {
	res := RunResult{State: m.gameState, ReplayID: m.replayID}
	if rc, ok := m.game.(rowCounter); ok {
		res.RowsCleared = rc.RowsCleared()
	}
	return res
}

// Run starts the Bubble Tea program for game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (RunResult, error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		return RunResult{}, fmt.Errorf("tui: %w", err)
	}

	// A program killed mid-game still deserves a journal entry
	model.saveReplay()
	return model.Result(), nil
}
