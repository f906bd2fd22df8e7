package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// ViewerModel plays a journaled game back in real time.
// Space pauses, q leaves; the board stays up after the last poll.
type ViewerModel struct {
	header   replay.Header
	loop     *tetris.Loop
	player   *replay.Player
	screen   *core.Screen
	keys     *KeyMapper
	paused   bool
	quitting bool
}

// NewViewerModel rebuilds the session of h ready to be fed s.
func NewViewerModel(h replay.Header, s *replay.Script, cfg core.RuntimeConfig) *ViewerModel {
	loop := tetris.NewEngine(h.Config, h.Seed, nil, tetris.WithPollLimit(h.Polls))
	loop.Start()

	return &ViewerModel{
		header: h,
		loop:   loop,
		player: replay.NewPlayer(s),
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keys:   NewKeyMapper(),
	}
}

// Done reports whether every recorded poll has been replayed.
func (m *ViewerModel) Done() bool {
	return m.loop.Polls() >= m.header.Polls || m.loop.Session().Over()
}

// Advance replays one poll.
func (m *ViewerModel) Advance() {
	if m.Done() {
		return
	}
	info := m.loop.Step(m.player.Poll())
	if info.CycleEnded && !m.loop.Session().Over() {
		m.loop.NextCycle()
	}
}

// Frame returns the current board.
func (m *ViewerModel) Frame() tetris.Frame {
	return m.loop.Session().Snapshot()
}

// Init starts the tick loop.
func (m *ViewerModel) Init() tea.Cmd {
	return tickCmd(m.loop.Timing().Poll)
}

// Update handles messages and advances playback.
func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action, isQuit := m.keys.MapKey(msg)
		if isQuit || msg.String() == "b" {
			m.quitting = true
			return m, tea.Quit
		}
		if action == core.ActionPause {
			m.paused = !m.paused
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if !m.paused {
			m.Advance()
		}
		if m.Done() {
			return m, nil
		}
		return m, tickCmd(m.loop.Timing().Poll)
	}

	return m, nil
}

// View renders the board with playback status.
func (m *ViewerModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	f := m.Frame()
	l := tetris.DrawFrame(m.screen, f, fmt.Sprintf("Replay #%d", m.header.ID))
	m.screen.DrawText(l.HUD.X, l.HUD.Y+6, fmt.Sprintf("Poll %d/%d", m.loop.Polls(), m.header.Polls))

	switch {
	case f.GameOver:
		tetris.DrawMessage(m.screen, l, "GAME OVER", tetris.DeletedRowsText(f.RowsCleared))
	case m.Done():
		tetris.DrawMessage(m.screen, l, "END OF REPLAY", tetris.DeletedRowsText(f.RowsCleared))
	case m.paused:
		tetris.DrawMessage(m.screen, l, "PAUSED", "Space to resume")
	}
	return RenderScreen(m.screen)
}

// RunViewer plays a journaled game back in the terminal.
func RunViewer(h replay.Header, s *replay.Script, cfg core.RuntimeConfig) (tetris.Frame, error) {
	model := NewViewerModel(h, s, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return tetris.Frame{}, fmt.Errorf("tui: viewer: %w", err)
	}
	return model.Frame(), nil
}
