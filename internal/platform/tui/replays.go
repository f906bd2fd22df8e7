package tui

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/storage"
)

// Replay browser layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the stats sidebar
	sidebarWidth       = 24  // Width of the stats sidebar
	maxReplays         = 100 // Max replays to load
)

// ReplayKeyMap defines the key bindings for the replay browser.
type ReplayKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Watch  key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayListModel is the Bubble Tea model for browsing journaled games.
type ReplayListModel struct {
	store       *storage.Store
	replays     []storage.Replay
	stats       map[string]*storage.ReplayStats
	table       table.Model
	help        help.Model
	keys        ReplayKeyMap
	width       int
	height      int
	err         error // Last storage error, shown in place of the table
	quitting    bool
	goingBack   bool
	selected    int64 // Replay ID chosen with Watch, 0 if none
	showSidebar bool
}

// NewReplayListModel creates a new replay browser.
func NewReplayListModel(store *storage.Store, width, height int) ReplayListModel {
	m := ReplayListModel{
		store:       store,
		keys:        DefaultReplayKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.help.Width = width
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ReplayListModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Variant", Width: 16},
		{Title: "Seed", Width: 20},
		{Title: "Polls", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads recent replays and per-variant stats from the store.
func (m *ReplayListModel) load() {
	m.replays, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		m.replays, m.err = m.store.RecentReplays(maxReplays)
		if m.err == nil {
			m.stats, m.err = m.store.Stats()
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded replays.
func (m *ReplayListModel) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			r.Variant,
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Polls),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

// current returns the replay under the cursor.
func (m ReplayListModel) current() (storage.Replay, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.Replay{}, false
	}
	return m.replays[i], true
}

// Init initializes the replay browser.
func (m ReplayListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the replay browser.
func (m ReplayListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Watch):
			if r, ok := m.current(); ok {
				m.selected = r.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteReplay(r.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
)

// View renders the replay browser.
func (m ReplayListModel) View() string {
	if m.quitting || m.goingBack || m.selected != 0 {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("REPLAYS"), m.width))
	b.WriteString("\n\n")

	content := panelStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders per-variant totals.
func (m ReplayListModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Variants\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	variants := slices.Sorted(maps.Keys(m.stats))

	for _, v := range variants {
		st := m.stats[v]
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(v))
		sb.WriteString(fmt.Sprintf("\n  %d games, %d polls\n", st.Games, st.TotalPolls))
	}
	if len(variants) == 0 {
		sb.WriteString("none yet\n")
	}

	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTableContent renders the table or an empty message.
func (m ReplayListModel) renderTableContent() string {
	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not read replays:\n" + m.err.Error())
	case m.store == nil:
		return emptyStyle.Render("Replay storage is unavailable.")
	case len(m.replays) == 0:
		return emptyStyle.Render("No games recorded yet.\nPlay a game to record one!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplayListModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplayListModel) IsQuitting() bool {
	return m.quitting
}

// Selected returns the ID of the replay chosen for watching, or 0.
func (m ReplayListModel) Selected() int64 {
	return m.selected
}

// ReplayListResult holds the outcome of the replay browser.
type ReplayListResult struct {
	Watch  int64 // Replay to watch, 0 if none
	GoBack bool
}

// RunReplayList runs the replay browser.
func RunReplayList(store *storage.Store, width, height int) (ReplayListResult, error) {
	p := tea.NewProgram(
		NewReplayListModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return ReplayListResult{}, fmt.Errorf("tui: replays: %w", err)
	}

	m, ok := finalModel.(ReplayListModel)
	if !ok {
		return ReplayListResult{}, nil
	}
	return ReplayListResult{Watch: m.Selected(), GoBack: m.IsGoingBack()}, nil
}
