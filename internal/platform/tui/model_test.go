package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, store *storage.Store) (*Model, *tetris.Game) {
	t.Helper()
	g := tetris.New()
	cfg := core.DefaultConfig()
	cfg.Seed = 7
	m := NewModel(g, cfg, Options{Store: store, Logger: log.New(io.Discard)})
	return m, g
}

func TestModelLatchKeepsLastKey(t *testing.T) {
	store := openTestStore(t)
	m, g := newTestModel(t, store)

	m.Update(runeKey('a'))
	m.Update(runeKey('d'))
	m.Update(TickMsg{})

	if g.Polls() != 1 {
		t.Fatalf("Polls() = %d, expected 1", g.Polls())
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if m.ReplayID() == 0 {
		t.Fatal("quit should journal the game")
	}

	inputs, err := store.ReplayInputs(m.ReplayID())
	if err != nil {
		t.Fatalf("ReplayInputs() error: %v", err)
	}
	expected := []storage.InputRecord{{Poll: 0, Action: "MoveRight"}}
	if len(inputs) != 1 || inputs[0] != expected[0] {
		t.Errorf("ReplayInputs() = %v, expected %v", inputs, expected)
	}

	r, err := store.Replay(m.ReplayID())
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if r.Seed != 7 || r.Polls != 1 || r.Variant != tetris.IDClassic {
		t.Errorf("Replay() = %+v, expected seed 7, 1 poll, variant %q", r, tetris.IDClassic)
	}
}

func TestModelPauseSkipsPolls(t *testing.T) {
	m, g := newTestModel(t, nil)

	m.Update(runeKey(' '))
	m.Update(TickMsg{})
	if !m.State().Paused {
		t.Error("space should pause the game")
	}
	if g.Polls() != 0 {
		t.Errorf("Polls() = %d while paused, expected 0", g.Polls())
	}

	m.Update(runeKey(' '))
	if m.State().Paused {
		t.Error("space should resume without waiting for a tick")
	}
	m.Update(TickMsg{})
	if g.Polls() != 1 {
		t.Errorf("Polls() = %d after resuming, expected 1", g.Polls())
	}
}

func TestModelPauseSurvivesMoveInSameTick(t *testing.T) {
	m, g := newTestModel(t, nil)
	before := g.Snapshot().Piece

	m.Update(runeKey(' '))
	m.Update(runeKey('a'))
	m.Update(TickMsg{})

	if !m.State().Paused {
		t.Fatal("a move pressed after pause should not cancel the pause")
	}
	if g.Polls() != 0 {
		t.Errorf("Polls() = %d while paused, expected 0", g.Polls())
	}
	if g.Snapshot().Piece != before {
		t.Error("the piece moved while paused")
	}
}

func TestModelResult(t *testing.T) {
	m, g := newTestModel(t, nil)
	m.Update(TickMsg{})

	res := m.Result()
	if res.State != g.State() {
		t.Errorf("Result().State = %+v, expected %+v", res.State, g.State())
	}
	if res.RowsCleared != g.RowsCleared() {
		t.Errorf("Result().RowsCleared = %d, expected %d", res.RowsCleared, g.RowsCleared())
	}
}

func TestModelWithoutStore(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(runeKey('s'))
	m.Update(TickMsg{})
	m.Update(runeKey('q'))

	if m.ReplayID() != 0 {
		t.Errorf("ReplayID() = %d without a store, expected 0", m.ReplayID())
	}
}

func TestModelRestart(t *testing.T) {
	store := openTestStore(t)
	m, g := newTestModel(t, store)

	m.Update(runeKey('r'))
	if g.Seed() != 7 {
		t.Fatalf("restart before game over changed the seed to %d", g.Seed())
	}

	for i := 0; i < 100000 && !m.State().GameOver; i++ {
		m.Update(runeKey('s'))
		m.Update(TickMsg{})
	}
	if !m.State().GameOver {
		t.Fatal("soft drops should eventually top out")
	}
	first := m.ReplayID()
	if first == 0 {
		t.Fatal("game over should journal the game")
	}

	m.Update(TickMsg{})
	if m.ReplayID() != first {
		t.Error("a finished game is journaled once")
	}

	m.Update(runeKey('r'))
	if m.State().GameOver {
		t.Error("restart after game over should start a new game")
	}
	if g.Polls() != 0 {
		t.Errorf("Polls() = %d after restart, expected 0", g.Polls())
	}

	replays, err := store.RecentReplays(10)
	if err != nil {
		t.Fatalf("RecentReplays() error: %v", err)
	}
	if len(replays) != 1 {
		t.Errorf("RecentReplays() = %d entries, expected 1", len(replays))
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	view := m.View()

	if !strings.Contains(view, "TETRIS") {
		t.Error("View() should contain the title")
	}
	if !strings.Contains(view, "quit") {
		t.Error("View() should contain the help line")
	}
}
