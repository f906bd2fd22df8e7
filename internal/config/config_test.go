package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := decodeTetris(defaultTetrisYAML)
	if err != nil {
		t.Fatalf("embedded default failed to decode: %v", err)
	}
	if cfg != DefaultTetrisConfig() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, DefaultTetrisConfig())
	}
}

func TestLoadTetrisCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	data := []byte("board:\n  width: 12\n  spawn_x: 5\ntiming:\n  cycle_ms: 300\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTetris(path)
	if err != nil {
		t.Fatalf("LoadTetris() failed: %v", err)
	}

	if cfg.Board.Width != 12 || cfg.Board.SpawnX != 5 {
		t.Errorf("board = %+v, expected width 12, spawn_x 5", cfg.Board)
	}
	// Keys missing from the file keep their defaults
	if cfg.Board.Height != 20 {
		t.Errorf("Height = %d, expected default 20", cfg.Board.Height)
	}
	if cfg.Timing.Cycle() != 300*time.Millisecond || cfg.Timing.Poll() != 10*time.Millisecond {
		t.Errorf("timing = %v/%v, expected 300ms/10ms", cfg.Timing.Cycle(), cfg.Timing.Poll())
	}
}

func TestLoadTetrisErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTetris(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadTetris() should fail for a missing custom file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTetris(bad); err == nil {
		t.Error("LoadTetris() should fail for malformed YAML")
	}

	narrow := filepath.Join(dir, "narrow.yaml")
	if err := os.WriteFile(narrow, []byte("board:\n  width: 3\n  spawn_x: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTetris(narrow)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadTetris(narrow) error = %v, expected ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TetrisConfig)
		ok     bool
	}{
		{"default", func(*TetrisConfig) {}, true},
		{"narrow board", func(c *TetrisConfig) { c.Board.Width = 3 }, false},
		{"short board", func(c *TetrisConfig) { c.Board.Height = 2 }, false},
		{"spawn on left wall", func(c *TetrisConfig) { c.Board.SpawnX = 0 }, false},
		{"spawn on right wall", func(c *TetrisConfig) { c.Board.SpawnX = 9 }, false},
		{"spawn rightmost legal", func(c *TetrisConfig) { c.Board.SpawnX = 8 }, true},
		{"zero poll", func(c *TetrisConfig) { c.Timing.PollMS = 0 }, false},
		{"poll longer than cycle", func(c *TetrisConfig) { c.Timing.PollMS = 600 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTetrisConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestApplyTetrisPreset(t *testing.T) {
	cfg := DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v, expected enabled at 0.7", cfg.Difficulty)
	}

	ApplyTetrisPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	before := cfg
	ApplyTetrisPreset(&cfg, "")
	if cfg != before {
		t.Error("empty preset should leave config untouched")
	}

	if ParsePreset("normal") != DifficultyNormal || ParsePreset("insane") != "" {
		t.Error("ParsePreset mapping is wrong")
	}
}

func TestCyclePeriod(t *testing.T) {
	base := 500 * time.Millisecond
	poll := 10 * time.Millisecond

	cfg := DefaultTetrisConfig().Difficulty
	d := NewDifficultyManager(cfg)
	if got := d.CyclePeriod(base, poll, 100000, 0); got != base {
		t.Errorf("disabled progression CyclePeriod = %v, expected %v", got, base)
	}

	cfg.Enabled = true
	d = NewDifficultyManager(cfg)

	tests := []struct {
		score    int
		expected time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1000, 200 * time.Millisecond}, // level 0.5: 500 / 2.5
		{2000, 120 * time.Millisecond}, // level 1.0: 500 / 4 = 125, rounded to polls
		{9000, 120 * time.Millisecond}, // clamped at max level
	}
	for _, tc := range tests {
		if got := d.CyclePeriod(base, poll, tc.score, 0); got != tc.expected {
			t.Errorf("CyclePeriod(score=%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}

	// Never shorter than two polls
	cfg.Scaling.SpeedMultiplier = 1000
	d = NewDifficultyManager(cfg)
	if got := d.CyclePeriod(base, poll, 2000, 0); got != 2*poll {
		t.Errorf("CyclePeriod floor = %v, expected %v", got, 2*poll)
	}
}

func TestMarshalParseTetris(t *testing.T) {
	cfg := DefaultTetrisConfig()
	ApplyTetrisPreset(&cfg, DifficultyHard)
	cfg.Board.Width = 8
	cfg.Board.SpawnX = 3

	data, err := MarshalTetris(cfg)
	if err != nil {
		t.Fatalf("MarshalTetris() error = %v", err)
	}

	got, err := ParseTetris(data)
	if err != nil {
		t.Fatalf("ParseTetris() error = %v", err)
	}
	if got != cfg {
		t.Errorf("ParseTetris(MarshalTetris(cfg)) = %+v, expected %+v", got, cfg)
	}

	if _, err := ParseTetris([]byte("board: {width: 2}")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseTetris(narrow) error = %v, expected ErrInvalidConfig", err)
	}
}

func TestParseTetrisErrorMessages(t *testing.T) {
	_, err := ParseTetris([]byte("board: {width: 2}"))
	if err == nil {
		t.Fatal("ParseTetris(narrow) expected an error")
	}
	if n := strings.Count(err.Error(), "invalid tetris config"); n != 1 {
		t.Errorf("ParseTetris(narrow) error = %q, prefix appears %d times, expected once", err, n)
	}

	_, err = ParseTetris([]byte("board: [not, a, map]"))
	if err == nil {
		t.Fatal("ParseTetris(bad yaml) expected an error")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseTetris(bad yaml) error = %v, expected a decode error", err)
	}
}

func TestGetDefaultYAML(t *testing.T) {
	for _, id := range []string{"tetris", "tetris_marathon"} {
		cfg, err := ParseTetris(GetDefaultYAML(id))
		if err != nil {
			t.Fatalf("ParseTetris(GetDefaultYAML(%q)) error = %v", id, err)
		}
		if cfg != DefaultTetrisConfig() {
			t.Errorf("GetDefaultYAML(%q) = %+v, expected %+v", id, cfg, DefaultTetrisConfig())
		}
	}

	if got := GetDefaultYAML("snake"); got != nil {
		t.Errorf("GetDefaultYAML(unknown) = %q, expected nil", got)
	}
}
