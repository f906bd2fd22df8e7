package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagNoRecord bool

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the specified variant (default: tetris).

Controls:
  A/Left     - Move left
  D/Right    - Move right
  S/Down     - Drop one row
  P/Up       - Rotate clockwise
  O          - Rotate counter-clockwise
  Esc/Space  - Pause
  R          - Restart (after game over)
  Ctrl+S     - Screenshot
  Q/Ctrl+C   - Quit

Difficulty options (marathon progression):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Every finished game is journaled and can be re-run with 'blockfall replay'.

Examples:
  blockfall play
  blockfall play tetris_marathon --difficulty easy
  blockfall play --seed 42 --no-record
  blockfall play --config ./my-tetris.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not journal the game")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := tetris.IDClassic
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if variant exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available variants.")
		os.Exit(1)
	}

	var store *storage.Store
	if !flagNoRecord {
		store = openStore()
	}

	res, err := playGame(gameID, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if err != nil {
		fail("running game: %v", err)
	}
	fmt.Print(summary(res))
}

// playGame runs one TUI session of gameID.
func playGame(gameID string, store *storage.Store, cfg core.RuntimeConfig) (tui.RunResult, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return tui.RunResult{}, err
	}

	logger.Debug("starting game", "variant", gameID, "seed", cfg.Seed)
	return tui.Run(game, cfg, tui.Options{Store: store, Logger: logger})
}

// summary is printed once the terminal is restored.
func summary(res tui.RunResult) string {
	var b strings.Builder
	b.WriteString("TETRIS\n")
	if res.State.GameOver {
		b.WriteString("Game over\n")
	}
	fmt.Fprintf(&b, "Score: %d\n", res.State.Score)
	b.WriteString(tetris.DeletedRowsText(res.RowsCleared) + "\n")
	if res.ReplayID != 0 {
		fmt.Fprintf(&b, "Journaled as replay %d. Run 'blockfall replay %d' to re-run it.\n", res.ReplayID, res.ReplayID)
	}
	return b.String()
}
