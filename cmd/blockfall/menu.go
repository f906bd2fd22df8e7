package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start blockfall with a variant picker menu",
	Long: `Start blockfall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a variant.
After a game ends, you return to the menu to play again.
Tab opens the replay browser; Enter there watches a replay.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select variant
  Tab          - Replays
  Q            - Quit

Examples:
  blockfall menu
  blockfall menu --db ./replays.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsReplays {
			if !browseReplays(store, cfg) {
				break // User quit from the replay browser
			}
			continue
		}

		// Fresh seed for every game after the first
		if _, err := playGame(menuResult.GameID, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		cfg.Seed = time.Now().UnixNano()
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
