package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagLimit int
	flagStats bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List journaled games",
	Long: `Display the most recent journaled games.

Examples:
  blockfall replays
  blockfall replays --limit 5
  blockfall replays --stats
  blockfall replays delete 3`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replaysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journaled game",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysDelete,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to show")
	replaysCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-variant totals instead")
	replaysCmd.AddCommand(replaysDeleteCmd)
}

// mustOpenStore opens the replay journal or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	return store
}

func runReplays(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	if flagStats {
		printStats(store)
		return
	}

	replays, err := store.RecentReplays(flagLimit)
	if err != nil {
		store.Close()
		fail("retrieving replays: %v", err)
	}

	fmt.Println("Recent games")
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No games journaled yet.")
		fmt.Println()
		fmt.Println("Play 'blockfall play' to record the first one!")
		return
	}

	fmt.Printf("  %-5s  %-16s  %-20s  %-7s  %-8s  %s\n", "ID", "Variant", "Seed", "Board", "Polls", "Date")
	fmt.Printf("  %-5s  %-16s  %-20s  %-7s  %-8s  %s\n", "--", "-------", "----", "-----", "-----", "----")
	for _, r := range replays {
		fmt.Printf("  %-5d  %-16s  %-20d  %-7s  %-8d  %s\n",
			r.ID, r.Variant, r.Seed, fmt.Sprintf("%dx%d", r.BoardW, r.BoardH), r.Polls,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printStats(store *storage.Store) {
	stats, err := store.Stats()
	if err != nil {
		store.Close()
		fail("retrieving stats: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No games journaled yet.")
		return
	}

	fmt.Printf("  %-16s  %-6s  %-10s  %s\n", "Variant", "Games", "Polls", "Last played")
	fmt.Printf("  %-16s  %-6s  %-10s  %s\n", "-------", "-----", "-----", "-----------")
	for _, v := range slices.Sorted(maps.Keys(stats)) {
		st := stats[v]
		fmt.Printf("  %-16s  %-6d  %-10d  %s\n", v, st.Games, st.TotalPolls, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func runReplaysDelete(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid replay id %q", args[0])
	}

	store := mustOpenStore()
	defer store.Close()

	if err := store.DeleteReplay(id); err != nil {
		store.Close()
		if errors.Is(err, storage.ErrReplayNotFound) {
			fail("no replay with id %d", id)
		}
		fail("deleting replay: %v", err)
	}
	fmt.Printf("Deleted replay %d.\n", id)
}

// browseReplays runs the replay browser until the user goes back or quits.
// Returns false when the user quit.
func browseReplays(store *storage.Store, cfg core.RuntimeConfig) bool {
	for {
		res, err := tui.RunReplayList(store, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		if res.Watch == 0 {
			return res.GoBack
		}

		h, s, err := replay.Load(store, res.Watch)
		if err != nil {
			logger.Warn("cannot load replay", "replay", res.Watch, "error", err)
			continue
		}
		if _, err := tui.RunViewer(h, s, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
	}
}
