package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagWatch  bool
	flagFrames bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-run a journaled game",
	Long: `Rebuild a journaled game from its seed, config and inputs.

By default the game is re-run instantly on a virtual clock and the final
board is printed. --watch plays it back in the terminal at real speed;
--frames prints every rendered frame instead of only the last one.

Examples:
  blockfall replay 3
  blockfall replay 3 --watch
  blockfall replay 3 --frames`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play back in the terminal at real speed")
	replayCmd.Flags().BoolVar(&flagFrames, "frames", false, "Print every rendered frame")
}

func runReplay(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid replay id %q", args[0])
	}

	store := mustOpenStore()
	h, s, err := replay.Load(store, id)
	store.Close()
	if err != nil {
		if errors.Is(err, storage.ErrReplayNotFound) {
			fail("no replay with id %d", id)
		}
		fail("%v", err)
	}

	var frame tetris.Frame
	if flagWatch {
		frame, err = tui.RunViewer(h, s, runtimeConfig())
		if err != nil {
			fail("%v", err)
		}
	} else {
		frame = rerun(h, s)
	}

	fmt.Printf("Replay %d (%s, seed %d)\n\n", h.ID, h.Variant, h.Seed)
	fmt.Print(frame.String())
	fmt.Println()
	fmt.Printf("Score: %d\n", frame.Score)
	fmt.Println(tetris.DeletedRowsText(frame.RowsCleared))
}

// rerun replays h headless on a virtual clock.
func rerun(h replay.Header, s *replay.Script) tetris.Frame {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := replay.Options{Logger: logger}
	if flagFrames {
		n := 0
		opts.Sink = tetris.RenderFunc(func(f tetris.Frame) {
			n++
			fmt.Printf("frame %d, score %d\n%s\n", n, f.Score, f)
		})
	}

	res, err := replay.Play(ctx, h, s, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger.Debug("replay finished", "replay", h.ID, "polls", res.Polls, "renders", res.Renders, "elapsed", res.Elapsed)
	return res.Frame
}
