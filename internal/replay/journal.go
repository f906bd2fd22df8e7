package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Header is what a replay needs besides its script.
type Header struct {
	ID      int64
	Variant string
	Seed    int64
	Config  config.TetrisConfig
	Polls   int
}

// Save writes h and s to the journal and returns the replay ID.
func Save(store *storage.Store, h Header, s *Script) (int64, error) {
	cfgYAML, err := config.MarshalTetris(h.Config)
	if err != nil {
		return 0, fmt.Errorf("replay: %w", err)
	}

	id, err := store.SaveReplay(storage.Replay{
		Variant: h.Variant,
		Seed:    h.Seed,
		BoardW:  h.Config.Board.Width,
		BoardH:  h.Config.Board.Height,
		CycleMS: h.Config.Timing.CycleMS,
		PollMS:  h.Config.Timing.PollMS,
		Config:  cfgYAML,
		Polls:   h.Polls,
	}, s.Records())
	if err != nil {
		return 0, fmt.Errorf("replay: cannot save: %w", err)
	}
	return id, nil
}

// Load reads replay id from the journal.
func Load(store *storage.Store, id int64) (Header, *Script, error) {
	r, err := store.Replay(id)
	if err != nil {
		return Header{}, nil, fmt.Errorf("replay: cannot load %d: %w", id, err)
	}

	cfg, err := config.ParseTetris(r.Config)
	if err != nil {
		return Header{}, nil, fmt.Errorf("replay: replay %d: %w", id, err)
	}

	records, err := store.ReplayInputs(id)
	if err != nil {
		return Header{}, nil, fmt.Errorf("replay: cannot load inputs of %d: %w", id, err)
	}
	script, err := ScriptFromRecords(records)
	if err != nil {
		return Header{}, nil, err
	}

	return Header{
		ID:      r.ID,
		Variant: r.Variant,
		Seed:    r.Seed,
		Config:  cfg,
		Polls:   r.Polls,
	}, script, nil
}

// Result is the state reached by playing a replay.
type Result struct {
	Frame   tetris.Frame
	Polls   int
	Renders int
	Elapsed time.Duration // Game time covered by the played polls
}

// Options tune Play.
type Options struct {
	Clock  tetris.Clock      // Defaults to a VirtualClock
	Sink   tetris.RenderSink // Optional frame sink
	Logger *log.Logger
}

// Play rebuilds the session of h and feeds it s until the recorded poll
// count or game over, whichever comes first.
func Play(ctx context.Context, h Header, s *Script, opts Options) (Result, error) {
	clock := opts.Clock
	if clock == nil {
		clock = &tetris.VirtualClock{}
	}

	loopOpts := []tetris.LoopOption{tetris.WithLogger(opts.Logger)}
	if h.Polls > 0 {
		loopOpts = append(loopOpts, tetris.WithPollLimit(h.Polls))
	}
	loop := tetris.NewEngine(h.Config, h.Seed, opts.Sink, loopOpts...)

	var err error
	if h.Polls > 0 {
		err = loop.Run(ctx, clock, NewPlayer(s))
	} else {
		loop.Start()
	}

	res := Result{
		Frame:   loop.Session().Snapshot(),
		Polls:   loop.Polls(),
		Renders: loop.Renders(),
		Elapsed: time.Duration(loop.Polls()) * loop.Timing().Poll,
	}
	if err != nil {
		return res, fmt.Errorf("replay: interrupted at poll %d: %w", res.Polls, err)
	}
	return res, nil
}
