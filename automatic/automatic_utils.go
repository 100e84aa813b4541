package automatic

// Exhaustive enumeration of starting configurations.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/diceflip/game"
)

// EnumerateOptions selects which starting configurations to run. Empty
// slices mean "all of them".
type EnumerateOptions struct {
	Totals   []int
	Dice     []uint8
	Players  []game.Player
	Autoplay bool
}

// DefaultEnumerateOptions covers every two-dice total, every face and both
// starting players, with auto-play on.
func DefaultEnumerateOptions() EnumerateOptions {
	return EnumerateOptions{Autoplay: true}
}

func (o EnumerateOptions) withDefaults() EnumerateOptions {
	if len(o.Totals) == 0 {
		o.Totals = game.StartTotals()
	}
	if len(o.Dice) == 0 {
		o.Dice = []uint8{1, 2, 3, 4, 5, 6}
	}
	if len(o.Players) == 0 {
		o.Players = []game.Player{game.Plus, game.Minus}
	}
	return o
}

// Report is what Enumerate returns once every configuration is done.
type Report struct {
	Results    []Result
	Mismatches int
	Nodes      uint64
	Elapsed    time.Duration
}

// Enumerate runs every selected starting configuration through the runner
// and streams the results to w (which may be nil). The search runs in one
// goroutine and the writer in another. Cancelling ctx stops the
// enumeration between configurations.
func (r *GameRunner) Enumerate(ctx context.Context, opts EnumerateOptions, w ResultWriter) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{}
	tstart := time.Now()
	nodesBefore := r.solver.Nodes()

	g, ctx := errgroup.WithContext(ctx)
	resChan := make(chan Result, 64)

	g.Go(func() error {
		defer close(resChan)
		for _, total := range opts.Totals {
			for _, dice := range opts.Dice {
				for _, pl := range opts.Players {
					if err := ctx.Err(); err != nil {
						log.Info().Msg("got stop signal, exiting enumeration")
						return err
					}
					var res Result
					var err error
					if opts.Autoplay {
						res, err = r.PlayGame(total, dice, pl)
					} else {
						res, err = r.Evaluate(total, dice, pl)
					}
					if err != nil {
						return err
					}
					report.Results = append(report.Results, res)
					if res.Mismatch {
						report.Mismatches++
					}
					select {
					case resChan <- res:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			log.Debug().Int("total", total).Uint64("nodes", r.solver.Nodes()-nodesBefore).
				Msg("finished-total")
		}
		return nil
	})

	g.Go(func() error {
		for res := range resChan {
			if w == nil {
				continue
			}
			if err := w.Write(ctx, res); err != nil {
				return err
			}
		}
		return nil
	})

	err := g.Wait()
	report.Nodes = r.solver.Nodes() - nodesBefore
	report.Elapsed = time.Since(tstart)
	log.Info().
		Int("configurations", len(report.Results)).
		Int("mismatches", report.Mismatches).
		Uint64("nodes", report.Nodes).
		Dur("elapsed", report.Elapsed).
		Msg("enumeration-done")
	return report, err
}
