package match

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/rules"
)

type SeriesOptions struct {
	Matches  int
	Workers  int
	MaxTicks int
	Logger   *slog.Logger
}

// Standings aggregates a series. Means are over all matches.
type Standings struct {
	Matches    int                `json:"matches"`
	Wins       map[string]int     `json:"wins"`
	Ties       int                `json:"ties"`
	Draws      int                `json:"draws"`
	Unfinished int                `json:"unfinished"`
	MeanTicks  float64            `json:"mean_ticks"`
	MeanScore  map[string]float64 `json:"mean_score"`
	Results    []Summary          `json:"results"`
}

// RunSeries plays opts.Matches headless matches of cfg, match i seeded with
// cfg.Seed+i, at most opts.Workers at a time.
func RunSeries(ctx context.Context, cfg game.Config, opts SeriesOptions) (Standings, error) {
	if opts.Matches <= 0 {
		return Standings{}, fmt.Errorf("series needs at least one match, got %d", opts.Matches)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	results := make([]Summary, opts.Matches)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Matches {
		g.Go(func() error {
			c := cfg
			c.Seed = cfg.Seed + int64(i)
			// Matches already run in parallel.
			c.ParallelDecide = false
			e, err := rules.New(c, rules.WithLogger(log))
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			r := NewRunner(e, WithTick(0), WithMaxTicks(opts.MaxTicks), WithLogger(log))
			sum, err := r.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Standings{}, err
	}
	return tally(cfg, results), nil
}

func tally(cfg game.Config, results []Summary) Standings {
	st := Standings{
		Matches:   len(results),
		Wins:      make(map[string]int, 2),
		MeanScore: make(map[string]float64, 2),
		Results:   results,
	}
	for _, sc := range cfg.Snakes {
		st.Wins[sc.ID] = 0
		st.MeanScore[sc.ID] = 0
	}

	totalTicks := 0
	for _, r := range results {
		totalTicks += r.Ticks
		for id, score := range r.Scores {
			st.MeanScore[id] += float64(score)
		}
		switch {
		case !r.Finished || r.Result == nil:
			st.Unfinished++
		case r.Result.Outcome == game.OutcomeWinner:
			st.Wins[r.Result.WinnerID]++
		case r.Result.Outcome == game.OutcomeTie:
			st.Ties++
		case r.Result.Outcome == game.OutcomeDraw:
			st.Draws++
		}
	}
	if n := float64(len(results)); n > 0 {
		st.MeanTicks = float64(totalTicks) / n
		for id := range st.MeanScore {
			st.MeanScore[id] /= n
		}
	}
	return st
}
