// Package match drives an engine in real time and fans each tick out to
// sinks such as the terminal view and the spectator hub.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/rules"
)

// DefaultTick is the real-time pace of a match (20 ticks per second).
const DefaultTick = 50 * time.Millisecond

// Frame is one published tick. Receivers must not modify it.
type Frame struct {
	MatchID  string        `json:"match_id"`
	Snapshot game.Snapshot `json:"snapshot"`
	Events   []game.Event  `json:"events,omitempty"`
}

// Sink receives frames in tick order. Publish may block until ctx is done.
type Sink interface {
	Publish(ctx context.Context, f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Frame)

func (fn SinkFunc) Publish(ctx context.Context, f Frame) { fn(ctx, f) }

// ChanSink delivers frames to a channel, giving up when ctx is done.
type ChanSink chan Frame

func (c ChanSink) Publish(ctx context.Context, f Frame) {
	select {
	case c <- f:
	case <-ctx.Done():
	}
}

// Summary is what a finished (or abandoned) match looks like.
type Summary struct {
	MatchID  string                  `json:"match_id"`
	Ticks    int                     `json:"ticks"`
	Finished bool                    `json:"finished"`
	Result   *game.Result            `json:"result,omitempty"`
	Scores   map[string]int          `json:"scores"`
	Snakes   map[string]SnakeSummary `json:"snakes"`
	Stats    rules.Stats             `json:"stats"`
}

// SnakeSummary is one snake's share of a match.
type SnakeSummary struct {
	Score     int             `json:"score"`
	Length    int             `json:"length"`
	FoodEaten int             `json:"food_eaten"`
	Moves     int             `json:"moves"`
	Alive     bool            `json:"alive"`
	Death     game.DeathCause `json:"death,omitempty"`
}

// snakeCounts tracks per-snake activity over a run.
type snakeCounts struct {
	eaten map[string]int
	moves map[string]int
}

func newSnakeCounts() snakeCounts {
	return snakeCounts{eaten: make(map[string]int, 2), moves: make(map[string]int, 2)}
}

// add records one tick: every snake alive in prev made a move.
func (t snakeCounts) add(prev game.Snapshot, events []game.Event) {
	for _, sn := range prev.Snakes {
		if sn.Alive {
			t.moves[sn.ID]++
		}
	}
	for _, ev := range events {
		if ev.Kind == game.EventFoodEaten {
			t.eaten[ev.SnakeID]++
		}
	}
}

type Option func(*Runner)

// WithTick sets the delay between ticks. Zero runs as fast as possible.
func WithTick(d time.Duration) Option { return func(r *Runner) { r.tick = d } }

// WithMaxTicks stops an undecided match after n ticks. Zero means no limit.
func WithMaxTicks(n int) Option { return func(r *Runner) { r.maxTicks = n } }

func WithSink(s ...Sink) Option { return func(r *Runner) { r.sinks = append(r.sinks, s...) } }

func WithID(id string) Option { return func(r *Runner) { r.id = id } }

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner owns one engine for the length of a match.
type Runner struct {
	id       string
	engine   *rules.Engine
	tick     time.Duration
	maxTicks int
	sinks    []Sink
	log      *slog.Logger
}

func NewRunner(e *rules.Engine, opts ...Option) *Runner {
	r := &Runner{
		id:     uuid.NewString(),
		engine: e,
		tick:   DefaultTick,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) ID() string { return r.id }

// Run plays until the match ends, MaxTicks is reached or ctx is done. A
// cancelled run returns the partial summary together with ctx.Err().
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	log := r.log.With("match", r.id)
	snap := r.engine.Snapshot()
	log.Info("match started",
		"size", fmt.Sprintf("%dx%d", snap.Width, snap.Height),
		"a", snap.Snakes[0].Policy, "b", snap.Snakes[1].Policy)
	r.publish(ctx, Frame{MatchID: r.id, Snapshot: snap})
	counts := newSnakeCounts()

	var ticker *time.Ticker
	if r.tick > 0 {
		ticker = time.NewTicker(r.tick)
		defer ticker.Stop()
	}

	for snap.Phase != game.PhaseGameOver {
		if r.maxTicks > 0 && snap.Tick >= r.maxTicks {
			log.Info("match abandoned", "ticks", snap.Tick)
			return r.summary(snap, counts), nil
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return r.summary(snap, counts), ctx.Err()
			case <-ticker.C:
			}
		}

		next, events, err := r.engine.Step(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return r.summary(snap, counts), ctxErr
			}
			return r.summary(snap, counts), fmt.Errorf("match %s tick %d: %w", r.id, snap.Tick+1, err)
		}
		counts.add(snap, events)
		snap = next
		r.publish(ctx, Frame{MatchID: r.id, Snapshot: snap, Events: events})
	}

	log.Info("match finished", "ticks", snap.Tick, "result", snap.Result.String())
	return r.summary(snap, counts), nil
}

func (r *Runner) publish(ctx context.Context, f Frame) {
	for _, s := range r.sinks {
		s.Publish(ctx, f)
	}
}

func (r *Runner) summary(snap game.Snapshot, counts snakeCounts) Summary {
	s := Summary{
		MatchID:  r.id,
		Ticks:    snap.Tick,
		Finished: snap.Phase == game.PhaseGameOver,
		Result:   snap.Result,
		Scores:   make(map[string]int, len(snap.Snakes)),
		Snakes:   make(map[string]SnakeSummary, len(snap.Snakes)),
		Stats:    r.engine.Stats(),
	}
	for _, sn := range snap.Snakes {
		s.Scores[sn.ID] = sn.Score
		s.Snakes[sn.ID] = SnakeSummary{
			Score:     sn.Score,
			Length:    sn.Len(),
			FoodEaten: counts.eaten[sn.ID],
			Moves:     counts.moves[sn.ID],
			Alive:     sn.Alive,
			Death:     sn.Death,
		}
	}
	return s
}
