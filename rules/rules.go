// Package rules advances a match one tick at a time.
//
// A tick asks both snakes for an intent against the same snapshot, moves them
// simultaneously, resolves collisions, feeds the eater, respawns food and
// decides whether the match is over.
package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/strategy"
)

// ErrGameOver is returned by Step once the match has finished.
var ErrGameOver = errors.New("rules: game is over")

// InvariantError means a tick would have produced an impossible board. The
// tick is discarded and the engine keeps the previous state.
type InvariantError struct {
	Tick   int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rules: invariant violated at tick %d: %s", e.Tick, e.Reason)
}

// IntentFunc can answer for a snake instead of its policy.
type IntentFunc func(id string, snap game.Snapshot) (game.Direction, bool)

type Option func(*Engine)

// WithRand sets the food source. Without it the engine seeds its own source
// from Config.Seed; a nil rng is ignored.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithIntentOverride(f IntentFunc) Option { return func(e *Engine) { e.override = f } }

func WithParallelDecide(on bool) Option { return func(e *Engine) { e.parallel = on } }

// Engine owns the authoritative match state. Step must not be called
// concurrently.
type Engine struct {
	cfg      game.Config
	grid     game.Grid
	state    game.Snapshot
	rng      *rand.Rand
	log      *slog.Logger
	override IntentFunc
	parallel bool
	stats    stepStats
}

// New validates cfg, lays out the snakes and places the first food.
func New(cfg game.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		grid:     cfg.Grid(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      slog.New(slog.DiscardHandler),
		parallel: cfg.ParallelDecide,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.reset(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) reset() error {
	snakes, err := e.cfg.Layout()
	if err != nil {
		return err
	}
	e.state = game.Snapshot{
		Grid:   e.grid,
		Width:  e.cfg.Width,
		Height: e.cfg.Height,
		Snakes: snakes,
		Phase:  game.PhaseRunning,
	}
	e.stats = stepStats{}
	if e.cfg.InitialFood != nil {
		e.state.Food, e.state.HasFood = *e.cfg.InitialFood, true
		e.stats.foodSpawned++
		return nil
	}
	if !e.spawnFood(&e.state) {
		return &game.ConfigError{Field: "snakes", Reason: "no free cell left for food"}
	}
	return nil
}

// Reset restarts the match from the configured layout. The random source
// carries on, so a reset match gets fresh food.
func (e *Engine) Reset() error { return e.reset() }

func (e *Engine) Config() game.Config { return e.cfg }

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() game.Snapshot { return e.state.Clone() }

func (e *Engine) Stats() Stats { return e.stats.export() }

// Step plays one tick and returns the new snapshot with the tick's events.
func (e *Engine) Step(ctx context.Context) (game.Snapshot, []game.Event, error) {
	if e.state.Phase == game.PhaseGameOver {
		return e.state.Clone(), nil, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return e.state.Clone(), nil, err
	}
	start := time.Now()

	snap := e.state.Clone()
	decisions, err := e.decide(ctx, snap)
	if err != nil {
		return e.state.Clone(), nil, err
	}
	next, events, headOn, respawn := e.resolve(snap, decisions)
	if err := checkInvariants(next); err != nil {
		e.log.Error("tick rejected", "tick", next.Tick, "err", err)
		return e.state.Clone(), nil, err
	}

	// Food is drawn only once the tick is accepted, so a rejected tick
	// leaves the random source and the counters untouched.
	e.state = next
	if respawn {
		e.spawnFood(&e.state)
	}
	if headOn {
		e.stats.headCollisions++
	}
	e.stats.record(time.Since(start))
	e.logTick(decisions, events)
	return e.state.Clone(), events, nil
}

func (e *Engine) decide(ctx context.Context, snap game.Snapshot) ([2]strategy.Decision, error) {
	var out [2]strategy.Decision
	one := func(i int) {
		sn := &snap.Snakes[i]
		if e.override != nil {
			if d, ok := e.override(sn.ID, snap); ok {
				out[i] = strategy.Decision{Direction: d, Reason: "override"}
				return
			}
		}
		out[i] = strategy.Decide(snap, sn.ID, e.cfg)
	}

	if !e.parallel || snap.AliveCount() < 2 {
		for i := range snap.Snakes {
			if snap.Snakes[i].Alive {
				one(i)
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range snap.Snakes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			one(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("deciding tick %d: %w", snap.Tick+1, err)
	}
	return out, nil
}

// resolve applies one simultaneous move to prev and returns the next state.
// headOn reports a head-to-head collision. respawn reports that the food was
// eaten and a free cell is left for the next one; resolve itself never places
// food.
func (e *Engine) resolve(prev game.Snapshot, decisions [2]strategy.Decision) (next game.Snapshot, events []game.Event, headOn, respawn bool) {
	next = prev.Clone()
	next.Tick++

	var (
		heads  [2]game.Point
		moving [2]bool
		eats   [2]bool
		causes [2]game.DeathCause
	)
	for i := range next.Snakes {
		s := &next.Snakes[i]
		if !s.Alive {
			continue
		}
		d := decisions[i].Direction
		if !d.Valid() || !s.CanTurn(d) {
			e.log.Debug("reversal rejected", "tick", next.Tick, "snake", s.ID, "intent", d, "keep", s.Direction)
			d = s.Direction
		}
		s.Direction = d
		heads[i] = s.Head().Add(d)
		moving[i] = true
		eats[i] = next.HasFood && heads[i] == next.Food
	}

	for i := range next.Snakes {
		if !moving[i] {
			continue
		}
		s, j := &next.Snakes[i], 1-i
		switch {
		case !e.grid.Contains(heads[i]):
			causes[i] = game.CauseWall
		case moving[j] && heads[i] == heads[j]:
			causes[i] = game.CauseHeadToHead
			headOn = true
		case hitsBody(s.Body, heads[i], tailVacates(s, eats[i])):
			causes[i] = game.CauseSelf
		}
	}

	// A snake that dies does not move, so its tail stops vacating. Repeat
	// until no new body hit appears.
	for changed := true; changed; {
		changed = false
		for i := range next.Snakes {
			if !moving[i] || causes[i] != game.CauseNone {
				continue
			}
			j := 1 - i
			other := &next.Snakes[j]
			tailGoes := moving[j] && causes[j] == game.CauseNone && tailVacates(other, eats[j])
			if hitsBody(other.Body, heads[i], tailGoes) {
				causes[i] = game.CauseHeadToBody
				changed = true
			}
		}
	}

	for i := range next.Snakes {
		if causes[i] == game.CauseNone {
			continue
		}
		next.Snakes[i].Kill(causes[i])
		events = append(events, game.SnakeDied(next.Snakes[i].ID, causes[i]))
	}

	ate := false
	for i := range next.Snakes {
		if !moving[i] || causes[i] != game.CauseNone {
			continue
		}
		s := &next.Snakes[i]
		if eats[i] {
			s.Grow(1)
		}
		s.Advance(heads[i])
		if eats[i] {
			s.Score += e.cfg.FoodScore
			ate = true
			events = append(events, game.FoodEaten(s.ID))
		}
	}

	full := false
	if ate {
		next.HasFood = false
		full = boardFull(&next)
		respawn = !full
	}

	if r, over := outcome(next, full); over {
		next.Phase = game.PhaseGameOver
		next.Result = &r
		events = append(events, game.GameOver(r))
	}
	return next, events, headOn, respawn
}

func tailVacates(s *game.Snake, eating bool) bool {
	return s.PendingGrowth == 0 && !eating
}

func hitsBody(body []game.Point, p game.Point, skipTail bool) bool {
	if skipTail && len(body) > 0 {
		body = body[:len(body)-1]
	}
	for _, b := range body {
		if b == p {
			return true
		}
	}
	return false
}

// outcome reports the result if the match ended on this state.
func outcome(s game.Snapshot, boardFull bool) (game.Result, bool) {
	switch alive := s.AliveCount(); {
	case alive == 1:
		for _, sn := range s.Snakes {
			if sn.Alive {
				return game.Result{Outcome: game.OutcomeWinner, WinnerID: sn.ID, Reason: game.EndLastStanding}, true
			}
		}
	case alive == 0:
		return byScore(s, game.EndAllDead, game.OutcomeTie), true
	case boardFull:
		return byScore(s, game.EndBoardFull, game.OutcomeDraw), true
	}
	return game.Result{}, false
}

func byScore(s game.Snapshot, reason game.EndReason, even game.Outcome) game.Result {
	a, b := s.Snakes[0], s.Snakes[1]
	switch {
	case a.Score > b.Score:
		return game.Result{Outcome: game.OutcomeWinner, WinnerID: a.ID, Reason: reason}
	case b.Score > a.Score:
		return game.Result{Outcome: game.OutcomeWinner, WinnerID: b.ID, Reason: reason}
	}
	return game.Result{Outcome: even, Reason: reason}
}

// checkInvariants guards against committing an impossible board.
func checkInvariants(s game.Snapshot) error {
	seen := game.NewCellSet(s.Grid)
	for _, sn := range s.Snakes {
		if sn.Alive && !s.Grid.Contains(sn.Head()) {
			return &InvariantError{Tick: s.Tick, Reason: fmt.Sprintf("snake %s head %s out of bounds", sn.ID, sn.Head())}
		}
		for _, p := range sn.Body {
			if seen.Has(p) {
				return &InvariantError{Tick: s.Tick, Reason: fmt.Sprintf("cell %s occupied twice", p)}
			}
			seen.Add(p)
		}
	}
	if s.HasFood {
		if !s.Grid.Contains(s.Food) {
			return &InvariantError{Tick: s.Tick, Reason: fmt.Sprintf("food %s out of bounds", s.Food)}
		}
		if seen.Has(s.Food) {
			return &InvariantError{Tick: s.Tick, Reason: fmt.Sprintf("food %s on a snake", s.Food)}
		}
	}
	return nil
}

func (e *Engine) logTick(decisions [2]strategy.Decision, events []game.Event) {
	if !e.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i, sn := range e.state.Snakes {
		if decisions[i].Reason == "" {
			continue
		}
		e.log.Debug("intent", "tick", e.state.Tick, "snake", sn.ID, "dir", decisions[i].Direction, "reason", decisions[i].Reason)
	}
	for _, ev := range events {
		e.log.Debug("event", "tick", e.state.Tick, "kind", ev.Kind, "snake", ev.SnakeID, "detail", ev.String())
	}
}
