// Package strategy maps a snapshot to a movement intent for one snake.
//
// The three policies are a closed set selected by game.Policy. Each one is a
// pure function of (snapshot, snake id, config) and runs its proposal through
// the shared one-step safety layer before returning.
package strategy

import (
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/pathfind"
)

// Reason tags explain which branch of a policy produced a decision.
const (
	ReasonPath           = "path"
	ReasonPathLosingRace = "path-losing-race"
	ReasonIntercept      = "intercept"
	ReasonGreedy         = "greedy"
	ReasonSafePath       = "safe-path"
	ReasonDistance       = "distance"
	ReasonSafestArea     = "safest-area"
	ReasonFallback       = "fallback"
	ReasonKeepCourse     = "keep-course"
	ReasonUnknownSnake   = "unknown-snake"
)

// Decision is a chosen direction plus the branch that chose it.
type Decision struct {
	Direction game.Direction
	Reason    string
}

// Decide returns the intent of snake id under its configured policy.
func Decide(snap game.Snapshot, id string, cfg game.Config) Decision {
	v, ok := newView(&snap, id, cfg)
	if !ok {
		return Decision{Direction: game.Up, Reason: ReasonUnknownSnake}
	}
	if !v.me.Alive || len(v.me.Body) == 0 {
		return Decision{Direction: v.me.Direction, Reason: ReasonKeepCourse}
	}

	switch v.me.Policy {
	case game.Aggressive:
		return aggressive(v)
	case game.Defensive:
		return defensive(v)
	default:
		return balanced(v)
	}
}

// view bundles what every policy needs for one decision.
type view struct {
	snap    *game.Snapshot
	cfg     game.Config
	grid    game.Grid
	me      *game.Snake
	opp     *game.Snake
	blocked *game.CellSet
	find    pathfind.Finder
}

func newView(snap *game.Snapshot, id string, cfg game.Config) (*view, bool) {
	me, ok := snap.Snake(id)
	if !ok {
		return nil, false
	}
	opp, _ := snap.Opponent(id)
	return &view{
		snap:    snap,
		cfg:     cfg,
		grid:    snap.Grid,
		me:      me,
		opp:     opp,
		blocked: snap.Obstacles(),
		find:    pathfind.ForSearch(cfg.Search),
	}, true
}

func (v *view) head() game.Point { return v.me.Head() }

func (v *view) oppAlive() bool { return v.opp != nil && v.opp.Alive && len(v.opp.Body) > 0 }

// pathToFood is own shortest path to the food, nil if none.
func (v *view) pathToFood() []game.Point {
	if !v.snap.HasFood {
		return nil
	}
	return v.find(v.grid, v.head(), v.snap.Food, v.blocked)
}

func (v *view) oppPathToFood() []game.Point {
	if !v.snap.HasFood || !v.oppAlive() {
		return nil
	}
	return v.find(v.grid, v.opp.Head(), v.snap.Food, v.blocked)
}

func (v *view) firstStep(path []game.Point) game.Direction {
	d, ok := game.DirectionBetween(v.head(), path[0])
	if !ok {
		return v.me.Direction
	}
	return d
}

// greedy returns the first direction in the fixed order that strictly closes
// the Manhattan distance to the food and passes the safety check.
func (v *view) greedy() (game.Direction, bool) {
	if !v.snap.HasFood {
		return game.Up, false
	}
	cur := game.Manhattan(v.head(), v.snap.Food)
	for _, d := range v.grid.Order {
		if game.Manhattan(v.head().Add(d), v.snap.Food) < cur && v.safe(d) {
			return d, true
		}
	}
	return game.Up, false
}
