package strategy

import (
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/pathfind"
)

// aggressive tries to cut the opponent off when the opponent is not far
// behind in the race to the food.
//
// The trigger is len(oppPath) <= len(ownPath) + BlockThreshold using path
// lengths; no own path counts as infinitely long.
func aggressive(v *view) Decision {
	own := v.pathToFood()
	if opp := v.oppPathToFood(); len(opp) > 0 {
		if len(own) == 0 || len(opp) <= len(own)+v.cfg.BlockThreshold {
			if d, ok := v.intercept(opp); ok {
				return v.guard(d, ReasonIntercept)
			}
		}
	}
	if len(own) > 0 {
		return v.guard(v.firstStep(own), ReasonPath)
	}
	if d, ok := v.greedy(); ok {
		return Decision{Direction: d, Reason: ReasonGreedy}
	}
	return v.fallback()
}

// intercept finds the earliest cell on the opponent's path that we reach in
// strictly fewer steps than the opponent and returns our first step toward it.
func (v *view) intercept(oppPath []game.Point) (game.Direction, bool) {
	dist := pathfind.Distances(v.grid, v.head(), v.blocked)
	for i, c := range oppPath {
		ours := dist[v.grid.Index(c)]
		if ours <= 0 || ours >= i+1 {
			continue
		}
		path := v.find(v.grid, v.head(), c, v.blocked)
		if len(path) == 0 {
			continue
		}
		return v.firstStep(path), true
	}
	return game.Up, false
}
