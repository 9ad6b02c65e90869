package strategy

import (
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/pathfind"
)

// Safe reports whether moving snake id in direction d survives the next tick
// against the current board. The opponent's simultaneous move is not
// anticipated.
func Safe(snap game.Snapshot, id string, d game.Direction) bool {
	v, ok := newView(&snap, id, game.Config{})
	if !ok || !v.me.Alive || len(v.me.Body) == 0 {
		return false
	}
	return v.safe(d)
}

func (v *view) safe(d game.Direction) bool {
	if !d.Valid() || !v.me.CanTurn(d) {
		return false
	}
	c := v.head().Add(d)
	if !v.grid.Contains(c) {
		return false
	}

	eats := v.snap.HasFood && c == v.snap.Food
	own := v.me.Body
	if v.me.PendingGrowth == 0 && !eats {
		own = own[:len(own)-1]
	}
	if contains(own, c) {
		return false
	}

	if v.opp != nil && len(v.opp.Body) > 0 {
		other := v.opp.Body
		if v.snap.TailVacates(v.opp) {
			other = other[:len(other)-1]
		}
		if contains(other, c) {
			return false
		}
	}
	return true
}

// guard keeps a proposal only if it is safe.
func (v *view) guard(d game.Direction, reason string) Decision {
	if v.safe(d) {
		return Decision{Direction: d, Reason: reason}
	}
	return v.fallback()
}

// fallback picks the safe direction with the most free neighbouring cells,
// ties broken by the fixed order, or keeps the current course when nothing is
// safe.
func (v *view) fallback() Decision {
	best, bestFree := game.Up, -1
	for _, d := range v.grid.Order {
		if !v.safe(d) {
			continue
		}
		free := pathfind.FreeNeighbors(v.grid, v.head().Add(d), v.blocked)
		if free > bestFree {
			best, bestFree = d, free
		}
	}
	if bestFree < 0 {
		return Decision{Direction: v.me.Direction, Reason: ReasonKeepCourse}
	}
	return Decision{Direction: best, Reason: ReasonFallback}
}

func contains(cells []game.Point, p game.Point) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
