package strategy

import (
	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/pathfind"
)

type candidate struct {
	dir     game.Direction
	cell    game.Point
	safe    bool
	score   int
	passing bool
}

// defensive ranks moves by the size of the free region they lead into.
func defensive(v *view) Decision {
	threshold := v.cfg.SafeAreaThreshold(v.me.Len())

	cands := make([]candidate, 0, 4)
	anyPassing := false
	for _, d := range v.grid.Order {
		if !v.me.CanTurn(d) {
			continue
		}
		c := candidate{dir: d, cell: v.head().Add(d), safe: v.safe(d)}
		if c.safe {
			c.score = v.area(c.cell, v.blocked)
		}
		c.passing = c.safe && c.score > threshold
		anyPassing = anyPassing || c.passing
		cands = append(cands, c)
	}

	if anyPassing {
		if path := v.pathToFood(); len(path) > 0 {
			first := v.firstStep(path)
			for _, c := range cands {
				if c.dir == first && c.passing && v.pathKeepsArea(path, threshold) {
					return v.guard(first, ReasonSafePath)
				}
			}
		}

		best := -1
		bestDist, bestFree := -1, -1
		for i, c := range cands {
			if !c.passing {
				continue
			}
			dist := 0
			if v.oppAlive() {
				dist = game.Manhattan(c.cell, v.opp.Head())
			}
			free := pathfind.FreeNeighbors(v.grid, c.cell, v.blocked)
			if dist > bestDist || (dist == bestDist && free > bestFree) {
				best, bestDist, bestFree = i, dist, free
			}
		}
		return v.guard(cands[best].dir, ReasonDistance)
	}

	if len(cands) == 0 {
		return v.fallback()
	}
	best := 0
	for i, c := range cands {
		if c.score > cands[best].score {
			best = i
		}
	}
	return v.guard(cands[best].dir, ReasonSafestArea)
}

// area is the capped flood-fill size from cell. A cell the safety check
// already accepted is treated as free even if the shared obstacle set still
// holds it (our own tail when food is adjacent).
func (v *view) area(cell game.Point, blocked *game.CellSet) int {
	if blocked.Has(cell) {
		blocked = blocked.Clone()
		blocked.Remove(cell)
	}
	return pathfind.FloodFill(v.grid, cell, blocked, v.cfg.FloodFillLimit)
}

// pathKeepsArea walks path, marking each visited cell as occupied, and checks
// that every cell still opens onto more than threshold free cells.
func (v *view) pathKeepsArea(path []game.Point, threshold int) bool {
	walked := v.blocked.Clone()
	for _, c := range path {
		if v.area(c, walked) <= threshold {
			return false
		}
		walked.Add(c)
	}
	return true
}
