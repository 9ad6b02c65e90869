package pathfind

import (
	"github.com/brensch/snekduel/game"
)

// FloodFill counts the free cells connected to start, start included. It stops
// once limit cells are found when limit > 0. A blocked or off-board start
// scores 0.
func FloodFill(g game.Grid, start game.Point, blocked *game.CellSet, limit int) int {
	if !g.Contains(start) || blocked.Has(start) {
		return 0
	}
	seen := make([]bool, g.Size())
	seen[g.Index(start)] = true
	count := 1

	var q queue
	q.push(g.Index(start))
	neighbors := make([]game.Point, 0, 4)
	for !q.empty() {
		if limit > 0 && count >= limit {
			return limit
		}
		cur := q.pop()
		neighbors = g.Neighbors(neighbors[:0], g.At(cur))
		for _, n := range neighbors {
			ni := g.Index(n)
			if seen[ni] || blocked.Has(n) {
				continue
			}
			seen[ni] = true
			count++
			q.push(ni)
		}
	}
	if limit > 0 && count > limit {
		return limit
	}
	return count
}

// FreeNeighbors counts the in-bounds neighbours of p that are not blocked.
func FreeNeighbors(g game.Grid, p game.Point, blocked *game.CellSet) int {
	n := 0
	for _, d := range g.Order {
		c := p.Add(d)
		if g.Contains(c) && !blocked.Has(c) {
			n++
		}
	}
	return n
}
