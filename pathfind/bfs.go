// Package pathfind implements shortest-path and reachability searches over the
// game grid. Callers supply the blocked cells; nothing is cached between calls
// because the obstacles change every tick.
package pathfind

import (
	"github.com/brensch/snekduel/game"
)

// Finder returns the cells after start up to and including target, or nil.
type Finder func(g game.Grid, start, target game.Point, blocked *game.CellSet) []game.Point

// ForSearch picks the implementation for a configured search kind.
func ForSearch(s game.Search) Finder {
	if s == game.SearchAStar {
		return AStar
	}
	return ShortestPath
}

// ShortestPath is a breadth-first search expanding neighbours in g.Order.
// start is never treated as blocked; a blocked target is unreachable.
func ShortestPath(g game.Grid, start, target game.Point, blocked *game.CellSet) []game.Point {
	if start == target || !g.Contains(start) || !g.Contains(target) || blocked.Has(target) {
		return nil
	}

	parent := make([]int32, g.Size())
	for i := range parent {
		parent[i] = -1
	}
	startIdx := g.Index(start)
	targetIdx := g.Index(target)
	parent[startIdx] = int32(startIdx)

	var q queue
	q.push(startIdx)
	neighbors := make([]game.Point, 0, 4)
	for !q.empty() {
		cur := q.pop()
		neighbors = g.Neighbors(neighbors[:0], g.At(cur))
		for _, n := range neighbors {
			ni := g.Index(n)
			if parent[ni] != -1 || blocked.Has(n) {
				continue
			}
			parent[ni] = int32(cur)
			if ni == targetIdx {
				return walkBack(g, parent, startIdx, targetIdx)
			}
			q.push(ni)
		}
	}
	return nil
}

// Distances returns the BFS step count from start to every cell, -1 where
// unreachable.
func Distances(g game.Grid, start game.Point, blocked *game.CellSet) []int {
	dist := make([]int, g.Size())
	for i := range dist {
		dist[i] = -1
	}
	if !g.Contains(start) {
		return dist
	}
	startIdx := g.Index(start)
	dist[startIdx] = 0

	var q queue
	q.push(startIdx)
	neighbors := make([]game.Point, 0, 4)
	for !q.empty() {
		cur := q.pop()
		neighbors = g.Neighbors(neighbors[:0], g.At(cur))
		for _, n := range neighbors {
			ni := g.Index(n)
			if dist[ni] != -1 || blocked.Has(n) {
				continue
			}
			dist[ni] = dist[cur] + 1
			q.push(ni)
		}
	}
	return dist
}

func walkBack(g game.Grid, parent []int32, startIdx, targetIdx int) []game.Point {
	n := 0
	for i := targetIdx; i != startIdx; i = int(parent[i]) {
		n++
	}
	path := make([]game.Point, n)
	for i := targetIdx; i != startIdx; i = int(parent[i]) {
		n--
		path[n] = g.At(i)
	}
	return path
}
