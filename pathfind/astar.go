package pathfind

import (
	"container/heap"

	"github.com/brensch/snekduel/game"
)

type node struct {
	idx int
	g   int
	h   int
	seq int
}

// openSet orders by f, then h, then push order. Stale entries are skipped on pop.
type openSet []node

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	fi, fj := o[i].g+o[i].h, o[j].g+o[j].h
	if fi != fj {
		return fi < fj
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) { *o = append(*o, x.(node)) }

func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	*o = old[:len(old)-1]
	return n
}

// AStar is a Manhattan-guided search. The heuristic is consistent on a
// 4-connected grid, so the returned path has the same length as
// ShortestPath's, though the cells may differ on ties.
func AStar(g game.Grid, start, target game.Point, blocked *game.CellSet) []game.Point {
	if start == target || !g.Contains(start) || !g.Contains(target) || blocked.Has(target) {
		return nil
	}

	size := g.Size()
	bestG := make([]int, size)
	parent := make([]int32, size)
	closed := make([]bool, size)
	for i := range bestG {
		bestG[i] = -1
		parent[i] = -1
	}
	startIdx := g.Index(start)
	targetIdx := g.Index(target)
	bestG[startIdx] = 0
	parent[startIdx] = int32(startIdx)

	seq := 0
	open := &openSet{{idx: startIdx, h: game.Manhattan(start, target), seq: seq}}
	neighbors := make([]game.Point, 0, 4)
	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		if closed[cur.idx] || cur.g != bestG[cur.idx] {
			continue
		}
		if cur.idx == targetIdx {
			return walkBack(g, parent, startIdx, targetIdx)
		}
		closed[cur.idx] = true

		neighbors = g.Neighbors(neighbors[:0], g.At(cur.idx))
		for _, n := range neighbors {
			ni := g.Index(n)
			if closed[ni] || blocked.Has(n) {
				continue
			}
			ng := cur.g + 1
			if bestG[ni] != -1 && ng >= bestG[ni] {
				continue
			}
			bestG[ni] = ng
			parent[ni] = int32(cur.idx)
			seq++
			heap.Push(open, node{idx: ni, g: ng, h: game.Manhattan(n, target), seq: seq})
		}
	}
	return nil
}
