// food.go implements food placement on free cells.

package game

import (
	"math/rand"
)

// FreeCells lists the cells not in occupied, row by row.
func FreeCells(g Grid, occupied *CellSet) []Point {
	free := make([]Point, 0, g.Size()-occupied.Len())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Point{X: x, Y: y}
			if !occupied.Has(p) {
				free = append(free, p)
			}
		}
	}
	return free
}

// SpawnFood picks a uniformly random free cell. It returns false, without
// drawing from rng, when the board is full.
func SpawnFood(g Grid, occupied *CellSet, rng *rand.Rand) (Point, bool) {
	free := FreeCells(g, occupied)
	if len(free) == 0 {
		return Point{}, false
	}
	return free[rng.Intn(len(free))], true
}
