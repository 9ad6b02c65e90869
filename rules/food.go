package rules

import (
	"github.com/brensch/snekduel/game"
)

// boardFull reports whether no cell is left for food once s has moved.
func boardFull(s *game.Snapshot) bool {
	return s.Occupied().Len() >= s.Grid.Size()
}

// spawnFood places food on a random cell not covered by any snake, dead or
// alive. It returns false when the board is full.
func (e *Engine) spawnFood(s *game.Snapshot) bool {
	p, ok := game.SpawnFood(s.Grid, s.Occupied(), e.rng)
	if !ok {
		return false
	}
	s.Food, s.HasFood = p, true
	e.stats.foodSpawned++
	return true
}
