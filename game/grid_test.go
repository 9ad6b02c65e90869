package game

import (
	"math/rand"
	"testing"
)

func TestNeighborsFollowOrderAndBounds(t *testing.T) {
	g := NewGrid(3, 3)
	got := g.Neighbors(nil, Point{X: 0, Y: 0})
	want := []Point{{X: 0, Y: 1}, {X: 1, Y: 0}} // down, right
	if len(got) != len(want) {
		t.Fatalf("neighbors=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbors[%d]=%v want=%v", i, got[i], want[i])
		}
	}

	g.Order = [4]Direction{Right, Left, Down, Up}
	got = g.Neighbors(got[:0], Point{X: 1, Y: 1})
	want = []Point{{X: 2, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("custom order neighbors[%d]=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestDirectionOpposites(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Fatalf("%s opposite is not an involution", d)
		}
		p := Point{X: 5, Y: 5}
		if p.Add(d).Add(d.Opposite()) != p {
			t.Fatalf("%s and %s do not cancel", d, d.Opposite())
		}
	}
	if got, ok := DirectionBetween(Point{X: 2, Y: 2}, Point{X: 2, Y: 1}); !ok || got != Up {
		t.Fatalf("DirectionBetween=%v,%v want up", got, ok)
	}
	if _, ok := DirectionBetween(Point{X: 2, Y: 2}, Point{X: 4, Y: 2}); ok {
		t.Fatalf("non-adjacent cells must not yield a direction")
	}
}

func TestManhattan(t *testing.T) {
	if d := Manhattan(Point{X: 1, Y: 1}, Point{X: 5, Y: 5}); d != 8 {
		t.Fatalf("manhattan=%d want=8", d)
	}
	if d := Manhattan(Point{X: 3, Y: 0}, Point{X: 0, Y: 4}); d != 7 {
		t.Fatalf("manhattan=%d want=7", d)
	}
}

func TestSnakeAdvanceAndGrowth(t *testing.T) {
	s := Snake{ID: "a", Alive: true, Direction: Right, Body: []Point{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}}}
	s.Advance(Point{X: 3, Y: 0})
	if s.Len() != 3 || s.Tail() != (Point{X: 1, Y: 0}) {
		t.Fatalf("plain move body=%v", s.Body)
	}
	s.Grow(1)
	s.Advance(Point{X: 4, Y: 0})
	if s.Len() != 4 || s.PendingGrowth != 0 || s.Tail() != (Point{X: 1, Y: 0}) {
		t.Fatalf("growth move body=%v pending=%d", s.Body, s.PendingGrowth)
	}
	if s.CanTurn(Left) {
		t.Fatalf("reversal allowed for length %d", s.Len())
	}
	s.Kill(CauseWall)
	if s.Alive || s.Death != CauseWall {
		t.Fatalf("kill did not stick: %+v", s)
	}
}

func TestSpawnFoodAvoidsOccupied(t *testing.T) {
	g := NewGrid(4, 4)
	occ := NewCellSet(g)
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			occ.Add(Point{X: x, Y: y})
		}
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		p, ok := SpawnFood(g, occ, rng)
		if !ok || p.Y != 3 {
			t.Fatalf("spawned %v ok=%v on an occupied row", p, ok)
		}
	}
	p1, _ := SpawnFood(g, occ, rand.New(rand.NewSource(42)))
	p2, _ := SpawnFood(g, occ, rand.New(rand.NewSource(42)))
	if p1 != p2 {
		t.Fatalf("same seed spawned %v and %v", p1, p2)
	}
	for x := 0; x < 4; x++ {
		occ.Add(Point{X: x, Y: 3})
	}
	if _, ok := SpawnFood(g, occ, rng); ok {
		t.Fatalf("spawn succeeded on a full board")
	}
}
