// Package render draws match snapshots as plain text. The TUI colours the
// same cell grid; tests and headless logs print it as is.
package render

import (
	"fmt"
	"strings"

	"github.com/brensch/snekduel/game"
)

// Kind is what occupies a cell.
type Kind uint8

const (
	Empty Kind = iota
	Food
	Head
	Body
	Dead
)

// Cell is one board square. Owner is the snake index for snake cells.
type Cell struct {
	Kind  Kind
	Owner int
}

// Glyph is the ASCII character for c: A/a and B/b for the first and second
// snake, x for dead segments, * for food.
func (c Cell) Glyph() byte {
	switch c.Kind {
	case Food:
		return '*'
	case Head:
		return 'A' + byte(c.Owner)
	case Body:
		return 'a' + byte(c.Owner)
	case Dead:
		return 'x'
	}
	return '.'
}

// Cells lays out the snapshot row by row, top row first.
func Cells(s game.Snapshot) [][]Cell {
	grid := make([][]Cell, s.Height)
	for y := range grid {
		grid[y] = make([]Cell, s.Width)
	}
	in := func(p game.Point) bool { return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height }

	if s.HasFood && in(s.Food) {
		grid[s.Food.Y][s.Food.X] = Cell{Kind: Food}
	}
	for owner, sn := range s.Snakes {
		for i := len(sn.Body) - 1; i >= 0; i-- {
			p := sn.Body[i]
			if !in(p) {
				continue
			}
			kind := Body
			switch {
			case !sn.Alive:
				kind = Dead
			case i == 0:
				kind = Head
			}
			grid[p.Y][p.X] = Cell{Kind: kind, Owner: owner}
		}
	}
	return grid
}

// Board renders the snapshot as space separated glyphs, one line per row.
func Board(s game.Snapshot) string {
	var sb strings.Builder
	for _, row := range Cells(s) {
		for x, c := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(c.Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Status is a one-line summary of tick, scores and result.
func Status(s game.Snapshot) string {
	parts := []string{fmt.Sprintf("tick %d", s.Tick)}
	for _, sn := range s.Snakes {
		p := fmt.Sprintf("%s %d (len %d)", sn.ID, sn.Score, len(sn.Body))
		if !sn.Alive {
			p = fmt.Sprintf("%s %d (len %d, %s)", sn.ID, sn.Score, len(sn.Body), sn.Death)
		}
		parts = append(parts, p)
	}
	if s.Result != nil {
		parts = append(parts, s.Result.String())
	}
	return strings.Join(parts, " | ")
}
