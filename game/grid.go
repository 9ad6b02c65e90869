package game

import (
	"fmt"
	"strings"
)

// Point is a board coordinate.
// Coordinates follow screen conventions: (0,0) is top-left and Y grows downward.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p moved one step in direction d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Vector()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Direction is one of the four grid moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in the default tie-break order.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"up", "down", "left", "right"}

// Vector returns the unit step for d.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) Valid() bool { return d <= Right }

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts the lower-case names used in config files.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Direction(i), nil
		}
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}

// DirectionBetween returns the direction that moves from a to the adjacent cell b.
func DirectionBetween(a, b Point) (Direction, bool) {
	for _, d := range Directions {
		if a.Add(d) == b {
			return d, true
		}
	}
	return Up, false
}

// Grid is the board geometry plus the fixed neighbour expansion order.
type Grid struct {
	Width  int
	Height int
	Order  [4]Direction
}

// ValidOrder reports whether o names every direction exactly once.
func ValidOrder(o [4]Direction) bool {
	var seen [4]bool
	for _, d := range o {
		if !d.Valid() || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Order: Directions}
}

func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Size is the number of cells on the board.
func (g Grid) Size() int { return g.Width * g.Height }

// Index maps an in-bounds point to a dense row-major index.
func (g Grid) Index(p Point) int { return p.Y*g.Width + p.X }

func (g Grid) At(i int) Point { return Point{X: i % g.Width, Y: i / g.Width} }

// Neighbors appends the in-bounds neighbours of p to dst in g.Order.
func (g Grid) Neighbors(dst []Point, p Point) []Point {
	for _, d := range g.Order {
		n := p.Add(d)
		if g.Contains(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Manhattan is |dx| + |dy|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
