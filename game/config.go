package game

import (
	"fmt"
	"strings"
)

// Policy selects one of the built-in decision strategies.
type Policy uint8

const (
	Balanced Policy = iota
	Aggressive
	Defensive
)

var policyNames = [...]string{"balanced", "aggressive", "defensive"}

func (p Policy) Valid() bool { return int(p) < len(policyNames) }

func (p Policy) String() string {
	if !p.Valid() {
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
	return policyNames[p]
}

func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParsePolicy(s string) (Policy, error) {
	for i, name := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Policy(i), nil
		}
	}
	return Balanced, fmt.Errorf("unknown policy %q (want balanced, aggressive or defensive)", s)
}

// Search selects the shortest path algorithm.
type Search string

const (
	SearchBFS   Search = "bfs"
	SearchAStar Search = "astar"
)

// SnakeConfig describes one snake at match start. When Body is set it is used
// verbatim (head first); otherwise Length segments trail behind Head opposite
// to Direction.
type SnakeConfig struct {
	ID        string
	Head      Point
	Length    int
	Direction Direction
	Policy    Policy
	Body      []Point
}

// Config is every tunable of a match. It is passed by value and never mutated
// after construction.
type Config struct {
	Width  int
	Height int
	Snakes [2]SnakeConfig

	FoodScore      int
	BlockThreshold int
	// MinSafeArea of 0 means body length + 1.
	MinSafeArea int
	// FloodFillLimit of 0 means the whole board.
	FloodFillLimit int
	DirectionOrder [4]Direction
	Search         Search

	// InitialFood pins the first food cell; nil means random.
	InitialFood *Point
	Seed        int64

	ParallelDecide bool
}

const (
	DefaultWidth          = 40
	DefaultHeight         = 30
	DefaultFoodScore      = 10
	DefaultBlockThreshold = 4
	DefaultFloodFillLimit = 512
	startMargin           = 5
)

// DefaultConfig is a 40x30 board with the snakes five cells in from the side
// walls at mid height, facing each other.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Snakes:         DefaultSnakes(DefaultWidth, DefaultHeight),
		FoodScore:      DefaultFoodScore,
		BlockThreshold: DefaultBlockThreshold,
		FloodFillLimit: DefaultFloodFillLimit,
		DirectionOrder: Directions,
		Search:         SearchBFS,
		ParallelDecide: true,
	}
}

// DefaultSnakes places A and B at mid height, five cells in from the side
// walls (closer on narrow boards), facing each other.
func DefaultSnakes(width, height int) [2]SnakeConfig {
	margin := min(startMargin, width/4)
	return [2]SnakeConfig{
		{ID: "A", Head: Point{X: margin, Y: height / 2}, Length: 1, Direction: Right, Policy: Balanced},
		{ID: "B", Head: Point{X: width - margin - 1, Y: height / 2}, Length: 1, Direction: Left, Policy: Balanced},
	}
}

// Grid returns the board geometry with the configured expansion order.
func (c Config) Grid() Grid {
	return Grid{Width: c.Width, Height: c.Height, Order: c.DirectionOrder}
}

// SafeAreaThreshold resolves MinSafeArea for a snake of the given length.
func (c Config) SafeAreaThreshold(length int) int {
	if c.MinSafeArea > 0 {
		return c.MinSafeArea
	}
	return length + 1
}

// ConfigError reports an invalid match configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the config and the initial layout it produces.
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return configErr("grid", "dimensions %dx%d, need at least 2x2", c.Width, c.Height)
	}
	if c.FoodScore < 0 {
		return configErr("food_score", "must not be negative, got %d", c.FoodScore)
	}
	if c.BlockThreshold < 0 {
		return configErr("block_threshold", "must not be negative, got %d", c.BlockThreshold)
	}
	if c.MinSafeArea < 0 {
		return configErr("min_safe_area", "must not be negative, got %d", c.MinSafeArea)
	}
	if c.FloodFillLimit < 0 {
		return configErr("flood_fill_limit", "must not be negative, got %d", c.FloodFillLimit)
	}
	if c.Search != "" && c.Search != SearchBFS && c.Search != SearchAStar {
		return configErr("search", "unknown search %q", c.Search)
	}
	if !ValidOrder(c.DirectionOrder) {
		return configErr("direction_order", "must be a permutation of up, down, left, right, got %v", c.DirectionOrder)
	}
	if c.FloodFillLimit > 0 && c.MinSafeArea >= c.FloodFillLimit {
		return configErr("min_safe_area", "must be below flood_fill_limit %d, got %d", c.FloodFillLimit, c.MinSafeArea)
	}

	snakes, err := c.Layout()
	if err != nil {
		return err
	}
	grid := c.Grid()
	occupied := make(map[Point]string)
	for _, s := range snakes {
		for _, p := range s.Body {
			if other, ok := occupied[p]; ok {
				if other == s.ID {
					return configErr("snakes", "snake %s overlaps itself at %s", s.ID, p)
				}
				return configErr("snakes", "snakes %s and %s overlap at %s", other, s.ID, p)
			}
			occupied[p] = s.ID
		}
	}
	if c.InitialFood != nil {
		if !grid.Contains(*c.InitialFood) {
			return configErr("food", "%s is outside the %dx%d grid", *c.InitialFood, c.Width, c.Height)
		}
		if id, ok := occupied[*c.InitialFood]; ok {
			return configErr("food", "%s is on snake %s", *c.InitialFood, id)
		}
	} else if len(occupied) >= grid.Size() {
		return configErr("snakes", "no free cell left for food")
	}
	return nil
}

// Layout builds the starting snakes. Trailing segments that would leave the
// board are turned into pending growth instead.
func (c Config) Layout() ([2]Snake, error) {
	var out [2]Snake
	grid := c.Grid()
	for i, sc := range c.Snakes {
		field := fmt.Sprintf("snakes[%d]", i)
		if strings.TrimSpace(sc.ID) == "" {
			return out, configErr(field, "id is required")
		}
		if i == 1 && sc.ID == c.Snakes[0].ID {
			return out, configErr(field, "duplicate id %q", sc.ID)
		}
		if !sc.Policy.Valid() {
			return out, configErr(field, "unknown policy %d", sc.Policy)
		}
		if !sc.Direction.Valid() {
			return out, configErr(field, "unknown direction %d", sc.Direction)
		}

		s := Snake{ID: sc.ID, Direction: sc.Direction, Alive: true, Policy: sc.Policy}
		if len(sc.Body) > 0 {
			for j, p := range sc.Body {
				if !grid.Contains(p) {
					return out, configErr(field, "segment %s is outside the grid", p)
				}
				if j > 0 && Manhattan(p, sc.Body[j-1]) != 1 {
					return out, configErr(field, "segments %s and %s are not adjacent", sc.Body[j-1], p)
				}
			}
			if len(sc.Body) > 1 && sc.Body[0].Add(sc.Direction) == sc.Body[1] {
				return out, configErr(field, "direction %s points into the neck", sc.Direction)
			}
			s.Body = append([]Point(nil), sc.Body...)
		} else {
			if sc.Length < 1 {
				return out, configErr(field, "length must be at least 1, got %d", sc.Length)
			}
			if !grid.Contains(sc.Head) {
				return out, configErr(field, "head %s is outside the grid", sc.Head)
			}
			s.Body = []Point{sc.Head}
			back := sc.Direction.Opposite()
			for len(s.Body) < sc.Length {
				next := s.Body[len(s.Body)-1].Add(back)
				if !grid.Contains(next) {
					break
				}
				s.Body = append(s.Body, next)
			}
			s.PendingGrowth = sc.Length - len(s.Body)
		}
		out[i] = s
	}
	return out, nil
}
