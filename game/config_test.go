package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	snakes, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 5, Y: 15}}, snakes[0].Body)
	assert.Equal(t, []Point{{X: 34, Y: 15}}, snakes[1].Body)
	assert.Equal(t, Right, snakes[0].Direction)
	assert.Equal(t, Left, snakes[1].Direction)
}

func TestLayoutTrailsBehindHead(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.Snakes[0] = SnakeConfig{ID: "A", Head: Point{X: 4, Y: 4}, Length: 3, Direction: Right}
	cfg.Snakes[1] = SnakeConfig{ID: "B", Head: Point{X: 6, Y: 8}, Length: 3, Direction: Up}

	snakes, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 4, Y: 4}, {X: 3, Y: 4}, {X: 2, Y: 4}}, snakes[0].Body)
	assert.Equal(t, []Point{{X: 6, Y: 8}, {X: 6, Y: 9}}, snakes[1].Body)
	assert.Equal(t, 0, snakes[0].PendingGrowth)
	assert.Equal(t, 1, snakes[1].PendingGrowth, "segment past the wall becomes growth")
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"tiny grid", func(c *Config) { c.Width = 1 }, "grid"},
		{"negative score", func(c *Config) { c.FoodScore = -1 }, "food_score"},
		{"safe area at flood limit", func(c *Config) { c.MinSafeArea = c.FloodFillLimit }, "min_safe_area"},
		{"bad order", func(c *Config) { c.DirectionOrder = [4]Direction{Up, Up, Left, Right} }, "direction_order"},
		{"unknown search", func(c *Config) { c.Search = "dfs" }, "search"},
		{"duplicate id", func(c *Config) { c.Snakes[1].ID = "A" }, "snakes[1]"},
		{"missing id", func(c *Config) { c.Snakes[0].ID = " " }, "snakes[0]"},
		{"head off board", func(c *Config) { c.Snakes[0].Head = Point{X: -1, Y: 0} }, "snakes[0]"},
		{"zero length", func(c *Config) { c.Snakes[0].Length = 0 }, "snakes[0]"},
		{"overlap", func(c *Config) { c.Snakes[1].Head = c.Snakes[0].Head }, "snakes"},
		{"food on snake", func(c *Config) { p := c.Snakes[0].Head; c.InitialFood = &p }, "food"},
		{"food off board", func(c *Config) { c.InitialFood = &Point{X: 99, Y: 0} }, "food"},
		{"disjoint body", func(c *Config) {
			c.Snakes[0].Body = []Point{{X: 1, Y: 1}, {X: 3, Y: 1}}
		}, "snakes[0]"},
		{"direction into neck", func(c *Config) {
			c.Snakes[0].Body = []Point{{X: 2, Y: 1}, {X: 1, Y: 1}}
			c.Snakes[0].Direction = Left
		}, "snakes[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "want ConfigError, got %v", err)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestValidateSafeAreaBelowFloodLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FloodFillLimit = 20
	cfg.MinSafeArea = 19
	require.NoError(t, cfg.Validate())

	cfg.FloodFillLimit = 0
	cfg.MinSafeArea = 5000
	assert.NoError(t, cfg.Validate(), "an unlimited flood fill accepts any threshold")
}

func TestValidateRejectsFullBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Snakes[0] = SnakeConfig{ID: "A", Body: []Point{{X: 0, Y: 0}, {X: 0, Y: 1}}, Direction: Up}
	cfg.Snakes[1] = SnakeConfig{ID: "B", Body: []Point{{X: 1, Y: 0}, {X: 1, Y: 1}}, Direction: Up}

	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Contains(t, cerr.Reason, "no free cell")
}

func TestParsePolicyAndDirection(t *testing.T) {
	p, err := ParsePolicy(" Aggressive ")
	require.NoError(t, err)
	assert.Equal(t, Aggressive, p)
	_, err = ParsePolicy("reckless")
	assert.Error(t, err)

	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("LEFT")))
	assert.Equal(t, Left, d)
	assert.Error(t, d.UnmarshalText([]byte("north")))
}
