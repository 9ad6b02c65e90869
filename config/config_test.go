package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekduel/game"
)

func TestLoadMatchFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "duel.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 12, cfg.Height)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, game.SearchAStar, cfg.Search)
	assert.Equal(t, 5, cfg.FoodScore)
	assert.Equal(t, 6, cfg.MinSafeArea)
	assert.Equal(t, game.DefaultBlockThreshold, cfg.BlockThreshold, "unset keys keep defaults")
	assert.Equal(t, [4]game.Direction{game.Right, game.Left, game.Down, game.Up}, cfg.DirectionOrder)
	assert.False(t, cfg.ParallelDecide)
	require.NotNil(t, cfg.InitialFood)
	assert.Equal(t, game.Point{X: 10, Y: 2}, *cfg.InitialFood)

	red := cfg.Snakes[0]
	assert.Equal(t, game.SnakeConfig{ID: "red", Head: game.Point{X: 3, Y: 6}, Length: 3, Direction: game.Right, Policy: game.Defensive}, red)

	blue := cfg.Snakes[1]
	assert.Equal(t, "blue", blue.ID)
	assert.Equal(t, game.Aggressive, blue.Policy)
	assert.Equal(t, game.Point{X: 14, Y: 6}, blue.Head, "default head follows the board size")
	assert.Equal(t, game.Left, blue.Direction)
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, game.DefaultConfig(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "colour: red\n", "parse"},
		{"bad direction", "snakes:\n  - {direction: north}\n  - {}\n", "parse"},
		{"bad policy", "snakes:\n  - {policy: reckless}\n  - {}\n", "parse"},
		{"one snake", "snakes:\n  - {id: solo}\n", "snakes"},
		{"short order", "direction_order: [up, down]\n", "direction_order"},
		{"overlap", "snakes:\n  - {head: {x: 1, y: 1}}\n  - {head: {x: 1, y: 1}}\n", "snakes"},
		{"tiny board", "width: 1\n", "grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var ce *game.ConfigError
			if tt.want == "parse" {
				assert.False(t, errors.As(err, &ce), "decode errors are not config errors: %v", err)
				return
			}
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.want, ce.Field)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
