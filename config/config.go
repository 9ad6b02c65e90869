// Package config loads match settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brensch/snekduel/game"
)

// File mirrors the YAML layout. Pointer fields are optional; anything left
// out takes the game.DefaultConfig value.
type File struct {
	Width          *int             `yaml:"width"`
	Height         *int             `yaml:"height"`
	Seed           *int64           `yaml:"seed"`
	Search         *game.Search     `yaml:"search"`
	FoodScore      *int             `yaml:"food_score"`
	BlockThreshold *int             `yaml:"block_threshold"`
	MinSafeArea    *int             `yaml:"min_safe_area"`
	FloodFillLimit *int             `yaml:"flood_fill_limit"`
	DirectionOrder []game.Direction `yaml:"direction_order"`
	ParallelDecide *bool            `yaml:"parallel_decide"`
	Food           *game.Point      `yaml:"food"`
	Snakes         []SnakeFile      `yaml:"snakes"`
}

type SnakeFile struct {
	ID        *string         `yaml:"id"`
	Head      *game.Point     `yaml:"head"`
	Length    *int            `yaml:"length"`
	Direction *game.Direction `yaml:"direction"`
	Policy    *game.Policy    `yaml:"policy"`
	Body      []game.Point    `yaml:"body"`
}

// Load reads and validates the match file at path.
func Load(path string) (game.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Config{}, fmt.Errorf("failed to read match config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return game.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a match file. Unknown keys are rejected.
func Parse(data []byte) (game.Config, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return game.Config{}, fmt.Errorf("failed to parse match YAML: %w", err)
	}
	cfg, err := f.Config()
	if err != nil {
		return game.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("invalid match config: %w", err)
	}
	return cfg, nil
}

// Config applies the file on top of the defaults.
func (f File) Config() (game.Config, error) {
	cfg := game.DefaultConfig()
	set(&cfg.Width, f.Width)
	set(&cfg.Height, f.Height)
	set(&cfg.Seed, f.Seed)
	set(&cfg.Search, f.Search)
	set(&cfg.FoodScore, f.FoodScore)
	set(&cfg.BlockThreshold, f.BlockThreshold)
	set(&cfg.MinSafeArea, f.MinSafeArea)
	set(&cfg.FloodFillLimit, f.FloodFillLimit)
	set(&cfg.ParallelDecide, f.ParallelDecide)
	cfg.InitialFood = f.Food

	if f.DirectionOrder != nil {
		if len(f.DirectionOrder) != 4 {
			return cfg, &game.ConfigError{Field: "direction_order", Reason: fmt.Sprintf("want 4 directions, got %d", len(f.DirectionOrder))}
		}
		copy(cfg.DirectionOrder[:], f.DirectionOrder)
	}

	if len(f.Snakes) != 0 && len(f.Snakes) != 2 {
		return cfg, &game.ConfigError{Field: "snakes", Reason: fmt.Sprintf("want exactly 2 snakes, got %d", len(f.Snakes))}
	}
	cfg.Snakes = game.DefaultSnakes(cfg.Width, cfg.Height)
	for i, sf := range f.Snakes {
		sc := &cfg.Snakes[i]
		set(&sc.ID, sf.ID)
		set(&sc.Head, sf.Head)
		set(&sc.Length, sf.Length)
		set(&sc.Direction, sf.Direction)
		set(&sc.Policy, sf.Policy)
		sc.Body = sf.Body
	}
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
