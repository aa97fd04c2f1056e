// Package config provides YAML-based game configuration loading and
// board presets for the 2048 game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// GameConfig contains all configuration for a 2048 game.
type GameConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Rules     RulesConfig     `yaml:"rules"`
	Animation AnimationConfig `yaml:"animation"`
	Runtime   RuntimeSection  `yaml:"runtime"`
}

// BoardConfig defines the board shape and opening.
type BoardConfig struct {
	Size       int `yaml:"size"`
	StartTiles int `yaml:"start_tiles"`
}

// RulesConfig defines win conditions and spawning.
type RulesConfig struct {
	WinValue          int     `yaml:"win_value"`
	TileTypes         int     `yaml:"tile_types"` // endless ceiling is 2^(tile_types-1)
	Spawn4Probability float64 `yaml:"spawn4_probability"`
}

// AnimationConfig defines effect timings.
type AnimationConfig struct {
	BaseMS     int `yaml:"base_ms"`
	FadeFactor int `yaml:"fade_factor"`
}

// RuntimeSection defines frame pacing for the terminal front end.
type RuntimeSection struct {
	TickRate int `yaml:"tick_rate"`
}

// Validate reports the first setting that cannot produce a playable game.
func (c GameConfig) Validate() error {
	switch {
	case c.Board.Size < 2:
		return fmt.Errorf("%w: board.size %d is below 2", ErrInvalidConfig, c.Board.Size)
	case c.Board.StartTiles < 1 || c.Board.StartTiles > c.Board.Size*c.Board.Size:
		return fmt.Errorf("%w: board.start_tiles %d does not fit a %dx%d board",
			ErrInvalidConfig, c.Board.StartTiles, c.Board.Size, c.Board.Size)
	case c.Rules.WinValue < 4 || c.Rules.WinValue&(c.Rules.WinValue-1) != 0:
		return fmt.Errorf("%w: rules.win_value %d is not a power of two above 2", ErrInvalidConfig, c.Rules.WinValue)
	case c.Rules.TileTypes < 2 || c.Rules.TileTypes > 31:
		return fmt.Errorf("%w: rules.tile_types %d outside [2, 31]", ErrInvalidConfig, c.Rules.TileTypes)
	case 1<<(c.Rules.TileTypes-1) < c.Rules.WinValue:
		return fmt.Errorf("%w: rules.tile_types %d caps tiles below win_value %d",
			ErrInvalidConfig, c.Rules.TileTypes, c.Rules.WinValue)
	case c.Rules.Spawn4Probability <= 0 || c.Rules.Spawn4Probability > 1:
		return fmt.Errorf("%w: rules.spawn4_probability %v outside (0, 1]", ErrInvalidConfig, c.Rules.Spawn4Probability)
	case c.Animation.BaseMS < 0 || c.Animation.FadeFactor < 0:
		return fmt.Errorf("%w: animation timings must not be negative", ErrInvalidConfig)
	case c.Runtime.TickRate < 0 || c.Runtime.TickRate > 240:
		return fmt.Errorf("%w: runtime.tick_rate %d outside [0, 240]", ErrInvalidConfig, c.Runtime.TickRate)
	}
	return nil
}
