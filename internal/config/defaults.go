package config

import (
	_ "embed"
)

//go:embed defaults/twozero.yaml
var defaultYAML []byte

// DefaultConfig returns the default 2048 configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Board: BoardConfig{
			Size:       4,
			StartTiles: 2,
		},
		Rules: RulesConfig{
			WinValue:          2048,
			TileTypes:         21,
			Spawn4Probability: 0.1,
		},
		Animation: AnimationConfig{
			BaseMS:     100,
			FadeFactor: 5,
		},
		Runtime: RuntimeSection{
			TickRate: 60,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
