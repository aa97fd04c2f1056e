package config

import "fmt"

// Preset represents a named board setup.
type Preset string

const (
	PresetSmall   Preset = "small"
	PresetClassic Preset = "classic"
	PresetLarge   Preset = "large"
)

// Presets lists the known presets in menu order.
var Presets = []Preset{PresetSmall, PresetClassic, PresetLarge}

// ParsePreset validates a preset name. An empty name selects classic.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PresetClassic, nil
	}
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q (want small, classic or large)", name)
}

// ApplyPreset modifies the config based on a board preset.
func ApplyPreset(cfg *GameConfig, preset Preset) {
	switch preset {
	case PresetSmall:
		cfg.Board.Size = 3
		cfg.Rules.WinValue = 512
	case PresetClassic:
		cfg.Board.Size = 4
		cfg.Rules.WinValue = 2048
	case PresetLarge:
		cfg.Board.Size = 5
		cfg.Rules.WinValue = 8192
	}
}
