package config

import "fmt"

// DifficultyPreset names a bundle of rule overrides.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets in increasing difficulty.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParsePreset validates a preset name. An empty name is normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
}

// ApplyPreset overrides the special-tile rules for preset. Normal leaves the
// configured values alone.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.PoisonChance = 0.05
		cfg.Rules.CountdownChance = 0.05
		cfg.Rules.PoisonStepsLimit = 8
	case DifficultyHard:
		cfg.Rules.PoisonChance = 0.20
		cfg.Rules.CountdownChance = 0.15
		cfg.Rules.PoisonStepsLimit = 3
	}
}
