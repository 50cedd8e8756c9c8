package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/toxic2048.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Rules: RulesConfig{
			Size:             4,
			PoisonStepsLimit: 5,
			PoisonChance:     0.10,
			CountdownChance:  0.10,
			FourChance:       0.10,
			HistoryLimit:     20,
		},
		Web: WebConfig{
			Address:      ":8080",
			CookieName:   "toxic2048_session",
			CookieMaxAge: 30 * 24 * time.Hour,
			SessionTTL:   30 * 24 * time.Hour,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			Path: "~/.toxic2048/toxic2048.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
