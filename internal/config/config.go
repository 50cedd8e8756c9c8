// Package config provides YAML-based configuration loading for toxic2048:
// game rules, web and SSH servers, storage and logging.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/toxic2048/internal/engine"
)

// Config contains all toxic2048 settings.
type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Web     WebConfig     `yaml:"web"`
	SSH     SSHConfig     `yaml:"ssh"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// RulesConfig defines the game rules.
type RulesConfig struct {
	Size             int     `yaml:"size"`
	PoisonStepsLimit int     `yaml:"poison_steps_limit"`
	PoisonChance     float64 `yaml:"poison_chance"`
	CountdownChance  float64 `yaml:"countdown_chance"`
	FourChance       float64 `yaml:"four_chance"`
	HistoryLimit     int     `yaml:"history_limit"`
}

// WebConfig defines the HTTP server.
type WebConfig struct {
	Address      string        `yaml:"address"`
	CookieName   string        `yaml:"cookie_name"`
	CookieMaxAge time.Duration `yaml:"cookie_max_age"`
	SessionTTL   time.Duration `yaml:"session_ttl"` // idle sessions older than this are pruned
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"` // empty = ~/.toxic2048/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StorageConfig defines the SQLite database location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// EngineRules converts the rules section for the engine.
func (c Config) EngineRules() engine.Rules {
	return engine.Rules{
		Size:             c.Rules.Size,
		PoisonStepsLimit: c.Rules.PoisonStepsLimit,
		PoisonChance:     c.Rules.PoisonChance,
		CountdownChance:  c.Rules.CountdownChance,
		FourChance:       c.Rules.FourChance,
	}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate rejects rule sets the game cannot be played with.
func (c Config) Validate() error {
	r := c.Rules
	switch {
	case r.Size < 2:
		return fmt.Errorf("%w: rules.size %d is below 2", ErrInvalid, r.Size)
	case r.PoisonStepsLimit < 1:
		return fmt.Errorf("%w: rules.poison_steps_limit must be positive", ErrInvalid)
	case r.HistoryLimit < 1:
		return fmt.Errorf("%w: rules.history_limit must be positive", ErrInvalid)
	}

	chances := []struct {
		name string
		p    float64
	}{
		{"poison_chance", r.PoisonChance},
		{"countdown_chance", r.CountdownChance},
		{"four_chance", r.FourChance},
	}
	for _, ch := range chances {
		if ch.p < 0 || ch.p > 1 {
			return fmt.Errorf("%w: rules.%s %.2f is outside [0, 1]", ErrInvalid, ch.name, ch.p)
		}
	}
	if r.PoisonChance+r.CountdownChance > 1 {
		return fmt.Errorf("%w: poison_chance + countdown_chance exceeds 1", ErrInvalid)
	}

	if c.Web.CookieName == "" {
		return fmt.Errorf("%w: web.cookie_name is empty", ErrInvalid)
	}
	return nil
}
