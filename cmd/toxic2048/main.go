// toxic2048 is 2048 with poison and countdown tiles, undo, achievements and
// statistics, playable in the terminal, over SSH and in the browser.
//
// Usage:
//
//	toxic2048 play             - Play in this terminal
//	toxic2048 web              - Start the HTTP server with the browser client
//	toxic2048 serve            - Start the SSH server for remote play
//	toxic2048 scores           - Show high scores
//	toxic2048 achievements     - List achievements and lifetime stats
//
// Global flags:
//
//	--config <path>      - Config file (default search: ~/.toxic2048, ./configs)
//	--difficulty <name>  - Rule preset: easy, normal, hard
//	--seed <value>       - RNG seed for reproducible games
//	--db <path>          - Database path (default from config)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/toxic2048/internal/config"
	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagSeed       int64
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "toxic2048",
	Short: "toxic2048 - 2048 with poison and countdown tiles",
	Long: `toxic2048 is the sliding-tile game 2048 with two kinds of special tiles:

  poison     - cleared once its value stays unchanged for too many turns
  countdown  - halves every turn until it disappears

Available commands:
  play          - Play in this terminal
  web           - Serve the browser client and JSON API
  serve         - Start the SSH server for remote play
  scores        - View high scores
  achievements  - View achievements and lifetime stats

Examples:
  toxic2048 play
  toxic2048 play --difficulty hard
  toxic2048 web --addr :8080
  toxic2048 serve --ssh :2222
  toxic2048 scores --limit 20`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(achievementsCmd)
}

// loadConfig resolves the config file and applies the global flags to it.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fatalf("Error: %v", err)
	}
	config.ApplyPreset(&cfg, preset)

	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger creates a charm logger with the configured level.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func newController(cfg config.Config) *session.Controller {
	e := engine.New(cfg.EngineRules(), engine.NewRand(flagSeed))
	return session.NewController(e, session.WithHistoryLimit(cfg.Rules.HistoryLimit))
}

// openStore opens the configured database. With optional set, a failure is
// reported and nil is returned so the caller can continue without storage.
func openStore(cfg config.Config, optional bool) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		if optional {
			fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
			return nil
		}
		fatalf("Error opening database: %v", err)
	}
	return store
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
