package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/toxic2048/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal. The game is saved on every move and
resumed the next time you play.

Controls:
  Arrows/WASD  - Move tiles
  U            - Undo
  R            - New game
  H/Tab        - High scores
  ?            - More keys
  Q/Ctrl+C     - Quit

Examples:
  toxic2048 play
  toxic2048 play --difficulty easy
  toxic2048 play --seed 42 --db ./toxic2048.db`,
	Run: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, "toxic2048")
	ctrl := newController(cfg)

	// Continue without storage - game still works
	var store tui.Store
	db := openStore(cfg, true)
	if db != nil {
		store = db
	}

	runErr := tui.Run(ctrl, store, tui.LocalSessionID, logger)

	// Close store before potential exit
	if db != nil {
		db.Close()
	}

	if runErr != nil {
		fatalf("Error running game: %v", runErr)
	}
}
