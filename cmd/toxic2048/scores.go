package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/toxic2048/internal/platform/tui"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

var (
	flagScoresLimit int
	flagPlayer      string
	flagClear       bool
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best finished games of all players.

Players are "local" for terminal play, "ssh:<user>" for SSH play and the
session id for browser play.

Examples:
  toxic2048 scores
  toxic2048 scores --limit 25
  toxic2048 scores --player ssh:alice
  toxic2048 scores -i
  toxic2048 scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show scores of this player")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg, false)
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(); err != nil {
			store.Close()
			fatalf("Error clearing scores: %v", err)
		}
		fmt.Println("All scores deleted.")
		return
	}

	if flagInteractive {
		width, height := 80, 24 // Defaults
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		player := flagPlayer
		if player == "" {
			player = tui.LocalSessionID
		}
		if err := tui.RunScoreboard(store, player, width, height); err != nil {
			store.Close()
			fatalf("Error running scoreboard: %v", err)
		}
		return
	}

	var (
		scores []storage.ScoreEntry
		err    error
	)
	if flagPlayer != "" {
		scores, err = store.PlayerScores(flagPlayer, flagScoresLimit)
	} else {
		scores, err = store.TopScores(flagScoresLimit)
	}
	if err != nil {
		store.Close()
		fatalf("Error retrieving scores: %v", err)
	}

	title := "High Scores"
	if flagPlayer != "" {
		title += " - " + flagPlayer
	}
	fmt.Println(title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Finish a game with 'toxic2048 play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-7s  %-20s  %s\n", "Rank", "Score", "Tile", "Moves", "Time", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-7s  %-20s  %s\n", "----", "-----", "----", "-----", "----", "------", "----")

	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-7s  %-20s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, session.FormatElapsed(e.Duration),
			e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GameStats(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Best tile: %d   Games: %d   Avg score: %.0f\n",
			stats.HighScore, stats.BestTile, stats.GamesCount, stats.AvgScore)
	}
}
