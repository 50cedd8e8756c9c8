package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/toxic2048/internal/platform/tui"
	"github.com/vovakirdan/toxic2048/internal/session"
)

var flagAchPlayer string

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and lifetime stats",
	Long: `Shows every achievement with its tile threshold, marks the ones a player
has unlocked and prints that player's lifetime statistics.

Examples:
  toxic2048 achievements
  toxic2048 achievements --player ssh:alice`,
	Args: cobra.NoArgs,
	Run:  runAchievements,
}

func init() {
	achievementsCmd.Flags().StringVar(&flagAchPlayer, "player", tui.LocalSessionID, "Session id of the player")
}

// sessionLoader is the part of the store the achievements listing reads.
type sessionLoader interface {
	LoadSession(id string) (*session.GameSession, error)
}

func runAchievements(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg, false)

	err := printAchievements(os.Stdout, store, flagAchPlayer)
	store.Close()
	if err != nil {
		fatalf("Error loading session: %v", err)
	}
}

func printAchievements(w io.Writer, store sessionLoader, player string) error {
	gs, err := store.LoadSession(player)
	if err != nil {
		return err
	}

	var unlocked session.Unlocked
	var stats session.Stats
	high := 0
	if gs != nil {
		unlocked, stats, high = gs.Unlocked, gs.Stats, gs.HighScore
	}

	fmt.Fprintf(w, "Achievements - %s\n", player)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-3s  %-6s  %s\n", "", "Tile", "Title")
	fmt.Fprintf(w, "  %-3s  %-6s  %s\n", "", "----", "-----")
	for _, a := range session.AchievementTable(unlocked) {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %-3s  %-6d  %s\n", mark, a.Threshold, a.Label)
	}

	v := stats.View()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "High score:  %d\n", high)
	fmt.Fprintf(w, "Games:       %d\n", v.GamesPlayed)
	fmt.Fprintf(w, "Avg score:   %d\n", v.AvgScore)
	fmt.Fprintf(w, "Avg moves:   %d\n", v.AvgMoves)
	fmt.Fprintf(w, "Total time:  %s\n", v.TotalTime)

	if gs == nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No saved game for this player yet.")
	}
	return nil
}
