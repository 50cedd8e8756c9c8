// Package tui provides the Bubble Tea client for toxic2048: local terminal
// play, the high score table and the SSH server built on Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clockInterval is how often the elapsed time on screen is refreshed.
const clockInterval = time.Second

// TickMsg refreshes the game clock.
type TickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
