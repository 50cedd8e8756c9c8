package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/toxic2048/internal/session"
)

const (
	cellWidth  = 8
	cellHeight = 3

	poisonMarker    = "☠"
	countdownMarker = "½"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	achievementStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	boardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	poisonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	countdownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// tileColors maps tile values to background colors. Larger tiles use bigTile.
var tileColors = map[int]lipgloss.Color{
	0:    lipgloss.Color("236"),
	2:    lipgloss.Color("250"),
	4:    lipgloss.Color("223"),
	8:    lipgloss.Color("215"),
	16:   lipgloss.Color("209"),
	32:   lipgloss.Color("203"),
	64:   lipgloss.Color("196"),
	128:  lipgloss.Color("228"),
	256:  lipgloss.Color("227"),
	512:  lipgloss.Color("226"),
	1024: lipgloss.Color("220"),
	2048: lipgloss.Color("214"),
}

const bigTile = lipgloss.Color("129")

func tileStyle(v int) lipgloss.Style {
	bg, ok := tileColors[v]
	if !ok {
		bg = bigTile
	}
	fg := lipgloss.Color("232")
	if v == 0 || v > 2048 {
		fg = lipgloss.Color("255")
	}
	return lipgloss.NewStyle().
		Width(cellWidth).
		Height(cellHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(bg).
		Foreground(fg).
		Bold(v >= 8)
}

// cellMarker returns the special-cell line shown under the value.
func cellMarker(c session.CellView) string {
	var parts []string
	if c.Poison {
		parts = append(parts, poisonStyle.Render(poisonMarker+strconv.Itoa(c.PoisonLeft)))
	}
	if c.Countdown {
		parts = append(parts, countdownStyle.Render(countdownMarker))
	}
	return strings.Join(parts, " ")
}

func renderCell(c session.CellView) string {
	value := "·"
	if c.Value > 0 {
		value = strconv.Itoa(c.Value)
	}
	if marker := cellMarker(c); marker != "" {
		value += "\n" + marker
	}
	return tileStyle(c.Value).Render(value)
}

// RenderBoard draws the grid of a view.
func RenderBoard(cells [][]session.CellView) string {
	rows := make([]string, len(cells))
	for r, row := range cells {
		rendered := make([]string, len(row))
		for c, cell := range row {
			rendered[c] = renderCell(cell)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHUD draws score, high score, moves, time, max tile and undo depth.
func renderHUD(v session.View, historyLimit int) string {
	line1 := fmt.Sprintf("Score %d   Best %d   Max %d", v.Score, v.HighScore, v.MaxTile)
	line2 := fmt.Sprintf("Moves %d   Time %s   Undo %d/%d", v.Moves, v.Elapsed, v.UndoLeft, historyLimit)
	return hudStyle.Render(line1 + "\n" + line2)
}

func renderLegend(poisonLimit int) string {
	return dimStyle.Render(fmt.Sprintf(
		"%s poison: cleared after %d turns unchanged   %s countdown: halves every turn",
		poisonMarker, poisonLimit, countdownMarker,
	))
}

func renderAchievements(list []session.AchievementView) string {
	var unlocked []string
	for _, a := range list {
		if a.Unlocked {
			unlocked = append(unlocked, a.Label)
		}
	}
	head := fmt.Sprintf("Achievements %d/%d", len(unlocked), len(list))
	if len(unlocked) == 0 {
		return dimStyle.Render(head)
	}
	return dimStyle.Render(head+": ") + achievementStyle.Render(strings.Join(unlocked, ", "))
}

func renderStats(s session.StatsView) string {
	return dimStyle.Render(fmt.Sprintf(
		"Games %d   Avg score %d   Avg moves %d   Total time %s",
		s.GamesPlayed, s.AvgScore, s.AvgMoves, s.TotalTime,
	))
}

// centerText centers text horizontally within the given width.
func centerText(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	padding := (width - lipgloss.Width(text)) / 2
	return strings.Repeat(" ", padding) + text
}
