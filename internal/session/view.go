package session

import "github.com/vovakirdan/toxic2048/internal/engine"

// CellView is one board cell as shown to a player.
type CellView struct {
	Value      int  `json:"value"`
	Poison     bool `json:"poison"`
	PoisonLeft int  `json:"poison_left,omitempty"` // stagnant turns until cleared
	Countdown  bool `json:"countdown"`
}

// AchievementView is an achievement with its unlock flag.
type AchievementView struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

// StatsView is Stats with derived averages.
type StatsView struct {
	GamesPlayed int    `json:"games_played"`
	TotalScore  int    `json:"total_score"`
	TotalMoves  int    `json:"total_moves"`
	TotalTime   string `json:"total_time"`
	AvgScore    int    `json:"avg_score"`
	AvgMoves    int    `json:"avg_moves"`
}

// View is the presentation snapshot of a session.
type View struct {
	ID               string            `json:"id"`
	Cells            [][]CellView      `json:"cells"`
	Score            int               `json:"score"`
	HighScore        int               `json:"high_score"`
	MaxTile          int               `json:"max_tile"`
	Moves            int               `json:"moves"`
	Elapsed          string            `json:"elapsed"`
	CanUndo          bool              `json:"can_undo"`
	UndoLeft         int               `json:"undo_left"`
	GameOver         bool              `json:"game_over"`
	Achievements     []AchievementView `json:"achievements"`
	Stats            StatsView         `json:"stats"`
	PoisonStepsLimit int               `json:"poison_steps_limit"`
}

// View builds the presentation snapshot of s.
func (c *Controller) View(s *GameSession) View {
	limit := c.engine.Rules().PoisonStepsLimit

	cells := make([][]CellView, len(s.Game.Board))
	for r, row := range s.Game.Board {
		cells[r] = make([]CellView, len(row))
		for col, v := range row {
			pos := engine.Pos{Row: r, Col: col}
			cell := CellView{Value: v, Countdown: s.Game.Countdown[r][col]}
			if left := engine.PoisonRemaining(s.Game.Specials, pos, limit); left >= 0 {
				cell.Poison = true
				cell.PoisonLeft = left
			}
			cells[r][col] = cell
		}
	}

	return View{
		ID:               s.ID,
		Cells:            cells,
		Score:            s.Game.Score,
		HighScore:        s.HighScore,
		MaxTile:          engine.MaxTile(s.Game.Board),
		Moves:            s.Moves,
		Elapsed:          FormatElapsed(c.Elapsed(s)),
		CanUndo:          s.History.Len() > 0,
		UndoLeft:         s.History.Len(),
		GameOver:         s.GameOver,
		Achievements:     AchievementTable(s.Unlocked),
		Stats:            s.Stats.View(),
		PoisonStepsLimit: limit,
	}
}

// AchievementTable returns the full table flagged against unlocked.
func AchievementTable(unlocked Unlocked) []AchievementView {
	out := make([]AchievementView, len(Achievements))
	for i, a := range Achievements {
		out[i] = AchievementView{Achievement: a, Unlocked: unlocked.Has(a.Threshold)}
	}
	return out
}

// View returns the stats with derived averages.
func (s Stats) View() StatsView {
	return StatsView{
		GamesPlayed: s.GamesPlayed,
		TotalScore:  s.TotalScore,
		TotalMoves:  s.TotalMoves,
		TotalTime:   FormatElapsed(s.TotalTime),
		AvgScore:    s.AvgScore(),
		AvgMoves:    s.AvgMoves(),
	}
}
