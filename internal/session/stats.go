package session

import (
	"fmt"
	"time"
)

// Stats aggregates finished games.
type Stats struct {
	GamesPlayed int           `json:"games_played"`
	TotalScore  int           `json:"total_score"`
	TotalMoves  int           `json:"total_moves"`
	TotalTime   time.Duration `json:"total_time"`
}

// Record folds one finished game into the totals.
func (s *Stats) Record(score, moves int, elapsed time.Duration) {
	s.GamesPlayed++
	s.TotalScore += score
	s.TotalMoves += moves
	s.TotalTime += elapsed
}

// AvgScore is the truncated mean score, 0 before the first game.
func (s Stats) AvgScore() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.TotalScore / s.GamesPlayed
}

// AvgMoves is the truncated mean move count, 0 before the first game.
func (s Stats) AvgMoves() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.TotalMoves / s.GamesPlayed
}

// FormatElapsed renders d as MM:SS. Minutes are not capped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
