package web

import (
	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

// MoveRequest is the payload for POST /api/move.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// MoveResponse reports the new view and what the move did.
type MoveResponse struct {
	Game            session.View          `json:"game"`
	Changed         bool                  `json:"changed"`
	Gain            int                   `json:"gain"`
	Spawned         *engine.Pos           `json:"spawned,omitempty"`
	NewAchievements []session.Achievement `json:"new_achievements"`
	Finished        bool                  `json:"finished"`
}

// AchievementsResponse is the body of GET /api/achievements.
type AchievementsResponse struct {
	Achievements []session.AchievementView `json:"achievements"`
}

// ScoresResponse is the body of GET /api/scores.
type ScoresResponse struct {
	Scores []storage.ScoreEntry `json:"scores"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
