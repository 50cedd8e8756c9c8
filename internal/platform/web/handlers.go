package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

const (
	defaultScoresLimit = 10
	maxScoresLimit     = 100
)

// sessionFunc acts on a locked session and returns the response. save
// reports whether the session changed and must be stored.
type sessionFunc func(gs *session.GameSession) (status int, body any, save bool)

// withSession resolves the caller's session, runs fn under the session's
// lock and stores the result.
func (s *Server) withSession(c *gin.Context, fn sessionFunc) {
	id, fresh := s.sessionID(c)
	unlock := s.locks.lock(id)
	defer unlock()

	gs, err := s.sessions.LoadSession(id)
	if err != nil {
		s.internalError(c, err)
		return
	}

	created := false
	switch {
	case gs == nil:
		if !fresh {
			s.logger.Debug("unknown session, starting a new one", "session", id)
		}
		gs = s.ctrl.NewSession(id)
		created = true
	case s.ctrl.Restore(gs):
		s.logger.Info("stored game did not fit the current rules, started a new one", "session", id)
		created = true
	}

	status, body, save := fn(gs)
	if save || created {
		if err := s.sessions.SaveSession(gs); err != nil {
			s.internalError(c, err)
			return
		}
	}
	c.JSON(status, body)
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// recordScore stores a finished game once. Failures are logged and retried
// on the next request that sees the finished game.
func (s *Server) recordScore(gs *session.GameSession) {
	if s.scores == nil || !session.NeedsScore(gs) {
		return
	}
	if err := s.scores.RecordFinished(gs, s.ctrl.Elapsed(gs)); err != nil {
		s.logger.Warn("could not save score", "session", gs.ID, "error", err)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGame(c *gin.Context) {
	s.withSession(c, func(gs *session.GameSession) (int, any, bool) {
		saved := gs.ScoreSaved
		s.recordScore(gs)
		return http.StatusOK, s.ctrl.View(gs), saved != gs.ScoreSaved
	})
}

func (s *Server) handleMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "direction is required"})
		return
	}
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s.withSession(c, func(gs *session.GameSession) (int, any, bool) {
		out, err := s.ctrl.Move(gs, dir)
		if errors.Is(err, session.ErrGameOver) {
			return http.StatusConflict, ErrorResponse{Error: err.Error()}, false
		}
		if out.Finished {
			s.recordScore(gs)
		}

		fresh := out.NewAchievements
		if fresh == nil {
			fresh = []session.Achievement{}
		}
		return http.StatusOK, MoveResponse{
			Game:            s.ctrl.View(gs),
			Changed:         out.Changed,
			Gain:            out.Gain,
			Spawned:         out.Spawned,
			NewAchievements: fresh,
			Finished:        out.Finished,
		}, true
	})
}

func (s *Server) handleUndo(c *gin.Context) {
	s.withSession(c, func(gs *session.GameSession) (int, any, bool) {
		if err := s.ctrl.Undo(gs); errors.Is(err, session.ErrNothingToUndo) {
			return http.StatusConflict, ErrorResponse{Error: err.Error()}, false
		}
		return http.StatusOK, s.ctrl.View(gs), true
	})
}

func (s *Server) handleReset(c *gin.Context) {
	s.withSession(c, func(gs *session.GameSession) (int, any, bool) {
		s.recordScore(gs)
		s.ctrl.Reset(gs)
		return http.StatusOK, s.ctrl.View(gs), true
	})
}

func (s *Server) handleAchievements(c *gin.Context) {
	s.withSession(c, func(gs *session.GameSession) (int, any, bool) {
		return http.StatusOK, AchievementsResponse{
			Achievements: session.AchievementTable(gs.Unlocked),
		}, false
	})
}

func (s *Server) handleScores(c *gin.Context) {
	limit := defaultScoresLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxScoresLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	resp := ScoresResponse{Scores: []storage.ScoreEntry{}}
	if s.scores != nil {
		scores, err := s.scores.TopScores(limit)
		if err != nil {
			s.internalError(c, err)
			return
		}
		if scores != nil {
			resp.Scores = scores
		}
	}
	c.JSON(http.StatusOK, resp)
}
