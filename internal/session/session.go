// Package session wraps the turn engine with everything a player keeps
// between turns: undo history, move count, elapsed time, high score,
// achievements and lifetime statistics.
package session

import (
	"errors"
	"time"

	"github.com/vovakirdan/toxic2048/internal/engine"
)

var (
	// ErrGameOver is returned by Move once no move is possible.
	ErrGameOver = errors.New("session: game is over")
	// ErrNothingToUndo is returned by Undo on an empty history.
	ErrNothingToUndo = errors.New("session: nothing to undo")
)

// GameSession is the persisted state of one player.
// HighScore, Unlocked and Stats survive Reset; the rest is per game.
type GameSession struct {
	ID        string       `json:"id"`
	Game      engine.State `json:"game"`
	History   History      `json:"history"`
	Moves     int          `json:"moves"`
	StartedAt time.Time    `json:"started_at"`
	GameOver  bool         `json:"game_over"`
	HighScore int          `json:"high_score"`
	Unlocked  Unlocked     `json:"unlocked"`
	Stats     Stats        `json:"stats"`
	UpdatedAt time.Time    `json:"updated_at"`

	// ScoreSaved is set once the finished game has been recorded
	ScoreSaved bool `json:"score_saved"`
}

// Outcome describes what a single Move did.
type Outcome struct {
	Changed         bool
	Gain            int
	Spawned         *engine.Pos
	NewAchievements []Achievement
	GameOver        bool
	Finished        bool // this move ended the game
}

// Controller applies player actions to sessions.
type Controller struct {
	engine       *engine.Engine
	historyLimit int
	now          func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithHistoryLimit sets how many undo steps are kept.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// NewController creates a controller around e.
func NewController(e *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:       e,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the rules of the underlying engine.
func (c *Controller) Rules() engine.Rules {
	return c.engine.Rules()
}

// HistoryLimit returns the undo depth.
func (c *Controller) HistoryLimit() int {
	return c.historyLimit
}

// NewSession starts a fresh session with zeroed aggregates.
func (c *Controller) NewSession(id string) *GameSession {
	now := c.now()
	return &GameSession{
		ID:        id,
		Game:      c.engine.NewGame(),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Restore makes a loaded session playable under the current rules. A
// session whose board is missing or of a different size gets a new game
// while keeping its aggregates. It reports whether a new game was started.
func (c *Controller) Restore(s *GameSession) bool {
	size := c.engine.Rules().Size
	if compatible(s.Game, size) {
		for _, h := range s.History {
			if !compatible(h, size) {
				s.History = nil
				break
			}
		}
		return false
	}

	c.startGame(s)
	return true
}

func compatible(st engine.State, size int) bool {
	if st.Board.Size() != size {
		return false
	}
	for _, g := range []int{st.Poison.Size(), st.Countdown.Size(), st.LastValues.Size()} {
		if g != size {
			return false
		}
	}
	for r := range st.Board {
		if len(st.Board[r]) != size || len(st.Poison[r]) != size ||
			len(st.Countdown[r]) != size || len(st.LastValues[r]) != size {
			return false
		}
	}
	return true
}

// Move plays one turn in dir.
func (c *Controller) Move(s *GameSession, dir engine.Direction) (Outcome, error) {
	if s.GameOver {
		return Outcome{GameOver: true}, ErrGameOver
	}

	res := c.engine.ApplyTurn(dir, s.Game)
	out := Outcome{
		Changed: res.Changed,
		Gain:    res.Gain,
		Spawned: res.Spawned,
	}

	if res.Changed {
		s.History.Push(s.Game, c.historyLimit)
		s.Game = res.State
		s.Moves++
		out.NewAchievements = CheckAchievements(engine.MaxTile(s.Game.Board), &s.Unlocked)
	}

	if s.Game.Score > s.HighScore {
		s.HighScore = s.Game.Score
	}
	s.GameOver = engine.IsGameOver(s.Game.Board)
	out.GameOver = s.GameOver
	out.Finished = s.GameOver
	s.UpdatedAt = c.now()

	return out, nil
}

// Undo restores the state before the last changed move.
func (c *Controller) Undo(s *GameSession) error {
	prev, ok := s.History.Pop()
	if !ok {
		return ErrNothingToUndo
	}

	s.Game = prev
	if s.Moves > 0 {
		s.Moves--
	}
	s.GameOver = false
	s.UpdatedAt = c.now()
	return nil
}

// Reset starts a new game. Only a finished game counts toward Stats.
func (c *Controller) Reset(s *GameSession) {
	if s.GameOver {
		s.Stats.Record(s.Game.Score, s.Moves, c.Elapsed(s))
	}
	c.startGame(s)
}

func (c *Controller) startGame(s *GameSession) {
	now := c.now()
	s.Game = c.engine.NewGame()
	s.History = nil
	s.Moves = 0
	s.StartedAt = now
	s.GameOver = false
	s.ScoreSaved = false
	s.UpdatedAt = now
}

// NeedsScore reports whether s holds a finished game not yet recorded.
func NeedsScore(s *GameSession) bool {
	return s.GameOver && !s.ScoreSaved
}

// Elapsed returns the play time of the current game.
func (c *Controller) Elapsed(s *GameSession) time.Duration {
	d := c.now().Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
