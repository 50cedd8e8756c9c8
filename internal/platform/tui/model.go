package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

// LocalSessionID is the session id of local terminal play.
const LocalSessionID = "local"

// Store persists sessions and finished games. *storage.Store implements it.
type Store interface {
	ScoreSource
	LoadSession(id string) (*session.GameSession, error)
	SaveSession(gs *session.GameSession) error
	RecordFinished(gs *session.GameSession, elapsed time.Duration) error
}

var _ Store = (*storage.Store)(nil)

// Model is the Bubble Tea model of one player's game.
type Model struct {
	ctrl       *session.Controller
	store      Store // nil plays without persistence
	logger     *log.Logger
	gs         *session.GameSession
	keys       KeyMap
	help       help.Model
	scoreboard *ScoreboardModel
	status     string
	width      int
	height     int
	quitting   bool
}

// NewModel loads the session id from store, or starts a new one, and
// returns a model that plays it.
func NewModel(ctrl *session.Controller, store Store, id string, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		ctrl:   ctrl,
		store:  store,
		logger: logger,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}

	if store != nil {
		gs, err := store.LoadSession(id)
		if err != nil {
			logger.Warn("could not load saved game, starting a new one", "session", id, "error", err)
		}
		m.gs = gs
	}
	switch {
	case m.gs == nil:
		m.gs = ctrl.NewSession(id)
	case ctrl.Restore(m.gs):
		m.status = "Saved game did not fit the current rules, new game started"
	default:
		m.status = "Welcome back"
	}
	if m.recordScore() {
		m.persist()
	}
	return m
}

// Session returns the session being played.
func (m Model) Session() *session.GameSession {
	return m.gs
}

// Init starts the clock.
func (m Model) Init() tea.Cmd {
	return tickCmd(clockInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.scoreboard != nil {
			return m.updateScoreboard(msg)
		}
		return m, nil

	case TickMsg:
		return m, tickCmd(clockInterval)

	case tea.KeyMsg:
		if m.scoreboard != nil {
			return m.updateScoreboard(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		return m.quit()
	case sb.IsGoingBack():
		m.scoreboard = nil
		return m, nil
	}
	m.scoreboard = &sb
	return m, cmd
}

// handleKey processes keyboard input on the game screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dir, ok := m.keys.Direction(msg); ok {
		m.move(dir)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Undo):
		if err := m.ctrl.Undo(m.gs); err != nil {
			m.status = "Nothing to undo"
			return m, nil
		}
		m.status = "Move undone"
		m.persist()

	case key.Matches(msg, m.keys.New):
		m.recordScore()
		m.ctrl.Reset(m.gs)
		m.status = "New game"
		m.persist()

	case key.Matches(msg, m.keys.Scores):
		sb := NewScoreboardModel(m.store, m.gs.ID, m.width, m.height)
		m.scoreboard = &sb
	}

	return m, nil
}

func (m *Model) move(dir engine.Direction) {
	out, err := m.ctrl.Move(m.gs, dir)
	if errors.Is(err, session.ErrGameOver) {
		m.status = "Game over, press r for a new game or u to undo"
		return
	}

	switch {
	case len(out.NewAchievements) > 0:
		labels := make([]string, len(out.NewAchievements))
		for i, a := range out.NewAchievements {
			labels[i] = a.Label
		}
		m.status = "Unlocked: " + strings.Join(labels, ", ")
	case out.Gain > 0:
		m.status = fmt.Sprintf("+%d", out.Gain)
	default:
		m.status = ""
	}

	if out.Finished {
		m.recordScore()
	}
	if out.Changed || out.Finished {
		m.persist()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.persist()
	m.quitting = true
	return m, tea.Quit
}

// persist saves the session. Failures are logged and play continues.
func (m *Model) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveSession(m.gs); err != nil {
		m.logger.Warn("could not save game", "session", m.gs.ID, "error", err)
	}
}

// recordScore stores a finished game once and reports whether it did.
// Saving the updated session is left to the caller.
func (m *Model) recordScore() bool {
	if m.store == nil || !session.NeedsScore(m.gs) {
		return false
	}
	if err := m.store.RecordFinished(m.gs, m.ctrl.Elapsed(m.gs)); err != nil {
		m.logger.Warn("could not save score", "session", m.gs.ID, "error", err)
		return false
	}
	return true
}

// View renders the game screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	v := m.ctrl.View(m.gs)

	sections := []string{
		titleStyle.Render("T O X I C  2 0 4 8"),
		renderHUD(v, m.ctrl.HistoryLimit()),
		RenderBoard(v.Cells),
	}
	if v.GameOver {
		sections = append(sections, alertStyle.Render("GAME OVER"))
	}
	if m.status != "" {
		sections = append(sections, hudStyle.Render(m.status))
	}
	sections = append(sections,
		renderLegend(v.PoisonStepsLimit),
		renderAchievements(v.Achievements),
		renderStats(v.Stats),
		dimStyle.Render(m.help.View(m.keys)),
	)

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}
	return body
}

// Run starts the Bubble Tea program for session id.
func Run(ctrl *session.Controller, store Store, id string, logger *log.Logger) error {
	model := NewModel(ctrl, store, id, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
