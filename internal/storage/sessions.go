package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/vovakirdan/toxic2048/internal/session"
)

// SaveSession inserts or replaces the session blob.
func (s *Store) SaveSession(gs *session.GameSession) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("storage: cannot encode session %s: %w", gs.ID, err)
	}

	updated := gs.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		gs.ID, string(data), updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session, or nil if none exists.
func (s *Store) LoadSession(id string) (*session.GameSession, error) {
	var data string
	err := s.db.QueryRow("SELECT state FROM sessions WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load session: %w", err)
	}

	var gs session.GameSession
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		return nil, fmt.Errorf("storage: cannot decode session %s: %w", id, err)
	}
	return &gs, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	return nil
}

// PruneSessions deletes sessions last updated before cutoff.
// Returns the number of deleted sessions.
func (s *Store) PruneSessions(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE updated_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count pruned sessions: %w", err)
	}
	return n, nil
}
