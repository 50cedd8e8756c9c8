package web

import (
	"sync"
	"time"

	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

// SessionStore loads and saves game sessions by id.
// LoadSession returns nil, nil for an unknown id.
type SessionStore interface {
	LoadSession(id string) (*session.GameSession, error)
	SaveSession(gs *session.GameSession) error
}

// ScoreStore records finished games and lists the best ones.
type ScoreStore interface {
	RecordFinished(gs *session.GameSession, elapsed time.Duration) error
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// pruner is implemented by stores that can drop idle sessions.
type pruner interface {
	PruneSessions(cutoff time.Time) (int64, error)
}

var (
	_ SessionStore = (*storage.Store)(nil)
	_ ScoreStore   = (*storage.Store)(nil)
	_ SessionStore = (*MemoryStore)(nil)
	_ pruner       = (*MemoryStore)(nil)
)

type memEntry struct {
	gs      *session.GameSession
	updated time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memEntry
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]memEntry{},
	}
}

func (m *MemoryStore) LoadSession(id string) (*session.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return e.gs, nil
}

func (m *MemoryStore) SaveSession(gs *session.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[gs.ID] = memEntry{gs: gs, updated: gs.UpdatedAt}
	return nil
}

func (m *MemoryStore) PruneSessions(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.sessions {
		if e.updated.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sessionLocks hands out one mutex per session id and forgets it once
// nobody holds or waits for it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sessionLock{}}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	sl := l.locks[id]
	if sl == nil {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
