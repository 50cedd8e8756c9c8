package session

import "github.com/vovakirdan/toxic2048/internal/engine"

// DefaultHistoryLimit is how many undo steps a session keeps.
const DefaultHistoryLimit = 20

// History is a bounded undo stack; the newest entry is last.
type History []engine.State

// Push stores a deep copy of st, dropping the oldest entries beyond limit.
func (h *History) Push(st engine.State, limit int) {
	*h = append(*h, st.Clone())
	if limit > 0 && len(*h) > limit {
		drop := len(*h) - limit
		*h = append((*h)[:0:0], (*h)[drop:]...)
	}
}

// Pop removes and returns the newest entry.
func (h *History) Pop() (engine.State, bool) {
	n := len(*h)
	if n == 0 {
		return engine.State{}, false
	}
	st := (*h)[n-1]
	*h = (*h)[:n-1]
	return st, true
}

// Len returns the number of stored entries.
func (h History) Len() int {
	return len(h)
}
