// Package engine implements the board-transition rules of toxic2048: sliding
// and merging, tile spawning, poison and countdown tiles, and the ordering
// that combines them into a turn. It holds no state between calls; every
// function works on the snapshot it is given.
package engine

// Rules are the tunable constants of one game.
type Rules struct {
	Size             int     // Board dimension
	PoisonStepsLimit int     // Stagnant resolutions before a poison tile is cleared
	PoisonChance     float64 // Probability a spawned tile becomes poison
	CountdownChance  float64 // Probability a spawned tile becomes countdown
	FourChance       float64 // Probability of spawning 4 instead of 2
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		Size:             DefaultSize,
		PoisonStepsLimit: 5,
		PoisonChance:     0.10,
		CountdownChance:  0.10,
		FourChance:       0.10,
	}
}

// State is everything a turn reads and writes.
type State struct {
	Board    Board `json:"board"`
	Score    int   `json:"score"`
	Specials `json:"specials"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Board:    s.Board.Clone(),
		Score:    s.Score,
		Specials: s.Specials.Clone(),
	}
}

// Equal reports whether two states match exactly.
func (s State) Equal(other State) bool {
	return s.Score == other.Score &&
		s.Board.Equal(other.Board) &&
		s.Specials.Equal(other.Specials)
}

// TurnResult is the output of one turn.
type TurnResult struct {
	State   State
	Gain    int
	Changed bool
	Spawned *Pos // nil when nothing was spawned
}

// Engine binds a rule set to a random source.
type Engine struct {
	rules Rules
	rng   Rand
}

// New creates an engine. A zero Size falls back to DefaultSize.
func New(rules Rules, rng Rand) *Engine {
	if rules.Size <= 0 {
		rules.Size = DefaultSize
	}
	return &Engine{rules: rules, rng: rng}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() Rules {
	return e.rules
}

// NewGame returns a fresh state with two spawned tiles and cleared specials.
func (e *Engine) NewGame() State {
	board := NewBoard(e.rules.Size)
	Spawn(board, e.rng, e.rules.FourChance)
	Spawn(board, e.rng, e.rules.FourChance)

	return State{
		Board:    board,
		Specials: NewSpecials(board),
	}
}

// ApplyTurn moves the board in dir. When the move changes nothing the input
// state is returned as is. Otherwise specials are resolved on the moved
// board, a tile is spawned and possibly marked special, and the gain is
// added to the score. The input state is never modified.
func (e *Engine) ApplyTurn(dir Direction, st State) TurnResult {
	st.Specials.mustMatch(st.Board)

	moved, gain := Move(st.Board, dir)
	if moved.Equal(st.Board) {
		return TurnResult{State: st}
	}

	next := State{
		Board:    moved,
		Score:    st.Score + gain,
		Specials: st.Specials.Clone(),
	}

	// Resolve leftovers from previous turns before the new tile appears
	ResolveSpecials(next.Board, next.Specials, e.rules.PoisonStepsLimit)

	result := TurnResult{State: next, Gain: gain, Changed: true}
	if pos, ok := Spawn(next.Board, e.rng, e.rules.FourChance); ok {
		MarkSpecial(pos, next.Specials, e.rng, e.rules.PoisonChance, e.rules.CountdownChance)
		result.Spawned = &pos
	}

	return result
}

// IsGameOver returns true if no moves are possible.
func IsGameOver(board Board) bool {
	return !CanMove(board)
}
