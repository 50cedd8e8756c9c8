package engine

import "fmt"

// PoisonCell tracks one poison flag and its stagnation counter.
// Steps is always 0 while Active is false.
type PoisonCell struct {
	Active bool `json:"active"`
	Steps  int  `json:"steps"`
}

// Specials holds the per-cell special-tile state that runs parallel to a board.
type Specials struct {
	Poison     Grid[PoisonCell] `json:"poison"`
	Countdown  Grid[bool]       `json:"countdown"`
	LastValues Board            `json:"last_values"`
}

// NewSpecials returns cleared special grids whose baseline is a copy of board.
func NewSpecials(board Board) Specials {
	n := board.Size()
	return Specials{
		Poison:     NewGrid[PoisonCell](n),
		Countdown:  NewGrid[bool](n),
		LastValues: board.Clone(),
	}
}

// Clone returns a deep copy of all special grids.
func (s Specials) Clone() Specials {
	return Specials{
		Poison:     s.Poison.Clone(),
		Countdown:  s.Countdown.Clone(),
		LastValues: s.LastValues.Clone(),
	}
}

// Equal reports whether two states match cell for cell.
func (s Specials) Equal(other Specials) bool {
	return s.Poison.Equal(other.Poison) &&
		s.Countdown.Equal(other.Countdown) &&
		s.LastValues.Equal(other.LastValues)
}

// mustMatch panics when any special grid disagrees with the board's shape.
func (s Specials) mustMatch(board Board) {
	board.mustSquare("board")
	s.Poison.mustSquare("poison")
	s.Countdown.mustSquare("countdown")
	s.LastValues.mustSquare("last values")

	n := board.Size()
	if s.Poison.Size() != n || s.Countdown.Size() != n || s.LastValues.Size() != n {
		panic(fmt.Sprintf("engine: grid size mismatch: board %d, poison %d, countdown %d, last values %d",
			n, s.Poison.Size(), s.Countdown.Size(), s.LastValues.Size()))
	}
}

// ResolveSpecials applies poison decay and countdown halving to every cell,
// then records the resulting values as the baseline for the next resolution.
// Poison is resolved before countdown on the same cell.
func ResolveSpecials(board Board, s Specials, poisonLimit int) {
	s.mustMatch(board)

	for r, row := range board {
		for c := range row {
			val := board[r][c]

			if p := &s.Poison[r][c]; p.Active {
				if val != 0 && val == s.LastValues[r][c] {
					p.Steps++
				} else {
					p.Steps = 0
				}

				if p.Steps >= poisonLimit && val != 0 {
					board[r][c] = 0
					p.Active = false
					p.Steps = 0
					val = 0
				}
			}

			if s.Countdown[r][c] && val > 0 {
				val /= 2
				board[r][c] = val
				if val == 0 {
					s.Countdown[r][c] = false
				}
			}

			s.LastValues[r][c] = board[r][c]
		}
	}
}

// MarkSpecial clears any flags on pos, then draws a single roll: below
// poisonChance marks poison, below poisonChance+countdownChance marks countdown.
func MarkSpecial(pos Pos, s Specials, rng Rand, poisonChance, countdownChance float64) {
	s.Poison[pos.Row][pos.Col] = PoisonCell{}
	s.Countdown[pos.Row][pos.Col] = false

	roll := rng.Float64()
	switch {
	case roll < poisonChance:
		s.Poison[pos.Row][pos.Col] = PoisonCell{Active: true}
	case roll < poisonChance+countdownChance:
		s.Countdown[pos.Row][pos.Col] = true
	}
}

// PoisonRemaining returns how many more stagnant resolutions the poison cell
// at pos survives, or -1 when the cell is not poisoned.
func PoisonRemaining(s Specials, pos Pos, poisonLimit int) int {
	p := s.Poison[pos.Row][pos.Col]
	if !p.Active {
		return -1
	}
	left := poisonLimit - p.Steps
	if left < 0 {
		return 0
	}
	return left
}
