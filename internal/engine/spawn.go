package engine

// Rand is the random source used for spawning and special marking.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Spawn places a 2 or 4 in a uniformly chosen empty cell.
// Returns the chosen cell, or false when the board is full.
func Spawn(board Board, rng Rand, fourChance float64) (Pos, bool) {
	empty := EmptyCells(board)
	if len(empty) == 0 {
		return Pos{}, false
	}

	// Pick random empty cell
	cell := empty[rng.Intn(len(empty))]

	// Determine value (90% 2, 10% 4 by default)
	value := 2
	if rng.Float64() < fourChance {
		value = 4
	}

	board[cell.Row][cell.Col] = value
	return cell, true
}
