package engine

import (
	"errors"
	"fmt"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// ErrUnknownDirection is returned by ParseDirection for unrecognized input.
var ErrUnknownDirection = errors.New("engine: unknown direction")

// Directions lists every direction in a stable order.
var Directions = []Direction{DirLeft, DirRight, DirUp, DirDown}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps "left", "right", "up" and "down" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// ReduceRow compresses a row to the left and merges equal neighbours.
// Returns the new row and the score gained from merges.
// A tile produced by a merge does not merge again in the same pass.
func ReduceRow(row []int) (result []int, gain int) {
	result = make([]int, len(row))
	writePos := 0
	merged := false // whether result[writePos-1] came from a merge

	for _, v := range row {
		if v == 0 {
			continue
		}

		if writePos > 0 && !merged && result[writePos-1] == v {
			// Merge with previous tile
			result[writePos-1] *= 2
			gain += result[writePos-1]
			merged = true
			continue
		}

		// Move tile
		result[writePos] = v
		writePos++
		merged = false
	}

	return result, gain
}

// MoveLeft slides all tiles left and merges.
// Returns a fresh board and the score gained.
func MoveLeft(board Board) (Board, int) {
	board.mustSquare("board")
	out := make(Board, len(board))
	total := 0

	for r, row := range board {
		newRow, gain := ReduceRow(row)
		out[r] = newRow
		total += gain
	}

	return out, total
}

// MoveRight slides all tiles right and merges.
func MoveRight(board Board) (Board, int) {
	// Reverse, slide left, reverse back
	moved, gain := MoveLeft(reverseRows(board))
	return reverseRows(moved), gain
}

// MoveUp slides all tiles up and merges.
func MoveUp(board Board) (Board, int) {
	// Transpose, slide left, transpose back
	moved, gain := MoveLeft(transpose(board))
	return transpose(moved), gain
}

// MoveDown slides all tiles down and merges.
func MoveDown(board Board) (Board, int) {
	// Transpose, slide right, transpose back
	moved, gain := MoveRight(transpose(board))
	return transpose(moved), gain
}

// Move performs a move in the given direction.
// An unknown direction yields an unchanged copy and no gain.
func Move(board Board, dir Direction) (Board, int) {
	switch dir {
	case DirLeft:
		return MoveLeft(board)
	case DirRight:
		return MoveRight(board)
	case DirUp:
		return MoveUp(board)
	case DirDown:
		return MoveDown(board)
	default:
		return board.Clone(), 0
	}
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(board Board) []Pos {
	var cells []Pos
	for r, row := range board {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Pos{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for _, row := range board {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any orthogonal neighbours hold the same non-zero value.
func HasPossibleMerge(board Board) bool {
	n := len(board)
	for r := range n {
		for c := range n {
			v := board[r][c]
			if v == 0 {
				continue
			}
			// Check right neighbor
			if c < n-1 && board[r][c+1] == v {
				return true
			}
			// Check bottom neighbor
			if r < n-1 && board[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if some direction would change the board.
func CanMove(board Board) bool {
	return HasEmptyCell(board) || HasPossibleMerge(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) int {
	maxVal := 0
	for _, row := range board {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func Sum(board Board) int {
	total := 0
	for _, row := range board {
		for _, v := range row {
			total += v
		}
	}
	return total
}
