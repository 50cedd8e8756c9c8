package engine

import "fmt"

// DefaultSize is the default board dimension.
const DefaultSize = 4

// Grid is a square grid of cells indexed [row][col].
type Grid[T comparable] [][]T

// NewGrid allocates an n x n grid of zero values.
func NewGrid[T comparable](n int) Grid[T] {
	g := make(Grid[T], n)
	for r := range g {
		g[r] = make([]T, n)
	}
	return g
}

// Size returns the grid dimension.
func (g Grid[T]) Size() int {
	return len(g)
}

// Clone returns a deep copy of the grid.
func (g Grid[T]) Clone() Grid[T] {
	if g == nil {
		return nil
	}
	out := make(Grid[T], len(g))
	for r, row := range g {
		out[r] = append([]T(nil), row...)
	}
	return out
}

// Equal reports whether both grids have the same shape and cells.
func (g Grid[T]) Equal(other Grid[T]) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// mustSquare panics unless every row has len(g) cells.
func (g Grid[T]) mustSquare(name string) {
	for r, row := range g {
		if len(row) != len(g) {
			panic(fmt.Sprintf("engine: %s row %d has %d cells, want %d", name, r, len(row), len(g)))
		}
	}
}

// Board is the tile grid; 0 marks an empty cell.
type Board = Grid[int]

// NewBoard allocates an empty n x n board.
func NewBoard(n int) Board {
	return NewGrid[int](n)
}

// Pos is a cell coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// reverseRows returns a copy of the board with every row reversed.
func reverseRows(b Board) Board {
	n := len(b)
	out := NewBoard(n)
	for r := range n {
		for c := range n {
			out[r][c] = b[r][n-1-c]
		}
	}
	return out
}

// transpose returns the matrix transpose.
func transpose(b Board) Board {
	n := len(b)
	out := NewBoard(n)
	for r := range n {
		for c := range n {
			out[r][c] = b[c][r]
		}
	}
	return out
}
