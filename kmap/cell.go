// Package kmap grades Karnaugh map answers and derives the JK excitation
// maps of the MOD-7 counter.
package kmap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCell is returned for cell input other than 0, 1 or X.
var ErrInvalidCell = errors.New("cell must be 0, 1 or X")

// Cell is the content of one K-map square.
type Cell int

// The cell values. Empty marks a square nobody filled in.
const (
	Empty Cell = iota
	Zero
	One
	DontCare
)

// ParseCell reads user input. Blank input is Empty and x is accepted in
// either case.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return Empty, nil
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	case "X":
		return DontCare, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
}

// String returns "0", "1", "X", or "" for an empty cell.
func (c Cell) String() string {
	switch c {
	case Zero:
		return "0"
	case One:
		return "1"
	case DontCare:
		return "X"
	default:
		return ""
	}
}

// Grid holds the cells of a map by row.
type Grid [][]Cell

// ParseGrid reads rows of cell input.
func ParseGrid(rows [][]string) (Grid, error) {
	g := make(Grid, len(rows))

	for r, row := range rows {
		g[r] = make([]Cell, len(row))

		for c, s := range row {
			cell, err := ParseCell(s)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", r, c, err)
			}

			g[r][c] = cell
		}
	}

	return g, nil
}

func (g Grid) sameShape(other Grid) bool {
	if len(g) != len(other) {
		return false
	}

	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for r := range g {
		c[r] = append([]Cell(nil), g[r]...)
	}

	return c
}
