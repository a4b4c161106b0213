package raster

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when bands taking part in one operation do
// not share (rows, cols).
var ErrShapeMismatch = errors.New("raster: band shapes differ")

// Grid is a row-major 2-D array of float64 values.
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Filled returns a rows x cols grid with every cell set to v.
func Filled(rows, cols int, v float64) *Grid {
	g := NewGrid(rows, cols)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

// FromRows copies a slice of equally long rows into a Grid.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(row), cols, ErrShapeMismatch)
		}
		copy(g.Data[r*cols:], row)
	}
	return g, nil
}

func (g *Grid) Len() int {
	return g.Rows * g.Cols
}

func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

func (g *Grid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

func (g *Grid) SameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// CheckShapes fails with ErrShapeMismatch unless all grids share the shape
// of the first one.
func CheckShapes(grids ...*Grid) error {
	for i := 1; i < len(grids); i++ {
		if !grids[i].SameShape(grids[0]) {
			return fmt.Errorf("band %d is %dx%d, band 1 is %dx%d: %w",
				i+1, grids[i].Rows, grids[i].Cols, grids[0].Rows, grids[0].Cols, ErrShapeMismatch)
		}
	}
	return nil
}
