// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package grid provides cell and perimeter addressing for a rectangular
// electrode array.
//
// Cells are addressed by column X in [0..W) and row Y in [0..H), with row 0
// at the top.  Perimeter positions are the 2(W+H) points outside the array
// where dispensers and sinks attach.  They are numbered clockwise starting at
// the top-left corner:
//
//	[0, W)          top edge, left to right, feeding row 0
//	[W, W+H)        right edge, top to bottom, feeding column W-1
//	[W+H, 2W+H)     bottom edge, right to left, feeding row H-1
//	[2W+H, 2W+2H)   left edge, bottom to top, feeding column 0
//
// Every position feeds exactly one boundary cell; a corner cell is fed by
// two positions.
package grid

import "fmt"

// Cell is a grid cell.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Side names the edge of the array a perimeter position lies on.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Grid is a W x H electrode array.
type Grid struct {
	W, H int
}

// New creates a grid, returning an error if either dimension is not
// positive.
func New(w, h int) (Grid, error) {
	if w < 1 || h < 1 {
		return Grid{}, fmt.Errorf("grid: invalid size %dx%d", w, h)
	}
	return Grid{W: w, H: h}, nil
}

// Len returns the number of cells.
func (g Grid) Len() int {
	return g.W * g.H
}

// In reports whether c lies on the grid.
func (g Grid) In(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.W && c.Y < g.H
}

// Index returns the row major index of c.
func (g Grid) Index(c Cell) int {
	return c.Y*g.W + c.X
}

// At is the inverse of Index.
func (g Grid) At(i int) Cell {
	return Cell{X: i % g.W, Y: i / g.W}
}

// Cells returns all cells in row major order.
func (g Grid) Cells() []Cell {
	cs := make([]Cell, 0, g.Len())
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			cs = append(cs, Cell{X: x, Y: y})
		}
	}
	return cs
}

var (
	orth = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	diag = [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
)

// Neighbours4 returns the orthogonal neighbours of c which lie on the grid,
// placing the result in dst if there is space.
func (g Grid) Neighbours4(dst []Cell, c Cell) []Cell {
	dst = dst[:0]
	for _, d := range orth {
		n := Cell{X: c.X + d[0], Y: c.Y + d[1]}
		if g.In(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Neighbours8 returns the orthogonal and diagonal neighbours of c which lie
// on the grid, placing the result in dst if there is space.
func (g Grid) Neighbours8(dst []Cell, c Cell) []Cell {
	dst = g.Neighbours4(dst, c)
	for _, d := range diag {
		n := Cell{X: c.X + d[0], Y: c.Y + d[1]}
		if g.In(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Adjacent8 reports whether a and b are distinct and touch orthogonally or
// diagonally.
func Adjacent8(a, b Cell) bool {
	if a == b {
		return false
	}
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// Adjacent4 reports whether a and b touch orthogonally.
func Adjacent4(a, b Cell) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Footprints returns the 2x2 blocks having c as a corner which lie on the
// grid, one per diagonal direction.  The first cell of each block is c.
func (g Grid) Footprints(c Cell) [][4]Cell {
	var res [][4]Cell
	for _, d := range diag {
		b := [4]Cell{
			c,
			{X: c.X + d[0], Y: c.Y},
			{X: c.X, Y: c.Y + d[1]},
			{X: c.X + d[0], Y: c.Y + d[1]}}
		if g.In(b[3]) {
			res = append(res, b)
		}
	}
	return res
}
