// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package grid

import (
	"fmt"
	"sort"
)

// Perimeter addresses the positions around a grid.
//
// The encoder and the schedule projector must agree on this numbering;
// both go through Perimeter and nothing else computes positions.
type Perimeter struct {
	g Grid
}

// Perimeter returns the perimeter addressing of g.
func (g Grid) Perimeter() Perimeter {
	return Perimeter{g: g}
}

// Len returns the number of perimeter positions, 2(W+H).
func (p Perimeter) Len() int {
	return 2 * (p.g.W + p.g.H)
}

// Side returns the side position i lies on.
//
// If i is out of range, Side panics.
func (p Perimeter) Side(i int) Side {
	w, h := p.g.W, p.g.H
	switch {
	case i < 0 || i >= p.Len():
		panic(fmt.Sprintf("grid: perimeter position %d out of range [0..%d)", i, p.Len()))
	case i < w:
		return Top
	case i < w+h:
		return Right
	case i < 2*w+h:
		return Bottom
	default:
		return Left
	}
}

// Cell returns the boundary cell fed by position i.
//
// If i is out of range, Cell panics.
func (p Perimeter) Cell(i int) Cell {
	w, h := p.g.W, p.g.H
	switch p.Side(i) {
	case Top:
		return Cell{X: i, Y: 0}
	case Right:
		return Cell{X: w - 1, Y: i - w}
	case Bottom:
		return Cell{X: w - 1 - (i - w - h), Y: h - 1}
	default:
		return Cell{X: 0, Y: h - 1 - (i - 2*w - h)}
	}
}

// Position returns the position on side s feeding c, and false if c does
// not touch side s.
func (p Perimeter) Position(c Cell, s Side) (int, bool) {
	w, h := p.g.W, p.g.H
	if !p.g.In(c) {
		return 0, false
	}
	switch s {
	case Top:
		if c.Y == 0 {
			return c.X, true
		}
	case Right:
		if c.X == w-1 {
			return w + c.Y, true
		}
	case Bottom:
		if c.Y == h-1 {
			return 2*w + h - 1 - c.X, true
		}
	case Left:
		if c.X == 0 {
			return 2*(w+h) - 1 - c.Y, true
		}
	}
	return 0, false
}

// Adjacent returns the positions feeding c in increasing order, placing the
// result in dst if there is space.  Interior cells have none.
func (p Perimeter) Adjacent(dst []int, c Cell) []int {
	dst = dst[:0]
	for s := Top; s <= Left; s++ {
		if i, ok := p.Position(c, s); ok {
			dst = append(dst, i)
		}
	}
	sort.Ints(dst)
	return dst
}
