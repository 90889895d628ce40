// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerimeterRoundTrip(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {2, 2}, {3, 2}, {2, 5}, {10, 10}} {
		g, err := New(sz[0], sz[1])
		require.NoError(t, err)
		p := g.Perimeter()
		assert.Equal(t, 2*(sz[0]+sz[1]), p.Len())
		seen := make(map[[3]int]bool)
		for i := 0; i < p.Len(); i++ {
			c := p.Cell(i)
			s := p.Side(i)
			require.True(t, g.In(c), "position %d feeds %s off grid", i, c)
			j, ok := p.Position(c, s)
			require.True(t, ok)
			assert.Equal(t, i, j, "grid %dx%d", g.W, g.H)
			k := [3]int{c.X, c.Y, int(s)}
			assert.False(t, seen[k], "(cell, side) reused")
			seen[k] = true
			assert.Contains(t, p.Adjacent(nil, c), i)
		}
	}
}

func TestPerimeterClockwise(t *testing.T) {
	g := Grid{W: 3, H: 2}
	p := g.Perimeter()
	want := []Cell{
		{0, 0}, {1, 0}, {2, 0}, // top
		{2, 0}, {2, 1}, // right
		{2, 1}, {1, 1}, {0, 1}, // bottom, reversed
		{0, 1}, {0, 0}, // left, reversed
	}
	for i, c := range want {
		assert.Equal(t, c, p.Cell(i), "position %d", i)
	}
	assert.Equal(t, []int{0, 9}, p.Adjacent(nil, Cell{0, 0}))
	assert.Equal(t, []int{4, 5}, p.Adjacent(nil, Cell{2, 1}))
}

func TestPerimeterInterior(t *testing.T) {
	g := Grid{W: 3, H: 3}
	assert.Empty(t, g.Perimeter().Adjacent(nil, Cell{1, 1}))
	assert.Len(t, g.Perimeter().Adjacent(nil, Cell{1, 0}), 1)
}

func TestPerimeterOutOfRange(t *testing.T) {
	p := Grid{W: 2, H: 2}.Perimeter()
	assert.Panics(t, func() { p.Cell(8) })
	assert.Panics(t, func() { p.Side(-1) })
}

func TestNeighbours(t *testing.T) {
	g := Grid{W: 3, H: 3}
	assert.Len(t, g.Neighbours4(nil, Cell{1, 1}), 4)
	assert.Len(t, g.Neighbours8(nil, Cell{1, 1}), 8)
	assert.Len(t, g.Neighbours4(nil, Cell{0, 0}), 2)
	assert.Len(t, g.Neighbours8(nil, Cell{0, 0}), 3)
	assert.True(t, Adjacent8(Cell{0, 0}, Cell{1, 1}))
	assert.False(t, Adjacent8(Cell{0, 0}, Cell{0, 0}))
	assert.False(t, Adjacent4(Cell{0, 0}, Cell{1, 1}))
}

func TestFootprints(t *testing.T) {
	g := Grid{W: 2, H: 2}
	fs := g.Footprints(Cell{0, 0})
	require.Len(t, fs, 1)
	assert.ElementsMatch(t, []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, fs[0][:])
	assert.Len(t, Grid{W: 3, H: 3}.Footprints(Cell{1, 1}), 4)
	assert.Empty(t, Grid{W: 1, H: 3}.Footprints(Cell{0, 1}))
}

func TestNewInvalid(t *testing.T) {
	_, err := New(0, 3)
	assert.Error(t, err)
}
