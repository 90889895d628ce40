// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package schedule decodes solver models into placements and step by step
// boards, checks them, and renders them as text, terminal boards and
// Graphviz drawings.
package schedule

import (
	"errors"
	"fmt"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/encode"
	"github.com/go-air/dmfb/grid"
	"github.com/go-air/gini/z"
)

// ErrConflict is returned by Project when a model places two nodes on one
// cell, or one droplet on two cells, at one step.
var ErrConflict = errors.New("schedule: conflicting model")

// Empty marks a free slot.
const Empty = -1

// Slot is the content of a cell at one step.
type Slot struct {
	Node   int  `json:"node"`
	Active bool `json:"active,omitempty"`
}

// Device places a dispenser or sink of a node at a perimeter position.
type Device struct {
	Pos  int `json:"pos"`
	Node int `json:"node"`
}

// Detector places the detector of a node on a cell.
type Detector struct {
	Cell grid.Cell `json:"cell"`
	Node int       `json:"node"`
}

// Schedule is a decoded synthesis result.
type Schedule struct {
	Name       string     `json:"name"`
	W          int        `json:"w"`
	H          int        `json:"h"`
	T          int        `json:"t"`
	Dispensers []Device   `json:"dispensers"`
	Sinks      []Device   `json:"sinks"`
	Detectors  []Detector `json:"detectors,omitempty"`
	Boards     [][]Slot   `json:"boards"` // step t at index t-1, cells by grid.Index
	Area       int        `json:"area"`
}

// Project decodes m, a model of the constraints emitted by enc.
func Project(enc *encode.Encoder, m backend.Model) (*Schedule, error) {
	v := enc.Vars()
	g := enc.Graph()
	s := &Schedule{
		Name:   g.Name,
		W:      v.Grid.W,
		H:      v.Grid.H,
		T:      v.T,
		Boards: make([][]Slot, v.T),
	}
	value := func(l z.Lit) bool {
		return l != z.LitNull && m.Value(l)
	}
	for t := 1; t <= v.T; t++ {
		board := make([]Slot, v.Grid.Len())
		for k := range board {
			board[k].Node = Empty
		}
		placed := make([]bool, v.Nodes())
		where := make([]grid.Cell, v.Nodes())
		for _, c := range v.Grid.Cells() {
			k := v.Grid.Index(c)
			for i := 0; i < v.Nodes(); i++ {
				for _, active := range []bool{false, true} {
					var l z.Lit
					switch {
					case !active && v.HasOcc(i):
						l = v.Occ(i, c, t)
					case active && v.HasAct(i):
						l = v.Act(i, c, t)
					default:
						continue
					}
					if !value(l) {
						continue
					}
					if board[k].Node != Empty {
						return nil, fmt.Errorf("%w: nodes %d and %d at %s, t=%d", ErrConflict, board[k].Node, i, c, t)
					}
					if !active {
						if placed[i] {
							return nil, fmt.Errorf("%w: node %d at %s and %s, t=%d", ErrConflict, i, where[i], c, t)
						}
						placed[i], where[i] = true, c
					}
					board[k] = Slot{Node: i, Active: active}
					s.Area++
				}
			}
		}
		s.Boards[t-1] = board
	}
	for p := 0; p < v.Per.Len(); p++ {
		for i := 0; i < v.Nodes(); i++ {
			if value(v.Dispenser(p, i)) {
				s.Dispensers = append(s.Dispensers, Device{Pos: p, Node: i})
			}
			if value(v.Sink(p, i)) {
				s.Sinks = append(s.Sinks, Device{Pos: p, Node: i})
			}
		}
	}
	for _, c := range v.Grid.Cells() {
		for i := 0; i < v.Nodes(); i++ {
			if value(v.Detector(c, i)) {
				s.Detectors = append(s.Detectors, Detector{Cell: c, Node: i})
			}
		}
	}
	return s, nil
}

// Grid returns the grid of s.
func (s *Schedule) Grid() grid.Grid {
	return grid.Grid{W: s.W, H: s.H}
}

// At returns the slot of c at step t.
func (s *Schedule) At(c grid.Cell, t int) Slot {
	return s.Boards[t-1][s.Grid().Index(c)]
}

// Where returns the cell holding the droplet of node i at step t.
func (s *Schedule) Where(i, t int) (grid.Cell, bool) {
	gr := s.Grid()
	for k, sl := range s.Boards[t-1] {
		if sl.Node == i && !sl.Active {
			return gr.At(k), true
		}
	}
	return grid.Cell{}, false
}

// Dispenser returns the perimeter position of node i's dispenser.
func (s *Schedule) Dispenser(i int) (int, bool) {
	for _, d := range s.Dispensers {
		if d.Node == i {
			return d.Pos, true
		}
	}
	return 0, false
}

// Sink returns the perimeter position of output node o's sink.
func (s *Schedule) Sink(o int) (int, bool) {
	for _, d := range s.Sinks {
		if d.Node == o {
			return d.Pos, true
		}
	}
	return 0, false
}
