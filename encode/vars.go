// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

import (
	"fmt"

	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/grid"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Vars holds the variable tables of one encoding.  Each table is keyed by
// its own index space; a nil row means the node has no variables of that
// family.
//
// Time steps run from 1 to T inclusive.
type Vars struct {
	Grid grid.Grid
	Per  grid.Perimeter
	T    int

	cells int
	occ   [][]z.Lit // node -> (t-1)*cells + cell
	act   [][]z.Lit // node -> (t-1)*cells + cell
	disp  [][]z.Lit // node -> position
	sink  [][]z.Lit // output node -> position
	det   [][]z.Lit // node -> cell
}

func newVars(c *logic.C, g *dag.Graph, gr grid.Grid, T int) (*Vars, error) {
	v := &Vars{
		Grid:  gr,
		Per:   gr.Perimeter(),
		T:     T,
		cells: gr.Len(),
	}
	n := g.Len()
	v.occ = make([][]z.Lit, n)
	v.act = make([][]z.Lit, n)
	v.disp = make([][]z.Lit, n)
	v.sink = make([][]z.Lit, n)
	v.det = make([][]z.Lit, n)
	span := T * v.cells
	for i := 0; i < n; i++ {
		switch k := g.Node(i).Kind; k {
		case dag.KindDispense:
			v.occ[i] = lits(c, span)
			v.disp[i] = lits(c, v.Per.Len())
		case dag.KindMix:
			v.occ[i] = lits(c, span)
			v.act[i] = lits(c, span)
			v.disp[i] = lits(c, v.Per.Len())
		case dag.KindOutput:
			v.sink[i] = lits(c, v.Per.Len())
		case dag.KindDetect:
			v.occ[i] = lits(c, span)
			v.act[i] = lits(c, span)
			v.det[i] = lits(c, v.cells)
		default:
			return nil, fmt.Errorf("encode: node %d: %w: %s", i, dag.ErrUnknownKind, k)
		}
	}
	return v, nil
}

func lits(c *logic.C, n int) []z.Lit {
	res := make([]z.Lit, n)
	for i := range res {
		res[i] = c.Lit()
	}
	return res
}

func (v *Vars) at(c grid.Cell, t int) int {
	if t < 1 || t > v.T {
		panic(fmt.Sprintf("encode: time %d out of [1..%d]", t, v.T))
	}
	return (t-1)*v.cells + v.Grid.Index(c)
}

// Nodes returns the number of nodes the tables are sized for.
func (v *Vars) Nodes() int {
	return len(v.occ)
}

// HasOcc reports whether node i has occupancy variables.
func (v *Vars) HasOcc(i int) bool {
	return v.occ[i] != nil
}

// HasAct reports whether node i has activity variables.
func (v *Vars) HasAct(i int) bool {
	return v.act[i] != nil
}

// Occ returns the occupancy variable: droplet i sits at c at time t.
func (v *Vars) Occ(i int, c grid.Cell, t int) z.Lit {
	return v.occ[i][v.at(c, t)]
}

// Act returns the activity variable: c is busy executing node i at time t.
func (v *Vars) Act(i int, c grid.Cell, t int) z.Lit {
	return v.act[i][v.at(c, t)]
}

// Dispenser returns the variable placing node i's dispenser at perimeter
// position p, or z.LitNull if i has no dispenser variables.
func (v *Vars) Dispenser(p, i int) z.Lit {
	if v.disp[i] == nil {
		return z.LitNull
	}
	return v.disp[i][p]
}

// Sink returns the variable assigning output node o's sink to perimeter
// position p, or z.LitNull if o is not an output.
func (v *Vars) Sink(p, o int) z.Lit {
	if v.sink[o] == nil {
		return z.LitNull
	}
	return v.sink[o][p]
}

// Detector returns the variable placing node i's detector at c, or
// z.LitNull if i is not a detect node.
func (v *Vars) Detector(c grid.Cell, i int) z.Lit {
	if v.det[i] == nil {
		return z.LitNull
	}
	return v.det[i][v.Grid.Index(c)]
}

// Counted returns all occupancy and activity variables, the literals the
// objective counts, in a fixed order.
func (v *Vars) Counted() []z.Lit {
	var res []z.Lit
	for i := range v.occ {
		res = append(res, v.occ[i]...)
		res = append(res, v.act[i]...)
	}
	return res
}
