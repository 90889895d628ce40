// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

import (
	"fmt"

	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/grid"
	"github.com/go-air/gini/z"
)

// justKey addresses an activity variable: node and (t-1)*cells + cell.
type justKey struct {
	node, at int
}

// movement codes where droplets may come from.  A droplet at (c, t) was
// carried from c or a 4-neighbour at t-1, or dispensed next to its
// dispenser, or produced by its mix or detect operation; exactly one of
// these holds.  Output nodes code where their input may be consumed.
func (e *Encoder) movement() error {
	v := e.v
	e.just = make(map[justKey][]z.Lit)
	var ds []z.Lit
	for i := 0; i < e.g.Len(); i++ {
		nd := e.g.Node(i)
		switch nd.Kind {
		case dag.KindDispense, dag.KindMix, dag.KindDetect:
		case dag.KindOutput:
			e.consume(i)
			continue
		default:
			return fmt.Errorf("encode: node %d: %w: %s", i, dag.ErrUnknownKind, nd.Kind)
		}
		for t := 1; t <= v.T; t++ {
			for _, c := range v.Grid.Cells() {
				ds = ds[:0]
				if t > 1 {
					ds = append(ds, e.carried(i, c, t))
				}
				switch nd.Kind {
				case dag.KindDispense:
					ds = append(ds, e.dispensed(i, c, t))
				case dag.KindMix:
					ds = e.mixed(ds, i, c, t)
				case dag.KindDetect:
					ds = e.detected(ds, i, c, t)
				}
				ds = e.dropFalse(ds)
				occ := v.Occ(i, c, t)
				if len(ds) == 0 {
					e.clause(occ.Not())
					continue
				}
				e.clause(append([]z.Lit{occ.Not()}, ds...)...)
				e.atMostOneIf(occ, ds)
			}
		}
		e.clause(e.present(i, v.T).Not())
		if v.HasAct(i) {
			e.activity(i)
		}
	}
	return nil
}

func (e *Encoder) dropFalse(ms []z.Lit) []z.Lit {
	j := 0
	for _, m := range ms {
		if m != e.c.F {
			ms[j] = m
			j++
		}
	}
	return ms[:j]
}

// carried: i was at c or next to it one step earlier.
func (e *Encoder) carried(i int, c grid.Cell, t int) z.Lit {
	v := e.v
	d := v.Occ(i, c, t-1)
	e.cbuf = v.Grid.Neighbours4(e.cbuf, c)
	for _, n := range e.cbuf {
		d = e.c.Or(d, v.Occ(i, n, t-1))
	}
	return d
}

// dispensed: a dispenser of i feeds c and i appears for the first time.
func (e *Encoder) dispensed(i int, c grid.Cell, t int) z.Lit {
	v := e.v
	d := e.c.F
	e.pbuf = v.Per.Adjacent(e.pbuf, c)
	for _, p := range e.pbuf {
		d = e.c.Or(d, v.Dispenser(p, i))
	}
	return e.c.And(d, e.before(i, t).Not())
}

// mixed appends one production literal per footprint with corner c.
func (e *Encoder) mixed(ds []z.Lit, i int, c grid.Cell, t int) []z.Lit {
	v := e.v
	D := e.g.Node(i).Duration()
	if t < D+2 {
		return ds
	}
	var conj []z.Lit
	for _, fp := range v.Grid.Footprints(c) {
		conj = conj[:0]
		near := e.around(fp[:])
		for _, s := range e.g.In(i) {
			at := e.c.F
			for _, f := range near {
				at = e.c.Or(at, v.Occ(s, f, t-D-1))
			}
			conj = append(conj, at, e.present(s, t-D).Not())
		}
		for tau := t - D; tau < t; tau++ {
			for _, f := range fp {
				conj = append(conj, v.Act(i, f, tau))
			}
		}
		conj = append(conj, e.before(i, t).Not())
		prod := e.c.Ands(conj...)
		ds = append(ds, prod)
		e.justify(i, fp[:], t, D, e.c.And(v.Occ(i, c, t), prod))
	}
	return ds
}

// detected appends the production literal of detect node i at c.
func (e *Encoder) detected(ds []z.Lit, i int, c grid.Cell, t int) []z.Lit {
	v := e.v
	D := e.g.Node(i).Duration()
	if t < D+2 {
		return ds
	}
	s := e.g.In(i)[0]
	conj := []z.Lit{
		v.Detector(c, i),
		v.Occ(s, c, t-D-1),
		e.present(s, t-D).Not(),
	}
	for tau := t - D; tau < t; tau++ {
		conj = append(conj, v.Act(i, c, tau))
	}
	conj = append(conj, e.before(i, t).Not())
	prod := e.c.Ands(conj...)
	e.justify(i, []grid.Cell{c}, t, D, e.c.And(v.Occ(i, c, t), prod))
	return append(ds, prod)
}

// around returns the cells of fp together with their 4-neighbours, without
// duplicates.
func (e *Encoder) around(fp []grid.Cell) []grid.Cell {
	res := append([]grid.Cell(nil), fp...)
	for _, f := range fp {
		e.cbuf = e.v.Grid.Neighbours4(e.cbuf, f)
	nbrs:
		for _, n := range e.cbuf {
			for _, r := range res {
				if r == n {
					continue nbrs
				}
			}
			res = append(res, n)
		}
	}
	return res
}

// justify records that m accounts for activity of i on cells during
// [t-d, t).
func (e *Encoder) justify(i int, cells []grid.Cell, t, d int, m z.Lit) {
	for tau := t - d; tau < t; tau++ {
		for _, c := range cells {
			k := justKey{node: i, at: e.v.at(c, tau)}
			e.just[k] = append(e.just[k], m)
		}
	}
}

// activity codes that a busy cell is busy because of a production using
// it.
func (e *Encoder) activity(i int) {
	v := e.v
	for t := 1; t <= v.T; t++ {
		for _, c := range v.Grid.Cells() {
			act := v.Act(i, c, t)
			e.clause(append([]z.Lit{act.Not()}, e.just[justKey{node: i, at: v.at(c, t)}]...)...)
		}
	}
}

// consume codes that the input of output o disappears only next to a
// perimeter position holding o's sink.
func (e *Encoder) consume(o int) {
	v := e.v
	s := e.g.In(o)[0]
	for t := 2; t <= v.T; t++ {
		for _, c := range v.Grid.Cells() {
			cl := []z.Lit{v.Occ(s, c, t-1).Not(), e.present(s, t)}
			e.pbuf = v.Per.Adjacent(e.pbuf, c)
			for _, p := range e.pbuf {
				cl = append(cl, v.Sink(p, o))
			}
			e.clause(cl...)
		}
	}
}
