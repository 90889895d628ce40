// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

// interference keeps droplets which must not merge apart.  For every pair
// of unrelated droplet nodes, neither may occupy or work a cell 8-adjacent
// to one used by the other at the same step, nor equal or 8-adjacent to one
// used by the other at the previous step.
func (e *Encoder) interference() error {
	v := e.v
	n := v.Nodes()
	for i := 0; i < n; i++ {
		if !v.HasOcc(i) {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !v.HasOcc(j) || e.g.Related(i, j) {
				continue
			}
			e.separate(i, j)
		}
	}
	return nil
}

func (e *Encoder) separate(i, j int) {
	v := e.v
	for t := 1; t <= v.T; t++ {
		for _, c := range v.Grid.Cells() {
			a, b := e.occupant(i, c, t), e.occupant(j, c, t)
			e.cbuf = v.Grid.Neighbours8(e.cbuf, c)
			for _, d := range e.cbuf {
				e.clause(a.Not(), e.occupant(j, d, t).Not())
			}
			if t == v.T {
				continue
			}
			e.clause(a.Not(), e.occupant(j, c, t+1).Not())
			e.clause(b.Not(), e.occupant(i, c, t+1).Not())
			for _, d := range e.cbuf {
				e.clause(a.Not(), e.occupant(j, d, t+1).Not())
				e.clause(b.Not(), e.occupant(i, d, t+1).Not())
			}
		}
	}
}
