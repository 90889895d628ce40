// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

import (
	"github.com/go-air/gini/z"
)

// consistency codes the exclusivity constraints: one thing per cell and
// step, one cell per droplet and step, one device per perimeter position,
// one detector per cell, and that every droplet node appears at all.
func (e *Encoder) consistency() error {
	v := e.v
	n := v.Nodes()
	ms := make([]z.Lit, 0, 2*n)

	for t := 1; t <= v.T; t++ {
		for _, c := range v.Grid.Cells() {
			ms = ms[:0]
			for i := 0; i < n; i++ {
				if v.HasOcc(i) {
					ms = append(ms, v.Occ(i, c, t))
				}
				if v.HasAct(i) {
					ms = append(ms, v.Act(i, c, t))
				}
			}
			e.atMostOne(ms)
		}
	}

	for i := 0; i < n; i++ {
		if !v.HasOcc(i) {
			continue
		}
		for t := 1; t <= v.T; t++ {
			e.atMostOne(v.occ[i][(t-1)*v.cells : t*v.cells])
		}
		e.clause(v.occ[i]...)
	}

	for p := 0; p < v.Per.Len(); p++ {
		ms = ms[:0]
		for i := 0; i < n; i++ {
			if m := v.Sink(p, i); m != z.LitNull {
				ms = append(ms, m)
			}
			if m := v.Dispenser(p, i); m != z.LitNull {
				ms = append(ms, m)
			}
		}
		e.atMostOne(ms)
	}

	for _, c := range v.Grid.Cells() {
		ms = ms[:0]
		for i := 0; i < n; i++ {
			if m := v.Detector(c, i); m != z.LitNull {
				ms = append(ms, m)
			}
		}
		e.atMostOne(ms)
	}
	return nil
}
