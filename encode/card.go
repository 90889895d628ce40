// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

import "github.com/go-air/gini/z"

// pairwiseLimit is the largest set coded with binomial at most one clauses.
// Larger sets use the sequential counter of Sinz, which needs len-1 fresh
// variables and 3len-4 clauses.
const pairwiseLimit = 6

// atMostOne codes that at most one literal of ms is true.  Literals equal to
// the constant false are dropped.
func (e *Encoder) atMostOne(ms []z.Lit) {
	ms = e.live(ms)
	n := len(ms)
	if n <= 1 {
		return
	}
	if n <= pairwiseLimit {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				e.clause(ms[i].Not(), ms[j].Not())
			}
		}
		return
	}
	// s[i] is true if some of ms[0..i] is true.
	s := e.c.Lit()
	e.clause(ms[0].Not(), s)
	for i := 1; i < n-1; i++ {
		t := e.c.Lit()
		e.clause(ms[i].Not(), t)
		e.clause(s.Not(), t)
		e.clause(ms[i].Not(), s.Not())
		s = t
	}
	e.clause(ms[n-1].Not(), s.Not())
}

// atMostOneIf codes that at most one of ms is true whenever cond is true.
// The sets given here are small so only the pairwise form is used.
func (e *Encoder) atMostOneIf(cond z.Lit, ms []z.Lit) {
	for i := range ms {
		for j := i + 1; j < len(ms); j++ {
			e.clause(cond.Not(), ms[i].Not(), ms[j].Not())
		}
	}
}

// exactlyOne codes that exactly one literal of ms is true.
func (e *Encoder) exactlyOne(ms []z.Lit) {
	e.clause(ms...)
	e.atMostOne(ms)
}

// live returns ms without constant false literals, reusing e.tmp.
func (e *Encoder) live(ms []z.Lit) []z.Lit {
	e.tmp = e.tmp[:0]
	for _, m := range ms {
		if m != e.c.F {
			e.tmp = append(e.tmp, m)
		}
	}
	return e.tmp
}
