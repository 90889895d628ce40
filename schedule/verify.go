// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package schedule

import (
	"errors"
	"fmt"

	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/grid"
)

// ErrViolation is wrapped by every Violation.
var ErrViolation = errors.New("schedule: invalid")

// Violation describes the first property a schedule breaks.
type Violation struct {
	T    int // 0 if not tied to a step
	Node int // -1 if not tied to a node
	Msg  string
}

func (v *Violation) Error() string {
	switch {
	case v.T > 0 && v.Node >= 0:
		return fmt.Sprintf("schedule: t=%d node %d: %s", v.T, v.Node, v.Msg)
	case v.Node >= 0:
		return fmt.Sprintf("schedule: node %d: %s", v.Node, v.Msg)
	case v.T > 0:
		return fmt.Sprintf("schedule: t=%d: %s", v.T, v.Msg)
	}
	return "schedule: " + v.Msg
}

func (v *Violation) Unwrap() error {
	return ErrViolation
}

func violation(t, node int, format string, args ...interface{}) error {
	return &Violation{T: t, Node: node, Msg: fmt.Sprintf(format, args...)}
}

// life is the presence interval of one droplet.
type life struct {
	first, last int // 0 if never present
	at          []grid.Cell
}

// Verify checks that s is a valid execution of g: devices are placed once,
// droplets appear where they are dispensed or produced, move at most one
// cell per step, vanish where they are consumed, and unrelated droplets
// keep apart.
func (s *Schedule) Verify(g *dag.Graph) error {
	if len(s.Boards) != s.T {
		return violation(0, -1, "%d boards for horizon %d", len(s.Boards), s.T)
	}
	gr := s.Grid()
	for t, b := range s.Boards {
		if len(b) != gr.Len() {
			return violation(t+1, -1, "board has %d cells, want %d", len(b), gr.Len())
		}
		for k, sl := range b {
			if sl.Node != Empty && (sl.Node < 0 || sl.Node >= g.Len()) {
				return violation(t+1, sl.Node, "unknown node at %s", gr.At(k))
			}
		}
	}
	for _, d := range append(append([]Device(nil), s.Dispensers...), s.Sinks...) {
		if d.Node < 0 || d.Node >= g.Len() {
			return violation(0, d.Node, "device at %d of unknown node", d.Pos)
		}
	}
	for _, d := range s.Detectors {
		if d.Node < 0 || d.Node >= g.Len() {
			return violation(0, d.Node, "detector at %s of unknown node", d.Cell)
		}
	}
	if err := s.verifyDevices(g); err != nil {
		return err
	}
	lives := make([]life, g.Len())
	for i := range lives {
		if err := s.trace(g, i, &lives[i]); err != nil {
			return err
		}
	}
	for i := 0; i < g.Len(); i++ {
		if err := s.verifyOrigin(g, i, lives); err != nil {
			return err
		}
	}
	return s.verifySpacing(g)
}

func (s *Schedule) verifyDevices(g *dag.Graph) error {
	per := s.Grid().Perimeter()
	used := make(map[int]int)
	for _, d := range append(append([]Device(nil), s.Dispensers...), s.Sinks...) {
		if d.Pos < 0 || d.Pos >= per.Len() {
			return violation(0, d.Node, "position %d off the perimeter", d.Pos)
		}
		if j, ok := used[d.Pos]; ok {
			return violation(0, d.Node, "position %d already used by node %d", d.Pos, j)
		}
		used[d.Pos] = d.Node
	}
	count := func(ds []Device, i int) int {
		n := 0
		for _, d := range ds {
			if d.Node == i {
				n++
			}
		}
		return n
	}
	for i := 0; i < g.Len(); i++ {
		nd, disp, sink := g.Node(i), count(s.Dispensers, i), count(s.Sinks, i)
		wantDisp, wantSink := 0, 0
		switch nd.Kind {
		case dag.KindDispense:
			wantDisp = 1
		case dag.KindOutput:
			wantSink = 1
		case dag.KindMix:
		case dag.KindDetect:
			if s.detector(i) == nil {
				return violation(0, i, "no detector")
			}
		default:
			return fmt.Errorf("schedule: node %d: %w", i, dag.ErrUnknownKind)
		}
		if disp != wantDisp {
			return violation(0, i, "%d dispensers, want %d", disp, wantDisp)
		}
		if sink != wantSink {
			return violation(0, i, "%d sinks, want %d", sink, wantSink)
		}
	}
	if len(s.Sinks) != g.Count(dag.KindOutput) {
		return violation(0, -1, "%d sinks for %d outputs", len(s.Sinks), g.Count(dag.KindOutput))
	}
	cells := make(map[grid.Cell]bool)
	for _, d := range s.Detectors {
		if cells[d.Cell] {
			return violation(0, d.Node, "second detector at %s", d.Cell)
		}
		cells[d.Cell] = true
	}
	return nil
}

func (s *Schedule) detector(i int) []grid.Cell {
	var res []grid.Cell
	for _, d := range s.Detectors {
		if d.Node == i {
			res = append(res, d.Cell)
		}
	}
	return res
}

// trace fills l with the presence of node i and checks continuity.
func (s *Schedule) trace(g *dag.Graph, i int, l *life) error {
	l.at = make([]grid.Cell, s.T+1)
	for t := 1; t <= s.T; t++ {
		c, ok := s.Where(i, t)
		if !ok {
			continue
		}
		if !g.Node(i).Droplet() {
			return violation(t, i, "output node on the grid")
		}
		switch {
		case l.first == 0:
			l.first = t
		case l.last != t-1:
			return violation(t, i, "droplet reappears")
		case c != l.at[t-1] && !grid.Adjacent4(c, l.at[t-1]):
			return violation(t, i, "droplet jumps from %s to %s", l.at[t-1], c)
		}
		l.last = t
		l.at[t] = c
	}
	if !g.Node(i).Droplet() {
		return nil
	}
	if l.first == 0 {
		return violation(0, i, "droplet never appears")
	}
	if l.last == s.T {
		return violation(s.T, i, "droplet remains at the horizon")
	}
	return nil
}

func (s *Schedule) verifyOrigin(g *dag.Graph, i int, lives []life) error {
	nd := g.Node(i)
	per := s.Grid().Perimeter()
	l := &lives[i]
	switch nd.Kind {
	case dag.KindDispense:
		p, _ := s.Dispenser(i)
		if !feeds(per, p, l.at[l.first]) {
			return violation(l.first, i, "appears at %s away from its dispenser %d", l.at[l.first], p)
		}
	case dag.KindMix:
		return s.verifyMix(g, i, lives)
	case dag.KindDetect:
		D := nd.Duration()
		if l.first < D+2 {
			return violation(l.first, i, "detection ends before it could start")
		}
		in := &lives[g.In(i)[0]]
		c := l.at[l.first]
		if in.last != l.first-D-1 || in.at[in.last] != c {
			return violation(l.first, i, "input not consumed at %s when detection starts", c)
		}
		found := false
		for _, d := range s.detector(i) {
			found = found || d == c
		}
		if !found {
			return violation(l.first, i, "no detector at %s", c)
		}
		for tau := l.first - D; tau < l.first; tau++ {
			if sl := s.At(c, tau); sl.Node != i || !sl.Active {
				return violation(tau, i, "detector cell %s idle", c)
			}
		}
	case dag.KindOutput:
		in := &lives[g.In(i)[0]]
		p, _ := s.Sink(i)
		if !feeds(per, p, in.at[in.last]) {
			return violation(in.last+1, i, "input vanishes at %s away from sink %d", in.at[in.last], p)
		}
	default:
		return fmt.Errorf("schedule: node %d: %w", i, dag.ErrUnknownKind)
	}
	return nil
}

func (s *Schedule) verifyMix(g *dag.Graph, i int, lives []life) error {
	D := g.Node(i).Duration()
	l := &lives[i]
	if l.first < D+2 {
		return violation(l.first, i, "mix ends before it could start")
	}
	gr := s.Grid()
	var fp []grid.Cell
	for k, sl := range s.Boards[l.first-D-1] {
		if sl.Node == i && sl.Active {
			fp = append(fp, gr.At(k))
		}
	}
	if len(fp) != 4 {
		return violation(l.first-D, i, "mix works %d cells, want 4", len(fp))
	}
	in := func(c grid.Cell) bool {
		for _, f := range fp {
			if f == c {
				return true
			}
		}
		return false
	}
	if !in(l.at[l.first]) {
		return violation(l.first, i, "mixed droplet appears outside its footprint")
	}
	for tau := l.first - D; tau < l.first; tau++ {
		for _, f := range fp {
			if sl := s.At(f, tau); sl.Node != i || !sl.Active {
				return violation(tau, i, "footprint cell %s idle", f)
			}
		}
	}
	for _, j := range g.In(i) {
		src := &lives[j]
		if src.last != l.first-D-1 {
			return violation(l.first-D, i, "input %d vanishes at t=%d, mix starts at t=%d", j, src.last+1, l.first-D)
		}
		c := src.at[src.last]
		near := in(c)
		for _, f := range fp {
			near = near || grid.Adjacent4(c, f)
		}
		if !near {
			return violation(l.first-D, i, "input %d at %s is not next to the footprint", j, c)
		}
	}
	return nil
}

// verifySpacing checks that unrelated droplets are never 8-adjacent at one
// step, nor equal or 8-adjacent across one step.
func (s *Schedule) verifySpacing(g *dag.Graph) error {
	gr := s.Grid()
	type use struct {
		node int
		cell grid.Cell
	}
	uses := make([][]use, s.T+1)
	for t := 1; t <= s.T; t++ {
		for k, sl := range s.Boards[t-1] {
			if sl.Node != Empty {
				uses[t] = append(uses[t], use{sl.Node, gr.At(k)})
			}
		}
	}
	for t := 1; t <= s.T; t++ {
		for _, a := range uses[t] {
			for _, b := range uses[t] {
				if a.node < b.node && !g.Related(a.node, b.node) && grid.Adjacent8(a.cell, b.cell) {
					return violation(t, a.node, "touches node %d at %s", b.node, b.cell)
				}
			}
			if t == s.T {
				continue
			}
			for _, b := range uses[t+1] {
				if a.node != b.node && !g.Related(a.node, b.node) &&
					(a.cell == b.cell || grid.Adjacent8(a.cell, b.cell)) {
					return violation(t+1, b.node, "moves next to node %d at %s", a.node, a.cell)
				}
			}
		}
	}
	return nil
}

func feeds(per grid.Perimeter, p int, c grid.Cell) bool {
	for _, q := range per.Adjacent(nil, c) {
		if q == p {
			return true
		}
	}
	return false
}
