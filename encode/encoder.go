// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package encode translates an operation graph, a grid and a time horizon
// into propositional constraints whose models are valid placements and
// schedules of the graph on the grid.
//
// The variables are held in gini logic.C circuits.  Simple constraints are
// emitted as clauses directly, compound conditions are built as circuit
// gates and Tseitin coded when the circuit is flushed to the destination.
// The area objective is a sorting network (logic.CardSort) over all
// occupancy and activity variables, so that "at most k cells are used" is a
// single literal.
package encode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/grid"
	"github.com/go-air/dmfb/internal/telemetry"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalid is returned for instances which cannot be encoded, such as a
// horizon or grid dimension below one.
var ErrInvalid = errors.New("encode: invalid instance")

// Option configures an Encoder.
type Option func(*Encoder)

// Grid sets the grid dimensions.  The default is 2x2.
func Grid(w, h int) Option {
	return func(e *Encoder) {
		e.w, e.h = w, h
	}
}

// Horizon sets the number of time steps.  The default is 1.
func Horizon(t int) Option {
	return func(e *Encoder) {
		e.horizon = t
	}
}

// Cap asserts that at most k occupancy and activity variables are true.
func Cap(k int) Option {
	return func(e *Encoder) {
		e.capK = k
	}
}

// Logger sets the logger.
func Logger(l *slog.Logger) Option {
	return func(e *Encoder) {
		e.log = l
	}
}

// Stats describes the size of an encoding.
type Stats struct {
	Vars    int // largest variable
	Clauses int // clauses emitted, including gate definitions
	Counted int // literals counted by the objective
}

// Encoder encodes one (graph, grid, horizon, cap) instance.  It owns its
// circuit and variables and encodes into exactly one destination.
type Encoder struct {
	g       *dag.Graph
	w, h    int
	horizon int
	capK    int
	log     *slog.Logger

	c    *logic.C
	v    *Vars
	pres [][]z.Lit // node -> t in 0..T
	seen [][]z.Lit // node -> t in 0..T
	occp [][]z.Lit // occupant literal, node -> (t-1)*cells + cell
	just map[justKey][]z.Lit
	obj  *logic.CardSort
	dst  *counter
	tmp  []z.Lit
	cbuf []grid.Cell
	pbuf []int
}

// New creates an encoder for g.  The variable space is allocated
// immediately; constraints are emitted by Encode.
func New(g *dag.Graph, opts ...Option) (*Encoder, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalid)
	}
	e := &Encoder{g: g, w: 2, h: 2, horizon: 1, capK: -1, log: telemetry.Discard()}
	for _, o := range opts {
		o(e)
	}
	gr, err := grid.New(e.w, e.h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if e.horizon < 1 {
		return nil, fmt.Errorf("%w: horizon %d", ErrInvalid, e.horizon)
	}
	e.c = logic.NewCCap(1 << 12)
	e.v, err = newVars(e.c, g, gr, e.horizon)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Graph returns the encoded graph.
func (e *Encoder) Graph() *dag.Graph {
	return e.g
}

// Vars returns the variable tables, for decoding models.
func (e *Encoder) Vars() *Vars {
	return e.v
}

// Objective returns the sorting network over the counted literals, or nil
// before Encode.
func (e *Encoder) Objective() *logic.CardSort {
	return e.obj
}

// AtMost returns a literal which is true iff at most k occupancy and
// activity variables are true.  It is valid after Encode and, being already
// coded, may be used as an assumption on the encoded session.
func (e *Encoder) AtMost(k int) z.Lit {
	if e.obj == nil {
		if k < 0 {
			return e.c.F
		}
		return e.c.T
	}
	return e.obj.Leq(k)
}

// Stats returns the size of the encoding.
func (e *Encoder) Stats() Stats {
	s := Stats{Vars: e.c.Len() - 1}
	if e.dst != nil {
		s.Clauses = e.dst.n
	}
	if e.obj != nil {
		s.Counted = e.obj.N()
	}
	return s
}

// Encode emits all constraints into dst.  An Encoder encodes once.
func (e *Encoder) Encode(ctx context.Context, dst inter.Adder) (err error) {
	if e.dst != nil {
		return errors.New("encode: already encoded")
	}
	ctx, span := telemetry.Tracer().Start(ctx, "encode.Encode",
		trace.WithAttributes(
			attribute.String("graph", e.g.Name),
			attribute.Int("width", e.w),
			attribute.Int("height", e.h),
			attribute.Int("horizon", e.horizon),
			attribute.Int("cap", e.capK)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode failed")
		}
		span.End()
	}()
	start := time.Now()
	e.dst = &counter{dst: dst}
	e.clause(e.c.T)
	e.gates()

	families := []struct {
		name string
		fn   func() error
	}{
		{"consistency", e.consistency},
		{"placement", e.placement},
		{"movement", e.movement},
		{"interference", e.interference},
	}
	for _, f := range families {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		n := e.dst.n
		if err := f.fn(); err != nil {
			return err
		}
		e.log.Debug("encoded family", "family", f.name, "clauses", e.dst.n-n)
	}

	if ms := e.v.Counted(); len(ms) > 0 {
		e.obj = e.c.CardSort(ms)
		if e.capK >= 0 {
			e.clause(e.obj.Leq(e.capK))
		}
	} else if e.capK >= 0 {
		e.clause(e.AtMost(e.capK))
	}
	e.c.ToCnf(e.dst)

	st := e.Stats()
	telemetry.EncodeSeconds.Observe(time.Since(start).Seconds())
	telemetry.EncodeClauses.Observe(float64(st.Clauses))
	span.SetAttributes(attribute.Int("vars", st.Vars), attribute.Int("clauses", st.Clauses))
	e.log.Info("encoded",
		"graph", e.g.Name,
		"grid", fmt.Sprintf("%dx%d", e.w, e.h),
		"horizon", e.horizon,
		"cap", e.capK,
		"vars", st.Vars,
		"clauses", st.Clauses,
		"elapsed", time.Since(start))
	return nil
}

// gates builds present(i,t), seen(i,t) and the occupant literals.
func (e *Encoder) gates() {
	v := e.v
	n := v.Nodes()
	e.pres = make([][]z.Lit, n)
	e.seen = make([][]z.Lit, n)
	e.occp = make([][]z.Lit, n)
	for i := 0; i < n; i++ {
		if !v.HasOcc(i) {
			continue
		}
		pres := make([]z.Lit, v.T+1)
		seen := make([]z.Lit, v.T+1)
		pres[0], seen[0] = e.c.F, e.c.F
		for t := 1; t <= v.T; t++ {
			pres[t] = e.c.Ors(v.occ[i][(t-1)*v.cells : t*v.cells]...)
			seen[t] = e.c.Or(seen[t-1], pres[t])
		}
		e.pres[i], e.seen[i] = pres, seen
		if !v.HasAct(i) {
			e.occp[i] = v.occ[i]
			continue
		}
		occp := make([]z.Lit, len(v.occ[i]))
		for k := range occp {
			occp[k] = e.c.Or(v.occ[i][k], v.act[i][k])
		}
		e.occp[i] = occp
	}
}

// present is true iff droplet i is on the grid at t; false for t < 1.
func (e *Encoder) present(i, t int) z.Lit {
	if t < 1 {
		return e.c.F
	}
	return e.pres[i][t]
}

// before is true iff droplet i was on the grid at some step < t.
func (e *Encoder) before(i, t int) z.Lit {
	if t <= 1 {
		return e.c.F
	}
	return e.seen[i][t-1]
}

func (e *Encoder) occupant(i int, c grid.Cell, t int) z.Lit {
	return e.occp[i][e.v.at(c, t)]
}

func (e *Encoder) clause(ms ...z.Lit) {
	for _, m := range ms {
		e.dst.Add(m)
	}
	e.dst.Add(z.LitNull)
}

// counter counts the clauses passing through it.
type counter struct {
	dst inter.Adder
	n   int
}

func (c *counter) Add(m z.Lit) {
	if m == z.LitNull {
		c.n++
	}
	c.dst.Add(m)
}
