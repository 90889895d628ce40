// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package synth drives the encoder and a solver backend to find feasible,
// area minimal and horizon minimal schedules.
//
// Every probe of a (grid, horizon, cap) instance builds a fresh encoder and
// a fresh session.  The Incremental strategy instead keeps one session per
// horizon and tightens the area cap with assumptions.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/encode"
	"github.com/go-air/dmfb/internal/telemetry"
	"github.com/go-air/dmfb/schedule"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Strategy selects how Minimize explores area caps.
type Strategy int

const (
	// Rebuild encodes every cap into a fresh session.
	Rebuild Strategy = iota
	// Incremental encodes once and assumes the cap per probe.
	Incremental
)

func (s Strategy) String() string {
	switch s {
	case Rebuild:
		return "rebuild"
	case Incremental:
		return "incremental"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps "rebuild" and "incremental" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "rebuild", "":
		return Rebuild, nil
	case "incremental":
		return Incremental, nil
	}
	return Rebuild, fmt.Errorf("synth: unknown strategy %q", s)
}

// Option configures a Driver.
type Option func(*Driver)

// WithBackend sets the session factory.  The default is in-process gini.
func WithBackend(f backend.Factory) Option {
	return func(d *Driver) {
		d.factory = f
	}
}

// WithTimeout bounds every solver check.  Zero means unbounded.
func WithTimeout(t time.Duration) Option {
	return func(d *Driver) {
		d.timeout = t
	}
}

// WithStrategy sets the minimisation strategy.
func WithStrategy(s Strategy) Option {
	return func(d *Driver) {
		d.strategy = s
	}
}

// WithLogger sets the logger, passed on to the encoders.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.log = l
	}
}

// WithParallel sets how many horizons Search probes at once.
func WithParallel(n int) Option {
	return func(d *Driver) {
		if n < 1 {
			n = 1
		}
		d.parallel = n
	}
}

// Driver runs synthesis queries.  It is safe for concurrent use as long as
// the backend factory is.
type Driver struct {
	factory  backend.Factory
	timeout  time.Duration
	strategy Strategy
	log      *slog.Logger
	parallel int
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{
		factory:  backend.Gini(),
		log:      telemetry.Discard(),
		parallel: 1,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Result is the outcome of a query.  Schedule is nil unless Status is Sat.
type Result struct {
	Status   backend.Status
	W, H, T  int
	Schedule *schedule.Schedule
	Probes   int
	Elapsed  time.Duration
}

// Area returns the area of the schedule, or -1 if there is none.
func (r *Result) Area() int {
	if r.Schedule == nil {
		return -1
	}
	return r.Schedule.Area
}

// Feasible decides whether g fits a w x h grid within T steps.  An
// infeasible instance is a Result with Status Unsat, not an error.
func (d *Driver) Feasible(ctx context.Context, g *dag.Graph, w, h, T int) (*Result, error) {
	start := time.Now()
	s, st, err := d.probe(ctx, g, w, h, T, -1)
	if err != nil {
		return nil, err
	}
	return &Result{Status: st, W: w, H: h, T: T, Schedule: s, Probes: 1, Elapsed: time.Since(start)}, nil
}

// Minimize finds a schedule of g on a w x h grid within T steps using as
// few occupied and working cells as possible.
func (d *Driver) Minimize(ctx context.Context, g *dag.Graph, w, h, T int) (res *Result, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "synth.Minimize",
		trace.WithAttributes(
			attribute.String("graph", g.Name),
			attribute.Int("horizon", T),
			attribute.String("strategy", d.strategy.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "minimize failed")
		} else {
			span.SetAttributes(attribute.Int("area", res.Area()), attribute.Int("probes", res.Probes))
		}
		span.End()
	}()
	start := time.Now()
	switch d.strategy {
	case Rebuild:
		res, err = d.rebuild(ctx, g, w, h, T)
	case Incremental:
		res, err = d.incremental(ctx, g, w, h, T)
	default:
		return nil, fmt.Errorf("synth: %s", d.strategy)
	}
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	d.log.Info("minimized", "graph", g.Name, "horizon", T, "status", res.Status,
		"area", res.Area(), "probes", res.Probes, "elapsed", res.Elapsed)
	return res, nil
}

func (d *Driver) rebuild(ctx context.Context, g *dag.Graph, w, h, T int) (*Result, error) {
	best, st, err := d.probe(ctx, g, w, h, T, -1)
	if err != nil {
		return nil, err
	}
	res := &Result{Status: st, W: w, H: h, T: T, Schedule: best, Probes: 1}
	if st != backend.Sat {
		return res, nil
	}
	lo, hi := 0, best.Area
	for lo < hi {
		k := lo + (hi-lo)/2
		s, st, err := d.probe(ctx, g, w, h, T, k)
		res.Probes++
		telemetry.Probes.WithLabelValues(Rebuild.String()).Inc()
		if err != nil {
			return nil, err
		}
		d.log.Debug("probe", "cap", k, "status", st)
		if st == backend.Sat {
			best, hi = s, s.Area
			continue
		}
		lo = k + 1
	}
	res.Schedule = best
	return res, nil
}

func (d *Driver) incremental(ctx context.Context, g *dag.Graph, w, h, T int) (*Result, error) {
	enc, sess, err := d.open(ctx, g, w, h, T, -1)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	st, err := d.check(ctx, sess, T, -1)
	if err != nil {
		return nil, err
	}
	res := &Result{Status: st, W: w, H: h, T: T, Probes: 1}
	if st != backend.Sat {
		return res, nil
	}
	best, err := schedule.Project(enc, sess)
	if err != nil {
		return nil, err
	}
	lo, hi := 0, best.Area
	for lo < hi {
		k := lo + (hi-lo)/2
		sess.Assume(enc.AtMost(k))
		st, err := d.check(ctx, sess, T, k)
		res.Probes++
		telemetry.Probes.WithLabelValues(Incremental.String()).Inc()
		if err != nil {
			return nil, err
		}
		d.log.Debug("probe", "cap", k, "status", st)
		if st != backend.Sat {
			lo = k + 1
			continue
		}
		if best, err = schedule.Project(enc, sess); err != nil {
			return nil, err
		}
		hi = best.Area
	}
	res.Schedule = best
	return res, nil
}

// probe decides one (grid, horizon, cap) instance on a fresh session.  A
// negative cap means no cap.
func (d *Driver) probe(ctx context.Context, g *dag.Graph, w, h, T, k int) (*schedule.Schedule, backend.Status, error) {
	enc, sess, err := d.open(ctx, g, w, h, T, k)
	if err != nil {
		return nil, backend.Unknown, err
	}
	defer sess.Close()
	st, err := d.check(ctx, sess, T, k)
	if err != nil || st != backend.Sat {
		return nil, st, err
	}
	s, err := schedule.Project(enc, sess)
	if err != nil {
		return nil, backend.Unknown, err
	}
	return s, st, nil
}

func (d *Driver) open(ctx context.Context, g *dag.Graph, w, h, T, k int) (*encode.Encoder, backend.Session, error) {
	enc, err := encode.New(g,
		encode.Grid(w, h),
		encode.Horizon(T),
		encode.Cap(k),
		encode.Logger(d.log))
	if err != nil {
		return nil, nil, err
	}
	sess, err := d.factory(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := enc.Encode(ctx, sess); err != nil {
		sess.Close()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("synth: horizon %d: %w: %w", T, backend.ErrUnknown, err)
		}
		return nil, nil, err
	}
	return enc, sess, nil
}

// check runs one bounded check.  Unknown becomes backend.ErrUnknown.
func (d *Driver) check(ctx context.Context, sess backend.Session, T, k int) (backend.Status, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	ctx, span := telemetry.Tracer().Start(ctx, "synth.check",
		trace.WithAttributes(attribute.Int("horizon", T), attribute.Int("cap", k)))
	defer span.End()
	start := time.Now()
	st, err := sess.Check(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend failure")
		return backend.Unknown, err
	}
	telemetry.Checks.WithLabelValues(st.String()).Inc()
	telemetry.CheckSeconds.WithLabelValues(st.String()).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("status", st.String()))
	if st == backend.Unknown {
		return st, fmt.Errorf("synth: horizon %d cap %d: %w", T, k, backend.ErrUnknown)
	}
	return st, nil
}
