// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package backend defines the narrow contract through which synthesis talks
// to a SAT solver, and provides sessions backed by an in-process gini solver
// and by a remote CRISP server.
//
// Formulas are built with gini's logic.C circuits by the caller; a Session
// only receives clauses, assumptions and satisfiability checks.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
)

// Status is the outcome of a check.  The values follow the gini convention.
type Status int

const (
	// Unsat: the constraints have no model.
	Unsat Status = -1
	// Unknown: the check was stopped (deadline, cancellation) before a
	// verdict.
	Unknown Status = 0
	// Sat: a model was found and may be read with Value.
	Sat Status = 1
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ErrUnknown is returned by callers which need a verdict and got Unknown.
// It is never used for Unsat.
var ErrUnknown = errors.New("solver could not decide")

// Error is a solver fault.  It must be propagated; a fault hidden from the
// caller could turn an unsound encoding into a "feasible" answer.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Session is one solving session.  Clauses are streamed with Add as
// z.LitNull terminated literal sequences, exactly as gini's inter.Adder.
//
// A Session is not safe for use by multiple goroutines.
type Session interface {
	inter.Adder

	// Assume adds assumptions holding for the next Check only.
	Assume(ms ...z.Lit)

	// Check decides the clauses under the current assumptions.  It returns
	// Unknown if ctx is done first.  A non-nil error is a solver fault.
	Check(ctx context.Context) (Status, error)

	// Value returns the value of m in the model of the last Sat check.
	Value(m z.Lit) bool

	// Close releases the session.
	Close() error
}

// Factory creates fresh sessions.  Each encoder instance gets its own.
type Factory func(ctx context.Context) (Session, error)

// Model is the read side of a Session, kept separate so that projections
// can be tested against plain maps.
type Model interface {
	Value(m z.Lit) bool
}
