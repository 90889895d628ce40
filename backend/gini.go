// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// pollInterval is how often a running gini search is tested for completion
// while waiting on the context.
const pollInterval = 5 * time.Millisecond

// GiniOption configures in-process gini sessions.
type GiniOption func(*giniSession)

// WithTimeout bounds every Check of the session.  Zero means no bound
// beyond the context.
func WithTimeout(d time.Duration) GiniOption {
	return func(s *giniSession) {
		s.timeout = d
	}
}

// Gini returns a Factory of in-process gini sessions.
func Gini(opts ...GiniOption) Factory {
	return func(ctx context.Context) (Session, error) {
		return NewGini(opts...), nil
	}
}

// NewGini creates an in-process gini session.
func NewGini(opts ...GiniOption) Session {
	s := &giniSession{g: gini.New()}
	for _, o := range opts {
		o(s)
	}
	return s
}

type giniSession struct {
	g       *gini.Gini
	timeout time.Duration
}

func (s *giniSession) Add(m z.Lit) {
	s.g.Add(m)
}

func (s *giniSession) Assume(ms ...z.Lit) {
	s.g.Assume(ms...)
}

func (s *giniSession) Value(m z.Lit) bool {
	return s.g.Value(m)
}

func (s *giniSession) Close() error {
	return nil
}

func (s *giniSession) Check(ctx context.Context) (st Status, err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if ctx.Err() != nil {
		return Unknown, nil
	}
	defer func() {
		if r := recover(); r != nil {
			st, err = Unknown, &Error{Op: "solve", Err: fmt.Errorf("%v", r)}
		}
	}()
	solve := s.g.GoSolve()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		if r, done := solve.Test(); done {
			return result(r)
		}
		select {
		case <-ctx.Done():
			return result(solve.Stop())
		case <-tick.C:
		}
	}
}

func result(r int) (Status, error) {
	switch r {
	case 1:
		return Sat, nil
	case -1:
		return Unsat, nil
	case 0:
		return Unknown, nil
	}
	return Unknown, &Error{Op: "solve", Err: fmt.Errorf("invalid result %d", r)}
}
