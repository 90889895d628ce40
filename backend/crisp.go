// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package backend

import (
	"context"
	"time"

	"github.com/go-air/gini/crisp"
	"github.com/go-air/gini/z"
)

// Crisp returns a Factory of sessions on the CRISP server at addr, each
// session holding its own connection.
func Crisp(addr string) Factory {
	return func(ctx context.Context) (Session, error) {
		c, err := crisp.Dial(addr)
		if err != nil {
			return nil, &Error{Op: "dial " + addr, Err: err}
		}
		return &crispSession{c: c}, nil
	}
}

// crispSession records the first protocol error; Add and Assume have no
// error result, so the error is reported by the following Check.
type crispSession struct {
	c     *crisp.Client
	err   error
	model []bool
}

func (s *crispSession) fail(op string, err error) {
	if err != nil && s.err == nil {
		s.err = &Error{Op: op, Err: err}
	}
}

func (s *crispSession) Add(m z.Lit) {
	if s.err != nil {
		return
	}
	s.fail("add", s.c.Add(m))
}

func (s *crispSession) Assume(ms ...z.Lit) {
	if s.err != nil {
		return
	}
	s.fail("assume", s.c.Assume(ms...))
}

func (s *crispSession) Check(ctx context.Context) (Status, error) {
	s.model = nil
	if s.err != nil {
		return Unknown, s.err
	}
	if ctx.Err() != nil {
		return Unknown, nil
	}
	solve := s.c.GoSolve()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	var (
		r    int
		done bool
		err  error
	)
	for !done {
		r, done, err = solve.Test()
		if err != nil {
			s.fail("solve", err)
			return Unknown, s.err
		}
		if done {
			break
		}
		select {
		case <-ctx.Done():
			r, err = solve.Stop()
			if err != nil {
				s.fail("stop", err)
				return Unknown, s.err
			}
			done = true
		case <-tick.C:
		}
	}
	st, err := result(r)
	if err != nil || st != Sat {
		return st, err
	}
	m, err := s.c.Model(nil)
	if err != nil {
		s.fail("model", err)
		return Unknown, s.err
	}
	s.model = m
	return Sat, nil
}

func (s *crispSession) Value(m z.Lit) bool {
	v := int(m.Var())
	if v >= len(s.model) {
		return false
	}
	return s.model[v] == m.IsPos()
}

func (s *crispSession) Close() error {
	qerr := s.c.Quit()
	cerr := s.c.Close()
	if qerr != nil {
		return &Error{Op: "quit", Err: qerr}
	}
	if cerr != nil {
		return &Error{Op: "close", Err: cerr}
	}
	return nil
}
