// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package backend

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addClauses adds (a or b) (not a or b) and returns the session.
func addClauses(s Session) (a, b z.Lit) {
	a, b = z.Var(1).Pos(), z.Var(2).Pos()
	s.Add(a)
	s.Add(b)
	s.Add(0)
	s.Add(a.Not())
	s.Add(b)
	s.Add(0)
	return a, b
}

func TestGiniSat(t *testing.T) {
	s := NewGini()
	defer s.Close()
	_, b := addClauses(s)

	st, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Sat, st)
	assert.True(t, s.Value(b))
	assert.False(t, s.Value(b.Not()))
}

func TestGiniAssume(t *testing.T) {
	s := NewGini()
	defer s.Close()
	_, b := addClauses(s)

	s.Assume(b.Not())
	st, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unsat, st)

	// assumptions hold for one check only
	st, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Sat, st)
}

func TestGiniCanceled(t *testing.T) {
	s, err := Gini()(context.Background())
	require.NoError(t, err)
	addClauses(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unknown, st)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		st   Status
		want string
	}{
		{Sat, "sat"},
		{Unsat, "unsat"},
		{Unknown, "unknown"},
		{Status(7), "Status(7)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.st.String())
	}
}

func TestErrorUnwrap(t *testing.T) {
	var err error = &Error{Op: "add", Err: io.ErrClosedPipe}
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
	assert.False(t, errors.Is(err, ErrUnknown))
	assert.Contains(t, err.Error(), "backend: add:")

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "add", be.Op)
}

func TestResult(t *testing.T) {
	_, err := result(3)
	var be *Error
	assert.True(t, errors.As(err, &be))
}

// pigeons adds the clauses placing n+1 pigeons into n holes.
func pigeons(s Session, n int) {
	v := func(p, h int) z.Lit { return z.Var(p*n + h + 1).Pos() }
	for p := 0; p <= n; p++ {
		for h := 0; h < n; h++ {
			s.Add(v(p, h))
		}
		s.Add(0)
	}
	for h := 0; h < n; h++ {
		for p := 0; p <= n; p++ {
			for q := p + 1; q <= n; q++ {
				s.Add(v(p, h).Not())
				s.Add(v(q, h).Not())
				s.Add(0)
			}
		}
	}
}

func TestGiniTimeout(t *testing.T) {
	s := NewGini(WithTimeout(20 * time.Millisecond))
	defer s.Close()
	pigeons(s, 12)
	start := time.Now()
	st, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unknown, st)
	assert.Less(t, time.Since(start), 5*time.Second)
}
