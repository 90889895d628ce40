// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package backend

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/go-air/gini/crisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crispAddr = "@dmfb-backend-test"

func init() {
	go func() {
		if err := crisp.ListenAndServe(crispAddr); err != nil {
			log.Printf("crisp test server: %s", err)
		}
	}()
	time.Sleep(50 * time.Millisecond)
}

func TestCrispSession(t *testing.T) {
	s, err := Crisp(crispAddr)(context.Background())
	require.NoError(t, err)
	defer s.Close()

	a, b := addClauses(s)
	st, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, Sat, st)
	assert.True(t, s.Value(b))

	s.Assume(b.Not())
	st, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unsat, st)
	assert.False(t, s.Value(a), "no model after unsat")
}

func TestCrispDialFailure(t *testing.T) {
	_, err := Crisp("@dmfb-nobody-listens")(context.Background())
	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Contains(t, be.Op, "dial")
}
