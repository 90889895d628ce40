// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/gini/z"
)

// RandSession creates a backend.Session whose Check returns res within a
// random period of time chosen from [0..d), or Unknown if the context is
// done first.  If res is Unknown, a random value from {Sat, Unsat} is
// chosen.  Values are random.
//
// This is useful for testing code driving sessions without solving.
func RandSession(d time.Duration, res backend.Status) backend.Session {
	return RandSessionr(d, res, rand.NewSource(33))
}

// RandSessionr is RandSession with a given source of randomness.
func RandSessionr(d time.Duration, res backend.Status, src rand.Source) backend.Session {
	return &randSession{dur: d, res: res, rand: rand.New(src)}
}

// RandFactory returns a Factory of random sessions.
func RandFactory(d time.Duration, res backend.Status) backend.Factory {
	var mu sync.Mutex
	seed := int64(33)
	return func(ctx context.Context) (backend.Session, error) {
		mu.Lock()
		defer mu.Unlock()
		seed++
		return RandSessionr(d, res, rand.NewSource(seed)), nil
	}
}

type randSession struct {
	dur    time.Duration
	res    backend.Status
	rand   *rand.Rand
	ms     []z.Lit
	mv     z.Var
	closed bool
}

func (r *randSession) Add(m z.Lit) {
	if m.Var() > r.mv {
		r.mv = m.Var()
	}
}

func (r *randSession) Assume(ms ...z.Lit) {
	r.ms = append(r.ms, ms...)
}

// MaxVar returns the largest variable added so far.
func (r *randSession) MaxVar() z.Var {
	return r.mv
}

func (r *randSession) Value(m z.Lit) bool {
	return r.rand.Intn(2) == 1
}

func (r *randSession) Check(ctx context.Context) (backend.Status, error) {
	if r.closed {
		return backend.Unknown, &backend.Error{Op: "check", Err: fmt.Errorf("closed session")}
	}
	r.ms = r.ms[:0]
	w := time.Duration(0)
	if ns := r.dur.Nanoseconds(); ns > 0 {
		w = time.Duration(r.rand.Int63n(ns))
	}
	alarm := time.NewTimer(w)
	defer alarm.Stop()
	select {
	case <-alarm.C:
		if r.res == backend.Unknown {
			if r.rand.Intn(2) == 0 {
				return backend.Unsat, nil
			}
			return backend.Sat, nil
		}
		return r.res, nil
	case <-ctx.Done():
		return backend.Unknown, nil
	}
}

func (r *randSession) Close() error {
	r.closed = true
	return nil
}

func (r *randSession) String() string {
	return fmt.Sprintf("*randSession[%s]", r.dur)
}
