// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package store

import (
	"testing"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(t *testing.T, fluid string) *dag.Graph {
	g, err := dag.New("do",
		[]dag.Node{
			dag.NewDispense(0, fluid, 1, "d"),
			dag.NewOutput(1, "waste", "o"),
		},
		[]dag.Edge{{From: 0, To: 1}})
	require.NoError(t, err)
	return g
}

func TestPutGet(t *testing.T) {
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	k := Key{Graph: graph(t, "water"), W: 2, H: 2, Tmin: 1, Tmax: 4}
	_, ok, err := s.Get(k)
	require.NoError(t, err)
	assert.False(t, ok)

	sched := &schedule.Schedule{
		Name: "do", W: 2, H: 2, T: 2,
		Dispensers: []schedule.Device{{Pos: 0, Node: 0}},
		Sinks:      []schedule.Device{{Pos: 7, Node: 1}},
		Boards: [][]schedule.Slot{
			{{Node: 0}, {Node: -1}, {Node: -1}, {Node: -1}},
			{{Node: -1}, {Node: -1}, {Node: -1}, {Node: -1}},
		},
		Area: 1,
	}
	want := &Entry{RunID: "r1", Status: backend.Sat, T: 2, Schedule: sched, Created: time.Unix(100, 0).UTC()}
	require.NoError(t, s.Put(k, want))

	got, ok, err := s.Get(Key{Graph: graph(t, "water"), W: 2, H: 2, Tmin: 1, Tmax: 4})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, want.Created.Equal(got.Created))
	got.Created = want.Created
	assert.Equal(t, want, got)

	_, ok, err = s.Get(Key{Graph: graph(t, "oil"), W: 2, H: 2, Tmin: 1, Tmax: 4})
	require.NoError(t, err)
	assert.False(t, ok, "different graph")

	_, ok, err = s.Get(Key{Graph: graph(t, "water"), W: 3, H: 2, Tmin: 1, Tmax: 4})
	require.NoError(t, err)
	assert.False(t, ok, "different grid")
}

func TestUnknownNotCached(t *testing.T) {
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	k := Key{Graph: graph(t, "water"), W: 2, H: 2, Tmin: 1, Tmax: 4}
	require.NoError(t, s.Put(k, &Entry{Status: backend.Unknown}))
	_, ok, err := s.Get(k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistent(t *testing.T) {
	dir := t.TempDir()
	k := Key{Graph: graph(t, "water"), W: 2, H: 2, Tmin: 1, Tmax: 4}

	s, err := Open(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Put(k, &Entry{RunID: "r2", Status: backend.Unsat, T: 4}))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(k)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, backend.Unsat, got.Status)
	assert.Equal(t, "r2", got.RunID)
}

func TestOpenNeedsPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
