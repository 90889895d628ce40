// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package synth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispenseOutput(t *testing.T) *dag.Graph {
	g, err := dag.New("do",
		[]dag.Node{
			dag.NewDispense(0, "water", 1, "d"),
			dag.NewOutput(1, "waste", "o"),
		},
		[]dag.Edge{{From: 0, To: 1}})
	require.NoError(t, err)
	return g
}

func singleMix(t *testing.T) *dag.Graph {
	g, err := dag.ParseFile("../testcase/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	return g
}

func TestFeasible(t *testing.T) {
	d := New()
	res, err := d.Feasible(context.Background(), dispenseOutput(t), 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, backend.Sat, res.Status)
	require.NotNil(t, res.Schedule)
	assert.NoError(t, res.Schedule.Verify(dispenseOutput(t)))

	res, err = d.Feasible(context.Background(), dispenseOutput(t), 2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, backend.Unsat, res.Status)
	assert.Nil(t, res.Schedule)
	assert.Equal(t, -1, res.Area())
}

func TestMinimize(t *testing.T) {
	for _, strat := range []Strategy{Rebuild, Incremental} {
		t.Run(strat.String(), func(t *testing.T) {
			d := New(WithStrategy(strat))
			res, err := d.Minimize(context.Background(), dispenseOutput(t), 2, 2, 4)
			require.NoError(t, err)
			require.Equal(t, backend.Sat, res.Status)
			assert.Equal(t, 1, res.Area())
			assert.NoError(t, res.Schedule.Verify(dispenseOutput(t)))
		})
	}
}

func TestMinimizeStrategiesAgree(t *testing.T) {
	g := singleMix(t)
	var areas []int
	for _, strat := range []Strategy{Rebuild, Incremental} {
		res, err := New(WithStrategy(strat)).Minimize(context.Background(), g, 3, 3, 6)
		require.NoError(t, err)
		require.Equal(t, backend.Sat, res.Status)
		require.NoError(t, res.Schedule.Verify(g))
		areas = append(areas, res.Area())
	}
	assert.Equal(t, areas[0], areas[1])

	// two droplets for one step, the mix footprint for two steps, the mixed
	// droplet for one step
	assert.Equal(t, 2+8+1, areas[0])
}

func TestMinimizeOptimal(t *testing.T) {
	g := singleMix(t)
	d := New()
	res, err := d.Minimize(context.Background(), g, 3, 3, 6)
	require.NoError(t, err)
	_, st, err := d.probe(context.Background(), g, 3, 3, 6, res.Area()-1)
	require.NoError(t, err)
	assert.Equal(t, backend.Unsat, st)
}

func TestSearch(t *testing.T) {
	for _, par := range []int{1, 3} {
		d := New(WithParallel(par))
		res, err := d.Search(context.Background(), singleMix(t), 3, 3, 1, 8)
		require.NoError(t, err)
		require.Equal(t, backend.Sat, res.Status)
		assert.Equal(t, 5, res.T, "parallel %d", par)
		assert.GreaterOrEqual(t, res.Probes, 5)
	}
}

func TestSearchInfeasible(t *testing.T) {
	d := New(WithParallel(2))
	res, err := d.Search(context.Background(), singleMix(t), 3, 1, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, backend.Unsat, res.Status)
	assert.Equal(t, 5, res.T)
	assert.Equal(t, 5, res.Probes)
}

func TestSearchRange(t *testing.T) {
	_, err := New().Search(context.Background(), singleMix(t), 3, 3, 4, 2)
	assert.Error(t, err)
	_, err = New().Search(context.Background(), singleMix(t), 3, 3, 0, 2)
	assert.Error(t, err)
}

func TestUnknown(t *testing.T) {
	d := New(
		WithBackend(gen.RandFactory(time.Hour, backend.Sat)),
		WithTimeout(10*time.Millisecond))
	_, err := d.Feasible(context.Background(), dispenseOutput(t), 2, 2, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrUnknown))

	_, err = d.Search(context.Background(), dispenseOutput(t), 2, 2, 1, 3)
	assert.True(t, errors.Is(err, backend.ErrUnknown))
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Minimize(ctx, dispenseOutput(t), 2, 2, 3)
	assert.True(t, errors.Is(err, backend.ErrUnknown))
}

func TestBackendFailure(t *testing.T) {
	fail := func(ctx context.Context) (backend.Session, error) {
		return nil, &backend.Error{Op: "dial", Err: errors.New("refused")}
	}
	_, err := New(WithBackend(fail)).Minimize(context.Background(), dispenseOutput(t), 2, 2, 3)
	var be *backend.Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "dial", be.Op)
	assert.False(t, errors.Is(err, backend.ErrUnknown))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Incremental")
	require.NoError(t, err)
	assert.Equal(t, Incremental, s)
	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Rebuild, s)
	_, err = ParseStrategy("greedy")
	assert.Error(t, err)
}
