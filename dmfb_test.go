// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dmfb_test

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/go-air/dmfb"
	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/gen"
	"github.com/go-air/dmfb/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeMix(t *testing.T) {
	g, err := dag.ParseFile("testcase/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	res, err := dmfb.Synthesize(context.Background(), g, 3, 3, 10)
	require.NoError(t, err)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, backend.Sat, res.Status)
	assert.NoError(t, res.Schedule.Verify(g))
}

func TestSynthesizeInfeasible(t *testing.T) {
	g, err := dag.ParseFile("testcase/Dispense_Output.txt")
	require.NoError(t, err)
	res, err := dmfb.Synthesize(context.Background(), g, 2, 2, 1)
	assert.ErrorIs(t, err, dmfb.ErrInfeasible)
	require.NotNil(t, res)
	assert.Equal(t, backend.Unsat, res.Status)
}

func TestSynthesizeTimeout(t *testing.T) {
	g, err := dag.ParseFile("testcase/Dispense_Output.txt")
	require.NoError(t, err)
	start := time.Now()
	_, err = dmfb.Synthesize(context.Background(), g, 2, 2, 3,
		synth.WithBackend(gen.RandFactory(time.Hour, backend.Sat)),
		synth.WithTimeout(10*time.Millisecond))
	assert.ErrorIs(t, err, backend.ErrUnknown)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func ExampleSynthesize() {
	g, err := dag.ParseFile("testcase/Dispense_Output.txt")
	if err != nil {
		log.Fatal(err)
	}
	res, err := dmfb.Synthesize(context.Background(), g, 2, 2, 5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Status, res.T)
	// Output: sat 2
}
