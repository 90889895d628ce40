// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"math/rand"

	"github.com/go-air/dmfb/dag"
)

// MaxMixDuration bounds the random duration of generated mixes.
const MaxMixDuration = 3

var fluids = []string{"water", "sample", "reagent", "buffer", "oil"}

// RandAssay creates an assay with d dispense nodes and m two input mixes.
// Each mix consumes two droplets not consumed yet, and every droplet left
// at the end goes to its own output.  Since a mix turns two droplets into
// one, m must be below d.
func RandAssay(rng *rand.Rand, d, m int) (*dag.Graph, error) {
	if d < 1 || m < 0 || m >= d {
		return nil, fmt.Errorf("gen: cannot mix %d times with %d dispensed droplets", m, d)
	}
	var (
		nodes []dag.Node
		edges []dag.Edge
		pool  []int
	)
	for i := 0; i < d; i++ {
		f := fluids[rng.Intn(len(fluids))]
		nodes = append(nodes, dag.NewDispense(len(nodes), f, 1+rng.Intn(10), fmt.Sprintf("%s%d", f, i)))
		pool = append(pool, len(nodes)-1)
	}
	for i := 0; i < m; i++ {
		id := len(nodes)
		nodes = append(nodes, dag.NewMix(id, 2, 1+rng.Intn(MaxMixDuration), fmt.Sprintf("mix%d", i)))
		for k := 0; k < 2; k++ {
			j := rng.Intn(len(pool))
			edges = append(edges, dag.Edge{From: pool[j], To: id})
			pool = append(pool[:j], pool[j+1:]...)
		}
		pool = append(pool, id)
	}
	for i, p := range pool {
		id := len(nodes)
		nodes = append(nodes, dag.NewOutput(id, "waste", fmt.Sprintf("out%d", i)))
		edges = append(edges, dag.Edge{From: p, To: id})
	}
	return dag.New(fmt.Sprintf("rand_%d_%d", d, m), nodes, edges)
}
