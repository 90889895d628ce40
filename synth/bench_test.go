// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package synth

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/gen"
)

func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{2, 3} {
		g, err := gen.RandAssay(rand.New(rand.NewSource(int64(n))), n, n-1)
		if err != nil {
			b.Fatal(err)
		}
		for _, strat := range []Strategy{Rebuild, Incremental} {
			b.Run(fmt.Sprintf("dispense%d/%s", n, strat), func(b *testing.B) {
				d := New(WithStrategy(strat))
				for i := 0; i < b.N; i++ {
					res, err := d.Search(context.Background(), g, 4, 4, 1, 12)
					if err != nil {
						b.Fatal(err)
					}
					if res.Status != backend.Sat {
						b.Fatalf("status %s", res.Status)
					}
				}
			})
		}
	}
}
