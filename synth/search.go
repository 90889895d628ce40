// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package synth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Search finds the smallest horizon in [tmin, tmax] for which g fits a
// w x h grid and minimises the area at that horizon.  Horizons are probed
// in batches of the configured parallelism.  Since feasibility is monotone
// in the horizon, the smallest feasible horizon of the first batch having
// one is the answer.
//
// If no horizon up to tmax is feasible, the Result has Status Unsat and T
// tmax.
func (d *Driver) Search(ctx context.Context, g *dag.Graph, w, h, tmin, tmax int) (*Result, error) {
	if tmin < 1 || tmax < tmin {
		return nil, fmt.Errorf("synth: invalid horizon range [%d..%d]", tmin, tmax)
	}
	ctx, span := telemetry.Tracer().Start(ctx, "synth.Search")
	defer span.End()
	start := time.Now()
	probes := 0
	for lo := tmin; lo <= tmax; lo += d.parallel {
		n := d.parallel
		if lo+n-1 > tmax {
			n = tmax - lo + 1
		}
		sts := make([]backend.Status, n)
		eg, ectx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			i := i
			eg.Go(func() error {
				_, st, err := d.probe(ectx, g, w, h, lo+i, -1)
				sts[i] = st
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		probes += n
		for i, st := range sts {
			d.log.Debug("horizon probe", "horizon", lo+i, "status", st)
			if st != backend.Sat {
				continue
			}
			span.SetAttributes(attribute.Int("horizon", lo+i))
			res, err := d.Minimize(ctx, g, w, h, lo+i)
			if err != nil {
				return nil, err
			}
			res.Probes += probes
			res.Elapsed = time.Since(start)
			return res, nil
		}
	}
	return &Result{Status: backend.Unsat, W: w, H: h, T: tmax, Probes: probes, Elapsed: time.Since(start)}, nil
}
