// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dmfb

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/synth"
)

// ErrInfeasible is returned by Synthesize when no horizon up to the maximum
// admits a schedule.
var ErrInfeasible = errors.New("dmfb: no schedule within the horizon")

// Synthesize finds a schedule for g on a w x h grid with the fewest steps
// up to maxSteps, and among those the fewest used cells.
//
// Options configure the underlying synth.Driver.  A search interrupted by
// a timeout or by ctx returns an error wrapping backend.ErrUnknown.
func Synthesize(ctx context.Context, g *dag.Graph, w, h, maxSteps int, opts ...synth.Option) (*synth.Result, error) {
	res, err := synth.New(opts...).Search(ctx, g, w, h, 1, maxSteps)
	if err != nil {
		return nil, err
	}
	switch res.Status {
	case backend.Unsat:
		return res, fmt.Errorf("%w (%d steps on %dx%d)", ErrInfeasible, maxSteps, w, h)
	case backend.Unknown:
		return res, fmt.Errorf("dmfb: %w", backend.ErrUnknown)
	}
	return res, nil
}
