// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dmfb places and schedules droplet assays on digital microfluidic
// biochips in one pass.
//
// An assay is a directed acyclic graph of dispense, mix, detect and output
// operations (package dag).  The chip is a rectangular grid of electrodes
// whose perimeter positions may host dispensers and sinks (package grid).
// For a horizon of T steps, package encode states as boolean constraints
// where every droplet is at every step, where mixes run, and which
// perimeter positions and cells carry devices.  A model of those
// constraints is a schedule (package schedule).
//
// Package synth searches the smallest feasible horizon and then bisects the
// number of used cells with an area cap, solving with gini in process or on
// a crisp server (package backend).
//
// Synthesize bundles the common case:
//
//	g, err := dag.ParseFile("testcase/Single_2_Input_Mix.txt")
//	...
//	res, err := dmfb.Synthesize(ctx, g, 10, 10, 20)
//	...
//	res.Schedule.WriteText(os.Stdout)
//
// The command dmfb in cmd/dmfb wraps the same search with configuration,
// a result cache, metrics and rendering.
package dmfb
