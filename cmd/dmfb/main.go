// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command dmfb synthesises placements and schedules of droplet assays on
// digital microfluidic biochips.
//
// Usage:
//
//	dmfb synth [graph]          find the shortest, then smallest schedule
//	dmfb watch [graph]          re-synthesise whenever the graph changes
//	dmfb dimacs [graph] -T n    export the constraints as DIMACS cnf
//	dmfb gen --dispense n --mix m   print a random assay
//	dmfb serve addr             run a crisp solver server
//
// Exit status is 0 when a schedule is found, 10 when none exists within
// the maximum horizon, 2 when the solver could not decide in time and 1 on
// any other error.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-air/dmfb/backend"
)

const (
	exitOK         = 0
	exitError      = 1
	exitUnknown    = 2
	exitInfeasible = 10
)

// errInfeasible is returned by commands finding no schedule.
var errInfeasible = errors.New("no schedule within the maximum horizon")

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInfeasible):
		return exitInfeasible
	case errors.Is(err, backend.ErrUnknown):
		return exitUnknown
	}
	return exitError
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dmfb: %s\n", err)
	}
	os.Exit(exitCode(err))
}
