// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "dmfb",
		Short:         "One pass synthesis for digital microfluidic biochips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	synthCmd = &cobra.Command{
		Use:   "synth [graph]",
		Short: "Place and schedule an assay with the fewest steps, then the fewest cells",
		Long: `Reads an operation graph, searches the smallest number of steps for which
the assay fits the grid, and minimises the used area at that horizon.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSynth,
	}

	watchCmd = &cobra.Command{
		Use:   "watch [graph]",
		Short: "Synthesise again whenever the graph file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}

	dimacsCmd = &cobra.Command{
		Use:   "dimacs [graph]",
		Short: "Write the constraints for a fixed horizon in DIMACS cnf",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDimacs,
	}

	genCmd = &cobra.Command{
		Use:   "gen",
		Short: "Print a random assay",
		Args:  cobra.NoArgs,
		RunE:  runGen,
	}

	// shared by synth and watch
	configPath  string
	width       int
	height      int
	minSteps    int
	maxSteps    int
	timeout     string
	strategy    string
	parallel    int
	crispAddr   string
	outDir      string
	render      bool
	cacheDir    string
	metricsAddr string
	traceOut    bool
	logLevel    string

	dimacsSteps int
	dimacsCap   int
	dimacsOut   string

	genDispense int
	genMix      int
	genSeed     int64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default dmfb.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	for _, c := range []*cobra.Command{synthCmd, watchCmd, dimacsCmd} {
		c.Flags().IntVar(&width, "width", 10, "grid width")
		c.Flags().IntVar(&height, "height", 10, "grid height")
		c.Flags().StringVar(&crispAddr, "crisp", "", "address of a crisp server to solve on")
	}
	for _, c := range []*cobra.Command{synthCmd, watchCmd} {
		c.Flags().IntVar(&minSteps, "min-steps", 1, "smallest horizon to try")
		c.Flags().IntVar(&maxSteps, "max-steps", 20, "largest horizon to try")
		c.Flags().StringVar(&timeout, "timeout", "0s", "bound on every solver check, 0 for none")
		c.Flags().StringVar(&strategy, "strategy", "rebuild", "area minimisation: rebuild or incremental")
		c.Flags().IntVar(&parallel, "parallel", 1, "horizons probed at once")
		c.Flags().StringVarP(&outDir, "out", "o", ".", "directory for drawings")
		c.Flags().BoolVar(&render, "render", false, "render steps with dot and an animation with convert")
		c.Flags().StringVar(&cacheDir, "cache", "", "directory of the result cache, empty to disable")
		c.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
		c.Flags().BoolVar(&traceOut, "trace", false, "print trace spans to stderr")
	}
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(watchCmd)

	dimacsCmd.Flags().IntVarP(&dimacsSteps, "steps", "T", 10, "horizon")
	dimacsCmd.Flags().IntVar(&dimacsCap, "cap", -1, "area cap, negative for none")
	dimacsCmd.Flags().StringVarP(&dimacsOut, "out", "o", "-", "output file, - for stdout")
	rootCmd.AddCommand(dimacsCmd)

	genCmd.Flags().IntVar(&genDispense, "dispense", 2, "number of dispense nodes")
	genCmd.Flags().IntVar(&genMix, "mix", 1, "number of two input mixes")
	genCmd.Flags().Int64Var(&genSeed, "seed", 1, "random seed")
	rootCmd.AddCommand(genCmd)
}
