// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"github.com/go-air/gini/crisp"
	"github.com/spf13/cobra"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve addr",
		Short: "Run a CRISP-1.0 solver server for synth --crisp",
		Long: `Runs a CRISP-1.0 server on addr, which is either host:port or @path for a
unix domain socket.  Point synth or watch at it with --crisp addr to solve
away from the encoding process.`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}

	serveTrace bool
)

func init() {
	serveCmd.Flags().BoolVar(&serveTrace, "trace-protocol", false, "log every protocol message")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logger(logLevel)
	if err != nil {
		return err
	}
	s, err := crisp.NewServer(args[0])
	if err != nil {
		return err
	}
	s.Trace(serveTrace)
	log.Info("serving", "addr", args[0])
	return s.Serve()
}
