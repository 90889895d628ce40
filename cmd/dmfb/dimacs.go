// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"io"
	"os"

	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/dimacs"
	"github.com/go-air/dmfb/encode"
	"github.com/spf13/cobra"
)

func runDimacs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := settings(cmd, args)
	if err != nil {
		return err
	}
	log, err := logger(cfg.LogLevel)
	if err != nil {
		return err
	}
	g, err := dag.ParseFile(cfg.Graph)
	if err != nil {
		return err
	}
	enc, err := encode.New(g,
		encode.Grid(cfg.Width, cfg.Height),
		encode.Horizon(dimacsSteps),
		encode.Cap(dimacsCap),
		encode.Logger(log))
	if err != nil {
		return err
	}
	wr := dimacs.NewWriter()
	if err := enc.Encode(ctx, wr); err != nil {
		return err
	}
	wr.Comment("dmfb %s", cfg.Graph)
	wr.Comment("grid %dx%d horizon %d", cfg.Width, cfg.Height, dimacsSteps)
	if dimacsCap >= 0 {
		wr.Comment("area at most %d", dimacsCap)
	}
	st := enc.Stats()
	log.Info("encoded", "vars", st.Vars, "clauses", st.Clauses, "counted", st.Counted)
	return output(cmd, dimacsOut, func(w io.Writer) error {
		_, err := wr.WriteTo(w)
		return err
	})
}

// output calls fn on stdout for "-", and otherwise on the named file.
func output(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "-" || path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
