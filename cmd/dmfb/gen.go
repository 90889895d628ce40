// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"math/rand"

	"github.com/go-air/dmfb/gen"
	"github.com/spf13/cobra"
)

func runGen(cmd *cobra.Command, args []string) error {
	g, err := gen.RandAssay(rand.New(rand.NewSource(genSeed)), genDispense, genMix)
	if err != nil {
		return err
	}
	_, err = g.WriteTo(cmd.OutOrStdout())
	return err
}
