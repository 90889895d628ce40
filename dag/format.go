// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dag

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteTo writes g in the format read by Parse.  The output is canonical:
// parsing it and writing again gives the same bytes.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: bufio.NewWriter(w)}
	if g.Name != "" {
		fmt.Fprintf(cw, "DAGNAME(%s)\n", g.Name)
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		switch n.Kind {
		case KindDispense:
			fmt.Fprintf(cw, "NODE(%d, DISPENSE, %s, %d, %s)\n", n.ID+1, n.Dispense.Fluid, n.Dispense.Volume, n.Label)
		case KindMix:
			fmt.Fprintf(cw, "NODE(%d, MIX, %d, %d, %s)\n", n.ID+1, n.Mix.Drops, n.Mix.Duration, n.Label)
		case KindOutput:
			fmt.Fprintf(cw, "NODE(%d, OUTPUT, %s, %s)\n", n.ID+1, n.Output.Sink, n.Label)
		case KindDetect:
			ps := []string{fmt.Sprint(n.ID + 1), "DETECT"}
			if n.Detect.Target != "" {
				ps = append(ps, n.Detect.Target)
			}
			ps = append(ps, fmt.Sprint(n.Detect.Duration), n.Label)
			fmt.Fprintf(cw, "NODE(%s)\n", strings.Join(ps, ", "))
		default:
			return cw.n, fmt.Errorf("dag: node %d: %w: %s", n.ID, ErrUnknownKind, n.Kind)
		}
	}
	for _, e := range g.edges {
		fmt.Fprintf(cw, "EDGE(%d, %d)\n", e.From+1, e.To+1)
	}
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// WriteDot writes g as an undirected graphviz graph with one labelled
// vertex per node.
func (g *Graph) WriteDot(w io.Writer) error {
	cw := &countWriter{w: bufio.NewWriter(w)}
	fmt.Fprintf(cw, "graph %q {\n", g.Name)
	for i := range g.nodes {
		fmt.Fprintf(cw, "%d [label=%q]\n", i, g.nodes[i].String())
	}
	for _, e := range g.edges {
		fmt.Fprintf(cw, "%d -- %d\n", e.From, e.To)
	}
	fmt.Fprintf(cw, "}\n")
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

type countWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
