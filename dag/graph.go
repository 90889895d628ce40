// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dag holds fluidic operation graphs: nodes which dispense, mix,
// detect or output droplets, and the data dependencies between them.
package dag

import (
	"errors"
	"fmt"
)

// Edge is a data dependency: the droplet produced by From is consumed by To.
type Edge struct {
	From, To int
}

// Graph is an operation graph with dense node ids 0..Len()-1.
type Graph struct {
	Name  string
	nodes []Node
	edges []Edge
	ins   [][]int
	outs  [][]int
}

// New creates a graph from nodes and edges and validates it.
//
// nodes may come in any order but their ids must be exactly 0..len(nodes)-1.
func New(name string, nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{Name: name, nodes: make([]Node, len(nodes))}
	placed := make([]bool, len(nodes))
	for _, n := range nodes {
		if n.ID < 0 || n.ID >= len(nodes) {
			return nil, &ValidationError{Node: n.ID, Msg: fmt.Sprintf("id out of range [0..%d)", len(nodes))}
		}
		if placed[n.ID] {
			return nil, &ValidationError{Node: n.ID, Msg: "duplicate id"}
		}
		if err := n.check(); err != nil {
			if errors.Is(err, ErrUnknownKind) {
				return nil, err
			}
			return nil, &ValidationError{Node: n.ID, Msg: err.Error()}
		}
		placed[n.ID] = true
		g.nodes[n.ID] = n
	}
	g.ins = make([][]int, len(nodes))
	g.outs = make([][]int, len(nodes))
	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, err
		}
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) addEdge(e Edge) error {
	n := len(g.nodes)
	if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
		return &ValidationError{Node: -1, Msg: fmt.Sprintf("edge %d->%d references unknown node", e.From, e.To)}
	}
	if e.From == e.To {
		return &ValidationError{Node: e.From, Msg: "self dependency"}
	}
	for _, o := range g.outs[e.From] {
		if o == e.To {
			return &ValidationError{Node: -1, Msg: fmt.Sprintf("duplicate edge %d->%d", e.From, e.To)}
		}
	}
	g.edges = append(g.edges, e)
	g.outs[e.From] = append(g.outs[e.From], e.To)
	g.ins[e.To] = append(g.ins[e.To], e.From)
	return nil
}

func (g *Graph) validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		in, out := len(g.ins[i]), len(g.outs[i])
		switch n.Kind {
		case KindDispense:
			if in != 0 {
				return &ValidationError{Node: i, Msg: "dispense node has inputs"}
			}
		case KindMix:
			if in == 0 {
				return &ValidationError{Node: i, Msg: "mix node has no inputs"}
			}
		case KindOutput:
			if in != 1 {
				return &ValidationError{Node: i, Msg: fmt.Sprintf("output node has %d inputs, want 1", in)}
			}
			if out != 0 {
				return &ValidationError{Node: i, Msg: "output node has consumers"}
			}
		case KindDetect:
			if in != 1 {
				return &ValidationError{Node: i, Msg: fmt.Sprintf("detect node has %d inputs, want 1", in)}
			}
		default:
			return fmt.Errorf("dag: node %d: %w: %s", i, ErrUnknownKind, n.Kind)
		}
		for _, j := range g.ins[i] {
			if !g.nodes[j].Droplet() {
				return &ValidationError{Node: i, Msg: fmt.Sprintf("input %d produces no droplet", j)}
			}
		}
	}
	if c := g.cycle(); c >= 0 {
		return &ValidationError{Node: c, Msg: "dependency cycle"}
	}
	return nil
}

// cycle returns a node on a cycle or -1.
func (g *Graph) cycle() int {
	const (
		white = iota
		grey
		black
	)
	color := make([]int8, len(g.nodes))
	var vis func(i int) int
	vis = func(i int) int {
		color[i] = grey
		for _, j := range g.outs[i] {
			switch color[j] {
			case grey:
				return j
			case white:
				if c := vis(j); c >= 0 {
					return c
				}
			}
		}
		color[i] = black
		return -1
	}
	for i := range g.nodes {
		if color[i] == white {
			if c := vis(i); c >= 0 {
				return c
			}
		}
	}
	return -1
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with id i.
func (g *Graph) Node(i int) *Node {
	return &g.nodes[i]
}

// Nodes returns the nodes in id order.  The caller must not modify them.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in declaration order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// In returns the producers of the droplets consumed by node i.
func (g *Graph) In(i int) []int {
	return g.ins[i]
}

// Out returns the consumers of the droplet produced by node i.
func (g *Graph) Out(i int) []int {
	return g.outs[i]
}

// Count returns the number of nodes of kind k.
func (g *Graph) Count(k Kind) int {
	n := 0
	for i := range g.nodes {
		if g.nodes[i].Kind == k {
			n++
		}
	}
	return n
}

// Related reports whether the droplets of nodes i and j are allowed to
// touch: an edge joins them, or both feed a common consumer.
func (g *Graph) Related(i, j int) bool {
	if i == j {
		return true
	}
	for _, o := range g.outs[i] {
		if o == j {
			return true
		}
		for _, p := range g.outs[j] {
			if o == p {
				return true
			}
		}
	}
	for _, o := range g.outs[j] {
		if o == i {
			return true
		}
	}
	return false
}
