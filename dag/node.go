// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dag

import "fmt"

// Kind is the kind of a fluidic operation.  The set of kinds is closed.
type Kind uint8

const (
	KindDispense Kind = 1 + iota
	KindMix
	KindOutput
	KindDetect
)

// Kinds lists every valid Kind.
var Kinds = [...]Kind{KindDispense, KindMix, KindOutput, KindDetect}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindDispense && k <= KindDetect
}

func (k Kind) String() string {
	switch k {
	case KindDispense:
		return "DISPENSE"
	case KindMix:
		return "MIX"
	case KindOutput:
		return "OUTPUT"
	case KindDetect:
		return "DETECT"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps the textual kind token to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DispenseOp is the payload of a dispense node.
type DispenseOp struct {
	Fluid  string
	Volume int
}

// MixOp is the payload of a mix node.  Duration is in time steps.
type MixOp struct {
	Drops    int
	Duration int
}

// OutputOp is the payload of an output node.
type OutputOp struct {
	Sink string
}

// DetectOp is the payload of a detect node.  The detected fluid is the one
// arriving on the node's single incoming edge.
type DetectOp struct {
	Target   string
	Duration int
}

// Node is a fluidic operation.
//
// Exactly one of the payload pointers is non-nil and it is the one matching
// Kind.  Nodes are built with the New* constructors, which maintain this.
type Node struct {
	ID    int
	Kind  Kind
	Label string

	Dispense *DispenseOp
	Mix      *MixOp
	Output   *OutputOp
	Detect   *DetectOp
}

// NewDispense creates a dispense node.
func NewDispense(id int, fluid string, volume int, label string) Node {
	return Node{ID: id, Kind: KindDispense, Label: label,
		Dispense: &DispenseOp{Fluid: fluid, Volume: volume}}
}

// NewMix creates a mix node.
func NewMix(id, drops, duration int, label string) Node {
	return Node{ID: id, Kind: KindMix, Label: label,
		Mix: &MixOp{Drops: drops, Duration: duration}}
}

// NewOutput creates an output node.
func NewOutput(id int, sink, label string) Node {
	return Node{ID: id, Kind: KindOutput, Label: label,
		Output: &OutputOp{Sink: sink}}
}

// NewDetect creates a detect node.
func NewDetect(id int, target string, duration int, label string) Node {
	return Node{ID: id, Kind: KindDetect, Label: label,
		Detect: &DetectOp{Target: target, Duration: duration}}
}

// Duration returns the number of steps a mix or detect node keeps its
// footprint busy, and 0 for the other kinds.
func (n *Node) Duration() int {
	switch n.Kind {
	case KindMix:
		return n.Mix.Duration
	case KindDetect:
		return n.Detect.Duration
	case KindDispense, KindOutput:
		return 0
	}
	panic(fmt.Sprintf("dag: node %d has invalid kind %s", n.ID, n.Kind))
}

// Droplet reports whether the node leaves a droplet on the grid, that is
// whether it has occupancy.  Output nodes only consume.
func (n *Node) Droplet() bool {
	switch n.Kind {
	case KindDispense, KindMix, KindDetect:
		return true
	case KindOutput:
		return false
	}
	panic(fmt.Sprintf("dag: node %d has invalid kind %s", n.ID, n.Kind))
}

// check verifies the payload invariant.
func (n *Node) check() error {
	var ok bool
	switch n.Kind {
	case KindDispense:
		ok = n.Dispense != nil && n.Mix == nil && n.Output == nil && n.Detect == nil
		if ok && n.Dispense.Volume < 1 {
			return fmt.Errorf("dispense volume %d < 1", n.Dispense.Volume)
		}
	case KindMix:
		ok = n.Mix != nil && n.Dispense == nil && n.Output == nil && n.Detect == nil
		if ok && n.Mix.Duration < 1 {
			return fmt.Errorf("mix duration %d < 1", n.Mix.Duration)
		}
	case KindOutput:
		ok = n.Output != nil && n.Dispense == nil && n.Mix == nil && n.Detect == nil
	case KindDetect:
		ok = n.Detect != nil && n.Dispense == nil && n.Mix == nil && n.Output == nil
		if ok && n.Detect.Duration < 1 {
			return fmt.Errorf("detect duration %d < 1", n.Detect.Duration)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, n.Kind)
	}
	if !ok {
		return fmt.Errorf("payload does not match kind %s", n.Kind)
	}
	return nil
}

// String gives a one line description, used as the node label in DOT output.
func (n *Node) String() string {
	switch n.Kind {
	case KindDispense:
		return fmt.Sprintf("%d: DISPENSE %s x%d", n.ID, n.Dispense.Fluid, n.Dispense.Volume)
	case KindMix:
		return fmt.Sprintf("%d: MIX %d drops, %d steps", n.ID, n.Mix.Drops, n.Mix.Duration)
	case KindOutput:
		return fmt.Sprintf("%d: OUTPUT %s", n.ID, n.Output.Sink)
	case KindDetect:
		return fmt.Sprintf("%d: DETECT %s, %d steps", n.ID, n.Detect.Target, n.Detect.Duration)
	}
	return fmt.Sprintf("%d: %s", n.ID, n.Kind)
}
