// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is wrapped by every error describing a graph which
	// cannot be read or is structurally invalid.
	ErrMalformed = errors.New("malformed operation graph")

	// ErrUnknownKind is wrapped by errors naming a node kind outside the
	// closed set.
	ErrUnknownKind = errors.New("unknown node kind")
)

// ParseError reports a problem at a line of a graph file.
type ParseError struct {
	Line int
	Msg  string
	Err  error // ErrMalformed or ErrUnknownKind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dag: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a structural problem with a graph.
type ValidationError struct {
	Node int // -1 if not about a single node
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("dag: %s", e.Msg)
	}
	return fmt.Sprintf("dag: node %d: %s", e.Node, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}
