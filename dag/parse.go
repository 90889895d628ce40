// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse reads an operation graph in the line oriented assay format:
//
//	DAGNAME(label)
//	NODE(id, DISPENSE, fluid, volume, label)
//	NODE(id, MIX, drops, duration, label)
//	NODE(id, OUTPUT, sink, label)
//	NODE(id, DETECT, target..., duration, label)
//	EDGE(from, to)
//
// Ids in the file are 1-based.  Lines without '(' are ignored.  Any other
// problem, including an unknown declaration or node kind, is an error
// wrapping ErrMalformed or ErrUnknownKind.
func Parse(r io.Reader) (*Graph, error) {
	var (
		name  string
		nodes []Node
		edges []Edge
		line  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		decl, params, ok, err := tokenize(sc.Text())
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error(), Err: ErrMalformed}
		}
		if !ok {
			continue
		}
		switch decl {
		case "DAGNAME":
			if len(params) != 1 {
				return nil, malformed(line, "DAGNAME takes 1 parameter, got %d", len(params))
			}
			name = params[0]
		case "EDGE":
			if len(params) != 2 {
				return nil, malformed(line, "EDGE takes 2 parameters, got %d", len(params))
			}
			from, err := id(params[0])
			if err != nil {
				return nil, malformed(line, "edge source: %s", err)
			}
			to, err := id(params[1])
			if err != nil {
				return nil, malformed(line, "edge target: %s", err)
			}
			edges = append(edges, Edge{From: from, To: to})
		case "NODE":
			n, err := parseNode(params)
			if err != nil {
				pe := &ParseError{Line: line, Msg: err.Error(), Err: ErrMalformed}
				if errors.Is(err, ErrUnknownKind) {
					pe.Err = ErrUnknownKind
				}
				return nil, pe
			}
			nodes = append(nodes, n)
		default:
			return nil, malformed(line, "unknown declaration %q", decl)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dag: read: %w", err)
	}
	return New(name, nodes, edges)
}

// ParseFile opens and parses the graph file at path.
func ParseFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func malformed(line int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...), Err: ErrMalformed}
}

// tokenize splits "NAME(a, b, c)" into NAME and its trimmed parameters.
// ok is false for lines carrying no declaration.
func tokenize(s string) (decl string, params []string, ok bool, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", nil, false, nil
	}
	end := strings.LastIndexByte(s, ')')
	if end < open {
		return "", nil, false, fmt.Errorf("missing ')'")
	}
	decl = strings.TrimSpace(s[:open])
	if decl == "" {
		return "", nil, false, fmt.Errorf("missing declaration name")
	}
	body := s[open+1 : end]
	if strings.TrimSpace(body) == "" {
		return decl, nil, true, nil
	}
	params = strings.Split(body, ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return decl, params, true, nil
}

// id converts a 1-based id token into a 0-based id.
func id(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", s)
	}
	if i < 1 {
		return 0, fmt.Errorf("id %d < 1", i)
	}
	return i - 1, nil
}

func count(s, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", what, s)
	}
	return i, nil
}

func parseNode(ps []string) (Node, error) {
	if len(ps) < 2 {
		return Node{}, fmt.Errorf("NODE needs an id and a kind")
	}
	i, err := id(ps[0])
	if err != nil {
		return Node{}, err
	}
	k, err := ParseKind(ps[1])
	if err != nil {
		return Node{}, err
	}
	args := ps[2:]
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("NODE %s takes %d parameters after the kind, got %d", k, n, len(args))
		}
		return nil
	}
	switch k {
	case KindDispense:
		if err := want(3); err != nil {
			return Node{}, err
		}
		v, err := count(args[1], "volume")
		if err != nil {
			return Node{}, err
		}
		return NewDispense(i, args[0], v, args[2]), nil
	case KindMix:
		if err := want(3); err != nil {
			return Node{}, err
		}
		drops, err := count(args[0], "drop count")
		if err != nil {
			return Node{}, err
		}
		dur, err := count(args[1], "duration")
		if err != nil {
			return Node{}, err
		}
		return NewMix(i, drops, dur, args[2]), nil
	case KindOutput:
		if err := want(2); err != nil {
			return Node{}, err
		}
		return NewOutput(i, args[0], args[1]), nil
	case KindDetect:
		if len(args) < 2 {
			return Node{}, fmt.Errorf("NODE DETECT needs a duration and a label")
		}
		n := len(args)
		dur, err := count(args[n-2], "duration")
		if err != nil {
			return Node{}, err
		}
		return NewDetect(i, strings.Join(args[:n-2], ","), dur, args[n-1]), nil
	}
	return Node{}, fmt.Errorf("%w: %s", ErrUnknownKind, k)
}
