// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dimacs writes clause streams in the DIMACS cnf format so that an
// encoded synthesis instance can be handed to any off the shelf solver.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/go-air/gini/z"
)

// Writer collects clauses given to Add and writes them with a
// "p cnf <vars> <clauses>" header.  Since the header precedes the clauses,
// everything is held in memory until WriteTo.
//
// Writer implements gini's inter.Adder.
type Writer struct {
	lits    []z.Lit
	clauses int
	maxVar  z.Var
	open    bool
	comment []string
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Add adds a literal to the current clause, or terminates it when m is
// z.LitNull.
func (w *Writer) Add(m z.Lit) {
	w.lits = append(w.lits, m)
	if m == z.LitNull {
		w.clauses++
		w.open = false
		return
	}
	w.open = true
	if v := m.Var(); v > w.maxVar {
		w.maxVar = v
	}
}

// Comment adds a comment line to the header.
func (w *Writer) Comment(format string, args ...interface{}) {
	w.comment = append(w.comment, fmt.Sprintf(format, args...))
}

// Vars returns the largest variable seen.
func (w *Writer) Vars() int {
	return int(w.maxVar)
}

// Clauses returns the number of terminated clauses.
func (w *Writer) Clauses() int {
	return w.clauses
}

// WriteTo writes the problem to dst.  A trailing unterminated clause is an
// error.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if w.open {
		return 0, fmt.Errorf("dimacs: unterminated clause")
	}
	bw := bufio.NewWriter(dst)
	cw := &countWriter{w: bw}
	for _, c := range w.comment {
		fmt.Fprintf(cw, "c %s\n", c)
	}
	fmt.Fprintf(cw, "p cnf %d %d\n", w.maxVar, w.clauses)
	buf := make([]byte, 0, 16)
	for _, m := range w.lits {
		buf = buf[:0]
		if m == z.LitNull {
			buf = append(buf, '0', '\n')
		} else {
			buf = strconv.AppendInt(buf, int64(m.Dimacs()), 10)
			buf = append(buf, ' ')
		}
		if _, err := cw.Write(buf); err != nil {
			return cw.n, err
		}
	}
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

type countWriter struct {
	w   io.Writer
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
