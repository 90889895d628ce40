// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package schedule

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-air/dmfb/grid"
	"github.com/go-air/dmfb/internal/telemetry"
)

// WriteDot writes step t as a Graphviz digraph: record nodes for the
// dispensers, the sinks and the board, with an edge from every device to
// the cell it feeds.
func (s *Schedule) WriteDot(w io.Writer, t int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `digraph step {rankdir=LR;node [shape=record,fontname="Inconsolata"];`)

	fields := make([]string, 0, len(s.Dispensers))
	for _, d := range s.Dispensers {
		fields = append(fields, fmt.Sprintf("<d%d>%d", d.Pos, d.Node))
	}
	fmt.Fprintf(bw, "dispenser [label=\"Dispensers:|%s\"];\n", strings.Join(fields, "|"))

	fields = fields[:0]
	for _, d := range s.Sinks {
		fields = append(fields, fmt.Sprintf("<s%d>S%d", d.Pos, d.Node))
	}
	fmt.Fprintf(bw, "sink [label=\"Sinks:|%s\"];\n", strings.Join(fields, "|"))

	rows := make([]string, s.H)
	for y := range rows {
		cells := make([]string, s.W)
		for x := range cells {
			c := grid.Cell{X: x, Y: y}
			tok := token(s.At(c, t))
			if tok == "*" {
				tok = "E"
			}
			cells[x] = fmt.Sprintf("<%s>%s", field(c), strings.TrimPrefix(tok, "#"))
		}
		rows[y] = "{" + strings.Join(cells, "|") + "}"
	}
	fmt.Fprintf(bw, "board [label=\"%s\"];\n", strings.Join(rows, "|"))

	per := s.Grid().Perimeter()
	for _, d := range s.Dispensers {
		fmt.Fprintf(bw, "dispenser:d%d -> board:%s\n", d.Pos, field(per.Cell(d.Pos)))
	}
	for _, d := range s.Sinks {
		fmt.Fprintf(bw, "sink:s%d -> board:%s\n", d.Pos, field(per.Cell(d.Pos)))
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func field(c grid.Cell) string {
	return fmt.Sprintf("f%d_%d", c.Y, c.X)
}

// Toolchain renders schedules to images with the Graphviz dot program and
// assembles them into an animation with ImageMagick's convert.
type Toolchain struct {
	Dot     string // default "dot"
	Convert string // default "convert"
	Log     *slog.Logger
}

// Render writes time<t>.dot and time<t>.png for every step into dir and
// then dir/animation.gif.  It returns the path of the animation.
func (tc *Toolchain) Render(ctx context.Context, s *Schedule, dir string) (string, error) {
	dot, convert, log := tc.Dot, tc.Convert, tc.Log
	if dot == "" {
		dot = "dot"
	}
	if convert == "" {
		convert = "convert"
	}
	if log == nil {
		log = telemetry.Discard()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("schedule: render: %w", err)
	}
	pngs := make([]string, 0, s.T)
	for t := 1; t <= s.T; t++ {
		src := filepath.Join(dir, fmt.Sprintf("time%d.dot", t))
		img := filepath.Join(dir, fmt.Sprintf("time%d.png", t))
		if err := writeFile(src, func(w io.Writer) error { return s.WriteDot(w, t) }); err != nil {
			return "", err
		}
		if err := run(ctx, log, dot, "-Tpng", "-o", img, src); err != nil {
			return "", err
		}
		pngs = append(pngs, img)
	}
	gif := filepath.Join(dir, "animation.gif")
	args := append([]string{"-delay", "50", "-loop", "0"}, pngs...)
	if err := run(ctx, log, convert, append(args, gif)...); err != nil {
		return "", err
	}
	return gif, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schedule: render: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("schedule: render %s: %w", path, err)
	}
	return f.Close()
}

func run(ctx context.Context, log *slog.Logger, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("schedule: %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	log.Debug("ran", "cmd", name, "args", args)
	return nil
}
