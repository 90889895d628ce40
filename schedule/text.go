// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package schedule

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-air/dmfb/grid"
)

// WriteText writes the devices and, per step, the board with one token per
// cell: the node id, the node id prefixed by '#' for a working cell, or '*'
// for a free cell.
func (s *Schedule) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, d := range s.Dispensers {
		fmt.Fprintf(bw, "dispenser at %d of node %d\n", d.Pos, d.Node)
	}
	for _, d := range s.Sinks {
		fmt.Fprintf(bw, "sink at %d of node %d\n", d.Pos, d.Node)
	}
	for _, d := range s.Detectors {
		fmt.Fprintf(bw, "detector at %s of node %d\n", d.Cell, d.Node)
	}
	fmt.Fprintf(bw, "area %d\n", s.Area)
	for t := 1; t <= s.T; t++ {
		fmt.Fprintf(bw, "time: %d\n", t)
		for y := 0; y < s.H; y++ {
			toks := make([]string, s.W)
			for x := range toks {
				toks[x] = token(s.At(grid.Cell{X: x, Y: y}, t))
			}
			fmt.Fprintln(bw, strings.Join(toks, " "))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func token(sl Slot) string {
	switch {
	case sl.Node == Empty:
		return "*"
	case sl.Active:
		return "#" + strconv.Itoa(sl.Node)
	}
	return strconv.Itoa(sl.Node)
}

var (
	palette = []lipgloss.Color{"39", "214", "42", "199", "141", "220", "81", "203"}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Term renders the board of step t for a terminal.  Droplets are coloured
// by node, working cells are shown reversed.  With color false the plain
// tokens of WriteText are framed instead.
func (s *Schedule) Term(t int, color bool) string {
	width := 1
	for _, b := range s.Boards {
		for _, sl := range b {
			if n := len(token(sl)); n > width {
				width = n
			}
		}
	}
	rows := make([]string, s.H)
	for y := 0; y < s.H; y++ {
		cells := make([]string, s.W)
		for x := range cells {
			sl := s.At(grid.Cell{X: x, Y: y}, t)
			tok := fmt.Sprintf("%*s", width, token(sl))
			if color {
				tok = cellStyle(sl).Render(tok)
			}
			cells[x] = tok
		}
		rows[y] = strings.Join(cells, " ")
	}
	title := fmt.Sprintf("t=%d", t)
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if !color {
		return title + "\n" + body
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), boardStyle.Render(body))
}

func cellStyle(sl Slot) lipgloss.Style {
	if sl.Node == Empty {
		return emptyStyle
	}
	st := lipgloss.NewStyle().Foreground(palette[sl.Node%len(palette)]).Bold(true)
	if sl.Active {
		st = st.Reverse(true)
	}
	return st
}
