// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	g, err := ParseFile("testdata/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	assert.Equal(t, "Single_2_Input_Mix", g.Name)
	require.Equal(t, 4, g.Len())

	d := g.Node(0)
	assert.Equal(t, KindDispense, d.Kind)
	assert.Equal(t, "water", d.Dispense.Fluid)
	assert.Equal(t, 10, d.Dispense.Volume)
	assert.Equal(t, "DIS1", d.Label)

	m := g.Node(2)
	assert.Equal(t, KindMix, m.Kind)
	assert.Equal(t, 2, m.Mix.Drops)
	assert.Equal(t, 2, m.Duration())
	assert.Equal(t, []int{0, 1}, g.In(2))
	assert.Equal(t, []int{3}, g.Out(2))

	assert.Equal(t, 1, g.Count(KindOutput))
	assert.Equal(t, 2, g.Count(KindDispense))
	assert.False(t, g.Node(3).Droplet())
}

func TestParseDetect(t *testing.T) {
	src := `NODE(1, DISPENSE, blood, 1, D)
NODE(2, DETECT, glucose, 3, S)
NODE(3, DETECT, 2, S2)
EDGE(1, 2)
EDGE(2, 3)`
	g, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "glucose", g.Node(1).Detect.Target)
	assert.Equal(t, 3, g.Node(1).Duration())
	assert.Equal(t, "", g.Node(2).Detect.Target)
	assert.Equal(t, 2, g.Node(2).Duration())
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		Name string
		Src  string
		Is   error
		Line int
	}{
		{
			Name: "missing dispense params",
			Src:  "NODE(1, DISPENSE, water)",
			Is:   ErrMalformed,
			Line: 1,
		},
		{
			Name: "unknown kind",
			Src:  "NODE(1, HEAT, 3, H)",
			Is:   ErrUnknownKind,
			Line: 1,
		},
		{
			Name: "unknown declaration",
			Src:  "DAGNAME(x)\nWIRE(1, 2)",
			Is:   ErrMalformed,
			Line: 2,
		},
		{
			Name: "bad volume",
			Src:  "NODE(1, DISPENSE, water, lots, D)",
			Is:   ErrMalformed,
			Line: 1,
		},
		{
			Name: "zero based id",
			Src:  "NODE(0, OUTPUT, waste, O)",
			Is:   ErrMalformed,
			Line: 1,
		},
		{
			Name: "unclosed",
			Src:  "NODE(1, OUTPUT, waste, O",
			Is:   ErrMalformed,
			Line: 1,
		},
		{
			Name: "sparse ids",
			Src:  "NODE(1, DISPENSE, water, 1, D)\nNODE(3, OUTPUT, waste, O)\nEDGE(1, 3)",
			Is:   ErrMalformed,
		},
		{
			Name: "output without input",
			Src:  "NODE(1, OUTPUT, waste, O)",
			Is:   ErrMalformed,
		},
		{
			Name: "dispense with input",
			Src:  "NODE(1, DISPENSE, a, 1, A)\nNODE(2, DISPENSE, b, 1, B)\nEDGE(1, 2)",
			Is:   ErrMalformed,
		},
		{
			Name: "cycle",
			Src: `NODE(1, DISPENSE, a, 1, A)
NODE(2, MIX, 2, 1, M1)
NODE(3, MIX, 2, 1, M2)
EDGE(1, 2)
EDGE(2, 3)
EDGE(3, 2)`,
			Is: ErrMalformed,
		},
		{
			Name: "zero mix duration",
			Src:  "NODE(1, DISPENSE, a, 1, A)\nNODE(2, MIX, 2, 0, M)\nEDGE(1, 2)",
			Is:   ErrMalformed,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.Src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.Is), "got %v", err)
			if tt.Line > 0 {
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, tt.Line, pe.Line)
			}
		})
	}
}

func TestIgnoresLinesWithoutDeclarations(t *testing.T) {
	src := "# comment\n\nNODE(1, DISPENSE, a, 1, A)\n  \nNODE(2, OUTPUT, w, O)\nEDGE(1,2)\n"
	g, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestWriteToRoundTrip(t *testing.T) {
	g, err := ParseFile("testdata/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	var a bytes.Buffer
	_, err = g.WriteTo(&a)
	require.NoError(t, err)

	h, err := Parse(bytes.NewReader(a.Bytes()))
	require.NoError(t, err)
	var b bytes.Buffer
	_, err = h.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, g.Nodes(), h.Nodes())
	assert.Equal(t, g.Edges(), h.Edges())
}

func TestRelated(t *testing.T) {
	g, err := ParseFile("testdata/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	assert.True(t, g.Related(0, 1), "co-operands of the mix")
	assert.True(t, g.Related(0, 2))
	assert.True(t, g.Related(2, 0))
	assert.True(t, g.Related(2, 3))
	assert.False(t, g.Related(0, 3))

	h, err := New("", []Node{
		NewDispense(0, "a", 1, "A"),
		NewDispense(1, "b", 1, "B"),
		NewOutput(2, "w", "O1"),
		NewOutput(3, "w", "O2"),
	}, []Edge{{0, 2}, {1, 3}})
	require.NoError(t, err)
	assert.False(t, h.Related(0, 1))
}

func TestNewRejectsPayloadMismatch(t *testing.T) {
	n := NewMix(0, 2, 1, "M")
	n.Kind = KindOutput
	_, err := New("", []Node{n}, nil)
	assert.ErrorIs(t, err, ErrMalformed)

	n = NewOutput(0, "w", "O")
	n.Kind = Kind(9)
	_, err = New("", []Node{n}, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWriteDot(t *testing.T) {
	g, err := ParseFile("testdata/Single_2_Input_Mix.txt")
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, g.WriteDot(&b))
	s := b.String()
	assert.True(t, strings.HasPrefix(s, `graph "Single_2_Input_Mix" {`))
	assert.Contains(t, s, "0 -- 2\n")
	assert.Contains(t, s, `2 [label="2: MIX 2 drops, 2 steps"]`)
}
