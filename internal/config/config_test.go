// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmfb.yaml")
	data := `
graph: assay.txt
width: 3
height: 4
max_steps: 9
timeout: 30s
strategy: incremental
metrics_addr: localhost:9090
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "assay.txt", cfg.Graph)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 4, cfg.Height)
	assert.Equal(t, 1, cfg.MinSteps)
	assert.Equal(t, 9, cfg.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "incremental", cfg.Strategy)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "colour: red\n"},
		{"zero width", "width: 0\n"},
		{"steps reversed", "min_steps: 5\nmax_steps: 2\n"},
		{"strategy", "strategy: greedy\n"},
		{"log level", "log_level: loud\n"},
		{"metrics addr", "metrics_addr: nowhere\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode(strings.NewReader(tt.yaml), &cfg)
			if err == nil {
				err = cfg.Validate()
			}
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(strings.NewReader(""), &cfg))
	assert.Equal(t, Default(), cfg)
}
