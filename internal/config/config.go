// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config loads the dmfb configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "dmfb.yaml"

// Config holds the synthesis settings.  Command line flags override it.
type Config struct {
	Graph       string        `yaml:"graph" validate:"required"`
	Width       int           `yaml:"width" validate:"gte=1,lte=64"`
	Height      int           `yaml:"height" validate:"gte=1,lte=64"`
	MinSteps    int           `yaml:"min_steps" validate:"gte=1"`
	MaxSteps    int           `yaml:"max_steps" validate:"gtefield=MinSteps"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	Strategy    string        `yaml:"strategy" validate:"oneof=rebuild incremental"`
	Parallel    int           `yaml:"parallel" validate:"gte=1,lte=64"`
	Crisp       string        `yaml:"crisp"`
	Out         string        `yaml:"out" validate:"required"`
	Render      bool          `yaml:"render"`
	Cache       string        `yaml:"cache"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Trace       bool          `yaml:"trace"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built in configuration: the single two input mix
// testcase on a 10x10 grid.
func Default() Config {
	return Config{
		Graph:    "testcase/Single_2_Input_Mix.txt",
		Width:    10,
		Height:   10,
		MinSteps: 1,
		MaxSteps: 20,
		Strategy: "rebuild",
		Parallel: 1,
		Out:      ".",
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads path over the defaults.  A missing DefaultFile is not an
// error; any other missing file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, os.ErrNotExist):
		return cfg, cfg.Validate()
	default:
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode decodes YAML from r into cfg, rejecting unknown fields.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
