// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/internal/config"
	"github.com/go-air/dmfb/internal/telemetry"
	"github.com/go-air/dmfb/schedule"
	"github.com/go-air/dmfb/store"
	"github.com/go-air/dmfb/synth"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// settings loads the configuration file and applies the flags which were
// set explicitly on the command line.
func settings(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if len(args) == 1 {
		cfg.Graph = args[0]
	}
	fs := cmd.Flags()
	if fs.Changed("width") {
		cfg.Width = width
	}
	if fs.Changed("height") {
		cfg.Height = height
	}
	if fs.Changed("min-steps") {
		cfg.MinSteps = minSteps
	}
	if fs.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if fs.Changed("timeout") {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return cfg, fmt.Errorf("--timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fs.Changed("strategy") {
		cfg.Strategy = strategy
	}
	if fs.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if fs.Changed("crisp") {
		cfg.Crisp = crispAddr
	}
	if fs.Changed("out") {
		cfg.Out = outDir
	}
	if fs.Changed("render") {
		cfg.Render = render
	}
	if fs.Changed("cache") {
		cfg.Cache = cacheDir
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if fs.Changed("trace") {
		cfg.Trace = traceOut
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func logger(level string) (*slog.Logger, error) {
	lvl, err := telemetry.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return telemetry.NewLogger(os.Stderr, lvl), nil
}

// factory returns unbounded sessions; the driver applies cfg.Timeout to
// every check.
func factory(cfg *config.Config) backend.Factory {
	if cfg.Crisp != "" {
		return backend.Crisp(cfg.Crisp)
	}
	return backend.Gini()
}

func driver(cfg *config.Config, log *slog.Logger) (*synth.Driver, error) {
	st, err := synth.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return synth.New(
		synth.WithBackend(factory(cfg)),
		synth.WithTimeout(cfg.Timeout),
		synth.WithStrategy(st),
		synth.WithParallel(cfg.Parallel),
		synth.WithLogger(log)), nil
}

// serveMetrics exposes the prometheus registry until ctx is done.
func serveMetrics(ctx context.Context, addr string, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "addr", addr, "error", err)
		}
	}()
}

// session holds what stays open across runs of synth and watch.
type session struct {
	cfg   config.Config
	log   *slog.Logger
	drv   *synth.Driver
	cache *store.Store
	out   io.Writer
	color bool
}

func newSession(ctx context.Context, cmd *cobra.Command, args []string) (*session, func(), error) {
	cfg, err := settings(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	drv, err := driver(&cfg, log)
	if err != nil {
		return nil, nil, err
	}
	s := &session{cfg: cfg, log: log, drv: drv, out: cmd.OutOrStdout()}
	if f, ok := s.out.(*os.File); ok {
		s.color = isatty.IsTerminal(f.Fd())
	}
	var closers []func()
	if cfg.MetricsAddr != "" {
		mctx, cancel := context.WithCancel(ctx)
		serveMetrics(mctx, cfg.MetricsAddr, log)
		closers = append(closers, cancel)
	}
	if cfg.Trace {
		shutdown, err := telemetry.SetupTracing(os.Stderr)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("trace shutdown", "error", err)
			}
		})
	}
	if cfg.Cache != "" {
		c, err := store.Open(store.Config{Path: cfg.Cache, Logger: log})
		if err != nil {
			return nil, nil, err
		}
		s.cache = c
		closers = append(closers, func() {
			if err := c.Close(); err != nil {
				log.Warn("cache close", "error", err)
			}
		})
	}
	done := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return s, done, nil
}

func runSynth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, done, err := newSession(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer done()
	return s.run(ctx)
}

// run synthesises the configured graph once.
func (s *session) run(ctx context.Context) error {
	cfg := &s.cfg
	id := uuid.NewString()
	log := s.log.With("run", id, "graph", cfg.Graph)
	g, err := dag.ParseFile(cfg.Graph)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return err
	}
	if err := writeDot(filepath.Join(cfg.Out, "input.dot"), g); err != nil {
		return err
	}
	key := store.Key{Graph: g, W: cfg.Width, H: cfg.Height, Tmin: cfg.MinSteps, Tmax: cfg.MaxSteps}
	if s.cache != nil {
		e, ok, err := s.cache.Get(key)
		if err != nil {
			log.Warn("cache lookup", "error", err)
		} else if ok {
			log.Info("cached result", "from", e.RunID, "status", e.Status, "steps", e.T)
			return s.report(ctx, &synth.Result{Status: e.Status, W: cfg.Width, H: cfg.Height, T: e.T, Schedule: e.Schedule})
		}
	}
	log.Info("synthesising", "grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"min_steps", cfg.MinSteps, "max_steps", cfg.MaxSteps, "strategy", cfg.Strategy)
	res, err := s.drv.Search(ctx, g, cfg.Width, cfg.Height, cfg.MinSteps, cfg.MaxSteps)
	if err != nil {
		return err
	}
	log.Info("done", "status", res.Status, "steps", res.T, "area", res.Area(),
		"probes", res.Probes, "elapsed", res.Elapsed)
	if s.cache != nil {
		e := &store.Entry{RunID: id, Status: res.Status, T: res.T, Schedule: res.Schedule, Created: time.Now()}
		if err := s.cache.Put(key, e); err != nil {
			log.Warn("cache store", "error", err)
		}
	}
	return s.report(ctx, res)
}

func (s *session) report(ctx context.Context, res *synth.Result) error {
	switch res.Status {
	case backend.Unsat:
		fmt.Fprintf(s.out, "no schedule in %d steps\n", res.T)
		return errInfeasible
	case backend.Unknown:
		return fmt.Errorf("%w: no answer within the timeout", backend.ErrUnknown)
	}
	sched := res.Schedule
	fmt.Fprintf(s.out, "%d steps, area %d\n", sched.T, sched.Area)
	if s.color {
		for t := 1; t <= sched.T; t++ {
			fmt.Fprintln(s.out, sched.Term(t, true))
		}
	} else if err := sched.WriteText(s.out); err != nil {
		return err
	}
	if !s.cfg.Render {
		return nil
	}
	tc := &schedule.Toolchain{Log: s.log}
	gif, err := tc.Render(ctx, sched, s.cfg.Out)
	if err != nil {
		return err
	}
	s.log.Info("rendered", "animation", gif)
	return nil
}

func writeDot(path string, g *dag.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.WriteDot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
