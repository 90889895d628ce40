// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// settle is how long watch waits for writes to a graph to stop.
const settle = 200 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, done, err := newSession(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer done()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// editors replace files, so watch the directory.
	path, err := filepath.Abs(s.cfg.Graph)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	s.once(ctx)
	return s.watch(ctx, w, path)
}

// once runs a synthesis, logging instead of returning failures so that the
// watch goes on.
func (s *session) once(ctx context.Context) {
	if err := s.run(ctx); err != nil && !errors.Is(err, errInfeasible) {
		s.log.Error("synthesis failed", "error", err)
	}
}

func (s *session) watch(ctx context.Context, w *fsnotify.Watcher, path string) error {
	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Debug("graph changed", "op", ev.Op.String())
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch", "error", err)
		case <-timer.C:
			s.once(ctx)
		}
	}
}
