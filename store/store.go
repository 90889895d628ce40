// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package store caches synthesis results in a badger database, keyed by the
// canonical text of the graph and the grid and horizon bounds.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-air/dmfb/backend"
	"github.com/go-air/dmfb/dag"
	"github.com/go-air/dmfb/internal/telemetry"
	"github.com/go-air/dmfb/schedule"
)

const keyPrefix = "dmfb/v1/"

// Config configures a Store.
type Config struct {
	Path     string
	InMemory bool
	Logger   *slog.Logger
}

// Key identifies a search.
type Key struct {
	Graph      *dag.Graph
	W, H       int
	Tmin, Tmax int
}

func (k Key) bytes() ([]byte, error) {
	h := sha256.New()
	if _, err := k.Graph.WriteTo(h); err != nil {
		return nil, err
	}
	fmt.Fprintf(h, "grid %dx%d horizon %d..%d", k.W, k.H, k.Tmin, k.Tmax)
	return []byte(keyPrefix + hex.EncodeToString(h.Sum(nil))), nil
}

// Entry is a cached result.
type Entry struct {
	RunID    string             `json:"run_id"`
	Status   backend.Status     `json:"status"`
	T        int                `json:"t"`
	Schedule *schedule.Schedule `json:"schedule,omitempty"`
	Created  time.Time          `json:"created"`
}

// Store is a result cache.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens or creates the store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store: path is required for a persistent cache")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	log := cfg.Logger
	if log == nil {
		log = telemetry.Discard()
		opts = opts.WithLogger(nil)
	} else {
		opts = opts.WithLogger(&badgerLogger{logger: log})
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Get returns the entry for k.  A missing entry is (nil, false, nil).
func (s *Store) Get(k Key) (*Entry, bool, error) {
	key, err := k.bytes()
	if err != nil {
		return nil, false, err
	}
	var e Entry
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		telemetry.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get: %w", err)
	}
	telemetry.CacheLookups.WithLabelValues("hit").Inc()
	s.log.Debug("cache hit", "key", string(key), "run", e.RunID)
	return &e, true, nil
}

// Put stores e under k.  Unknown results are not cached.
func (s *Store) Put(k Key, e *Entry) error {
	if e.Status == backend.Unknown {
		return nil
	}
	key, err := k.bytes()
	if err != nil {
		return err
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
	if err != nil {
		return fmt.Errorf("store: put: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
