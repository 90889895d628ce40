// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package telemetry holds the process wide metrics, tracer and logger
// construction shared by the synthesis packages and the dmfb command.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EncodeSeconds tracks time spent building constraints for one instance.
	EncodeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dmfb_encode_duration_seconds",
		Help:    "Constraint encoding duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	// EncodeClauses tracks the size of encoded instances.
	EncodeClauses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dmfb_encode_clauses",
		Help:    "Number of clauses per encoded instance",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	})

	// Checks counts solver checks by outcome.
	Checks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dmfb_checks_total",
		Help: "Total solver checks by status",
	}, []string{"status"})

	// CheckSeconds tracks solver check latency.
	CheckSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dmfb_check_duration_seconds",
		Help:    "Solver check duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"status"})

	// Probes counts area cap probes by strategy.
	Probes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dmfb_minimize_probes_total",
		Help: "Total area cap probes by strategy",
	}, []string{"strategy"})

	// CacheLookups counts schedule cache lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dmfb_cache_lookups_total",
		Help: "Schedule cache lookups by result",
	}, []string{"result"})
)
