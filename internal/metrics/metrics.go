// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gastrocarta_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gastrocarta_run_duration_seconds",
			Help:    "End-to-end duration of pipeline runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s .. ~200s
		},
	)

	// Record metrics
	RecordsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gastrocarta_records_scored_total",
			Help: "Total number of restaurants scored",
		},
	)

	RecordsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gastrocarta_records_rejected_total",
			Help: "Total number of records rejected as malformed",
		},
		[]string{"stage"}, // "validation", "cell_assignment"
	)

	// Model metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gastrocarta_training_duration_seconds",
			Help:    "Duration of expected-rating model training in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TrainingRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gastrocarta_training_rows",
			Help: "Number of rows used by the last model fit",
		},
	)

	// Scoring metrics
	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gastrocarta_scoring_duration_seconds",
			Help:    "Duration of the parallel scoring stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TierAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gastrocarta_tier_assignments_total",
			Help: "Total number of tier assignments by tier",
		},
		[]string{"tier"},
	)

	CellsAggregated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gastrocarta_cells_aggregated",
			Help: "Number of spatial cells in the last run",
		},
	)
)

// ObserveRun records a completed run's outcome and duration.
func ObserveRun(outcome string, d time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(d.Seconds())
}
