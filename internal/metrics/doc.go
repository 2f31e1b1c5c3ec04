// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

/*
Package metrics provides Prometheus instrumentation for the ranking
pipeline.

# Available Metrics

Run metrics:
  - gastrocarta_runs_total: Pipeline runs (counter)
    Labels: outcome (ok, error)
  - gastrocarta_run_duration_seconds: End-to-end run duration (histogram)

Record metrics:
  - gastrocarta_records_scored_total: Restaurants scored (counter)
  - gastrocarta_records_rejected_total: Malformed records (counter)
    Labels: stage (validation, cell_assignment)

Model metrics:
  - gastrocarta_training_duration_seconds: Model fit duration (histogram)
  - gastrocarta_training_rows: Rows in the last fit (gauge)

Scoring metrics:
  - gastrocarta_scoring_duration_seconds: Parallel scoring duration (histogram)
  - gastrocarta_tier_assignments_total: Tier assignments (counter)
    Labels: tier
  - gastrocarta_cells_aggregated: Spatial cells in the last run (gauge)

# Exposition

The engine only records; exposition belongs to the driver:

	import "github.com/prometheus/client_golang/prometheus/promhttp"

	http.Handle("/metrics", promhttp.Handler())

# Thread Safety

All recording functions are safe for concurrent use; the Prometheus
client handles synchronization internally.

# Cardinality

Labels are limited to small fixed vocabularies (outcome, stage, tier).
Restaurant identifiers never appear as labels.
*/
package metrics
