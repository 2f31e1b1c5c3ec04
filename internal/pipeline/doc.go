// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package pipeline orchestrates a full ranking run: record
// validation, feature building, expected-rating model training,
// residual computation, spatial aggregation and clustering, parallel
// context scoring, and tier classification.
//
// The pipeline isolates per-record failures - a malformed record is
// excluded and reported, never fatal - while treating an untrainable
// model as a fast, explicit run failure. Scoring is fanned out over a
// worker pool against immutable shared state, so results are
// identical regardless of worker count.
package pipeline
