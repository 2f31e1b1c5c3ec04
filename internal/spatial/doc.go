// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package spatial maps restaurants onto H3 hexagonal cells, aggregates
// per-cell statistics, and clusters cells into neighborhood character
// groups.
//
// Cell aggregates feed two consumers: the feature schema (density and
// mean rating columns for the expected-rating model) and the context
// scorer (cold-start prior, rare-cuisine share). Cluster labels are
// descriptive output only; they never feed back into scoring.
package spatial
