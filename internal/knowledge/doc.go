// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package knowledge holds the curated local-knowledge base that drives
// context scoring: named areas with character tiers, tourist and
// local-street zones with radii, chain and fusion name patterns, guide
// bonus tables, cuisine-area affinity matrices, the signal weight
// schedule, and tier thresholds.
//
// The knowledge base is pure configuration. It is loaded from YAML,
// validated once, and treated as immutable for the lifetime of a run;
// swapping the file retargets the engine to a different city without
// code changes. Validation rejects inconsistent content (weight
// schedules that cannot be normalized, non-monotonic tier thresholds,
// non-positive zone radii) before any scoring happens.
package knowledge
