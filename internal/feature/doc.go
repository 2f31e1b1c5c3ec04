// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package feature converts validated restaurant records into the
// feature vectors shared by the expected-rating model and the context
// scorer.
//
// Building is pure and deterministic: the same record always yields
// the same vector. Missing optional inputs surface as explicit unknown
// values (tri-state hour flags, unknown classification, the "other"
// cuisine bucket) instead of silent defaults, so downstream signals
// can tell "absent" from "false".
package feature
