// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package regress implements the expected-rating model: gradient
// boosting over shallow least-squares regression trees.
//
// The model learns what rating a restaurant "should" have given its
// observable attributes (review mass, price, cuisine, venue type,
// neighborhood density). The interesting quantity downstream is the
// residual - how far the actual rating sits above or below that
// expectation - which is clamped to a fixed band so a single outlier
// cannot dominate the context score.
//
// Training is deterministic: splits are scanned in fixed column order
// over sorted values, so the same rows and targets always produce the
// same model regardless of input ordering.
package regress
