// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package scoring implements the deterministic context scorer and the
// tier classifier.
//
// The scorer combines confidence-shrunk base quality, the model
// residual, the review-volume curve, scarcity, independence, guide and
// community endorsements, and diaspora authenticity into a single
// score in [0, 1]. Positive-direction weights are normalized to sum to
// one at configuration load; penalty-direction signals (chain, tourist
// proximity, volume extremes, price/quality mismatch) subtract from
// the weighted sum afterward.
//
// Scoring one restaurant reads the record, its feature vector, its
// model residual, its cell aggregate, and the knowledge base, and
// nothing else. The same inputs always produce the same breakdown.
package scoring
