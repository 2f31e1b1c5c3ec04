// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package model defines the restaurant input records consumed by the
// ranking pipeline and their validation rules.
//
// A Restaurant is the unit of input. Records arrive from external
// acquisition (out of scope here) and are validated before any feature
// building: a record with missing coordinates, an out-of-range rating,
// or a negative review count is malformed and is excluded from the run,
// reported through a RecordError that names the offending identifier.
package model
