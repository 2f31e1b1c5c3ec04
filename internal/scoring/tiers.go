// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package scoring

import "github.com/gastrocarta/gastrocarta/internal/knowledge"

// Tier is the recommendation tier of a scored restaurant.
type Tier int

const (
	TierBaseline Tier = iota
	TierSolid
	TierStrong
	TierExceptional
)

func (t Tier) String() string {
	switch t {
	case TierExceptional:
		return "exceptional"
	case TierStrong:
		return "strong"
	case TierSolid:
		return "solid"
	default:
		return "baseline"
	}
}

// MarshalText lets tiers serialize as their names.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ClassifyTier maps a final score to its tier. Bounds are inclusive
// upward: a score exactly at a threshold takes the higher tier.
func ClassifyTier(score float64, th knowledge.TierThresholds) Tier {
	switch {
	case score >= th.Exceptional:
		return TierExceptional
	case score >= th.Strong:
		return TierStrong
	case score >= th.Solid:
		return TierSolid
	default:
		return TierBaseline
	}
}
