// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package feature

// Classification is the tagged result of chain detection. Guessing is
// never allowed: an empty or unmatchable name stays Unknown.
type Classification int

const (
	ClassUnknown Classification = iota
	ClassIndependent
	ClassChain
)

func (c Classification) String() string {
	switch c {
	case ClassIndependent:
		return "independent"
	case ClassChain:
		return "chain"
	default:
		return "unknown"
	}
}

// Flag is a tri-state boolean for signals derived from optional data.
type Flag int

const (
	FlagUnknown Flag = iota
	FlagFalse
	FlagTrue
)

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Float encodes the flag for the regression matrix: false 0, true 1,
// unknown 0.5 so that unknowns sit between the classes instead of
// being conflated with either.
func (f Flag) Float() float64 {
	switch f {
	case FlagTrue:
		return 1
	case FlagFalse:
		return 0
	default:
		return 0.5
	}
}

// HourFlags are the opening-hours scarcity signals. All flags are
// FlagUnknown when the record carries no hours data.
type HourFlags struct {
	// ClosesEarly: the median weekday closing time is before the
	// configured early-close hour.
	ClosesEarly Flag `json:"closes_early"`
	// WeekendClosed: closed both Saturday and Sunday.
	WeekendClosed Flag `json:"weekend_closed"`
	// SundayClosed: closed on Sunday.
	SundayClosed Flag `json:"sunday_closed"`
	// LimitedDays: open four or fewer days a week.
	LimitedDays Flag `json:"limited_days"`
	// ClosesLate: enough days close at or after the configured
	// past-midnight hour to count as regular late-night service.
	ClosesLate Flag `json:"closes_late"`
}

// Vector is the per-restaurant feature set. Cell-derived fields
// (CellDensity, CellMeanRating, CellCuisineShare) are zero until the
// spatial aggregation pass fills them in.
type Vector struct {
	RestaurantID string  `json:"restaurant_id"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	LogReviews   float64 `json:"log_reviews"`
	PriceLevel   int     `json:"price_level"`

	// Cuisine is the canonical vocabulary label, or "other".
	Cuisine   string `json:"cuisine"`
	VenueType string `json:"venue_type"`

	Classification Classification `json:"classification"`
	Hours          HourFlags      `json:"hours"`
	// WeeklyHours is the total open hours per week, 0 when the
	// schedule is unknown.
	WeeklyHours float64 `json:"weekly_hours"`

	// CellID is the H3 cell the restaurant falls in.
	CellID string `json:"cell_id"`
	// CellDensity is the restaurant count of the cell.
	CellDensity float64 `json:"cell_density"`
	// CellMeanRating is the mean rating across the cell.
	CellMeanRating float64 `json:"cell_mean_rating"`
	// CellCuisineShare is the share of the cell's restaurants sharing
	// this vector's cuisine.
	CellCuisineShare float64 `json:"cell_cuisine_share"`
}
