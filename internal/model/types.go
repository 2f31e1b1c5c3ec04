// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// DayHours is the opening interval for a single day of the week.
// Close may be past midnight ("01:00" with Open "18:00" means service
// into the next day).
type DayHours struct {
	Day   string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

// Restaurant is a single input record for the ranking pipeline.
//
// Location, Rating, and ReviewCount are mandatory. Hours, PriceLevel,
// Cuisine, VenueType, GuideMentions, and CommunityMentions are optional
// enrichments; absent values map to explicit unknown categories during
// feature building rather than being silently defaulted.
type Restaurant struct {
	// ID uniquely identifies the record within a batch.
	ID string `json:"id" validate:"required"`

	// Name is the display name. May be empty for poorly-sourced
	// records; classification then reports unknown rather than
	// guessing independence.
	Name string `json:"name"`

	// Location is required. A record without coordinates cannot be
	// assigned to a spatial cell and is rejected as malformed.
	Location *Coordinates `json:"location" validate:"required"`

	// Cuisine is a free-form cuisine label ("ethiopian", "italian").
	// Labels outside the configured vocabulary fall into the "other"
	// bucket without error.
	Cuisine string `json:"cuisine,omitempty"`

	// VenueType distinguishes restaurants from adjacent venue kinds
	// ("restaurant", "cafe", "bar", "takeaway").
	VenueType string `json:"venue_type,omitempty"`

	// PriceLevel is 1 (budget) through 4 (high end); 0 means unknown.
	PriceLevel int `json:"price_level,omitempty" validate:"min=0,max=4"`

	// Rating is the mean public rating on a 0-5 scale. Pointer so an
	// absent field is distinguishable from a legitimate 0.0 and is
	// rejected as malformed instead of entering aggregates as zero.
	Rating *float64 `json:"rating" validate:"required,min=0,max=5"`

	// ReviewCount is the number of public reviews behind Rating.
	// Pointer for the same absent-versus-zero reason as Rating.
	ReviewCount *int `json:"review_count" validate:"required,min=0"`

	// Hours holds structured opening hours when known; nil means the
	// schedule is unknown, which is distinct from closed.
	Hours []DayHours `json:"hours,omitempty" validate:"omitempty,dive"`

	// GuideMentions lists curated guide memberships by guide key
	// (for example "michelin_star", "bib_gourmand").
	GuideMentions []string `json:"guide_mentions,omitempty"`

	// CommunityMentions counts independent local community
	// endorsements (forum threads, local press).
	CommunityMentions int `json:"community_mentions,omitempty" validate:"min=0"`
}

// ParseClock converts an "HH:MM" clock string to minutes since
// midnight. It is lenient about a missing leading zero.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: missing colon", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", s)
	}
	return hour*60 + minute, nil
}
