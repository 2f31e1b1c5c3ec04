// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package feature

import (
	"math"
	"sort"
	"strings"

	"github.com/gastrocarta/gastrocarta/internal/knowledge"
	"github.com/gastrocarta/gastrocarta/internal/model"
)

// OtherBucket is the category every label outside the configured
// vocabulary maps to. Unknown categories are never an error.
const OtherBucket = "other"

// venueTypes is the fixed venue vocabulary; anything else is "other".
var venueTypes = []string{"restaurant", "cafe", "bar", "takeaway", "street_food"}

// Builder turns validated records into feature vectors using the
// knowledge base's vocabularies and patterns. It is stateless beyond
// the immutable base and safe for concurrent use.
type Builder struct {
	kb *knowledge.Base
}

// NewBuilder returns a Builder over the given knowledge base.
func NewBuilder(kb *knowledge.Base) *Builder {
	return &Builder{kb: kb}
}

// Build derives the feature vector for a validated record. It is
// total over valid records: optional fields degrade to explicit
// unknowns rather than failing.
func (b *Builder) Build(rec *model.Restaurant) Vector {
	flags, weekly := b.hourFlags(rec.Hours)
	v := Vector{
		RestaurantID:   rec.ID,
		Rating:         *rec.Rating,
		ReviewCount:    *rec.ReviewCount,
		LogReviews:     math.Log1p(float64(*rec.ReviewCount)),
		PriceLevel:     rec.PriceLevel,
		Cuisine:        b.canonicalCuisine(rec.Cuisine),
		VenueType:      canonicalVenue(rec.VenueType),
		Classification: b.Classify(rec.Name),
		Hours:          flags,
		WeeklyHours:    weekly,
	}
	return v
}

// Classify runs chain detection over the restaurant name. The result
// is tagged: Chain on a pattern match, Independent on a non-empty
// unmatched name, Unknown when the name is empty.
func (b *Builder) Classify(name string) Classification {
	if strings.TrimSpace(name) == "" {
		return ClassUnknown
	}
	if b.kb.IsChain(name) {
		return ClassChain
	}
	return ClassIndependent
}

func (b *Builder) canonicalCuisine(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return OtherBucket
	}
	if b.kb.KnownCuisine(label) {
		return label
	}
	return OtherBucket
}

func canonicalVenue(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, v := range venueTypes {
		if label == v {
			return v
		}
	}
	return OtherBucket
}

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true,
}

// hourFlags derives the scarcity flags and the total weekly open hours
// from structured hours. A nil or empty schedule leaves every flag
// FlagUnknown and weekly hours at zero.
func (b *Builder) hourFlags(hours []model.DayHours) (HourFlags, float64) {
	if len(hours) == 0 {
		return HourFlags{}, 0
	}

	openDays := make(map[string]bool, 7)
	latestClose := make(map[string]int, 7)
	var weekdayCloses []int
	var weeklyMinutes int
	for _, dh := range hours {
		day := strings.ToLower(dh.Day)
		openDays[day] = true
		c, err := model.ParseClock(dh.Close)
		if err != nil {
			continue // validated upstream
		}
		o, oerr := model.ParseClock(dh.Open)
		if oerr == nil && c < o {
			c += 24 * 60 // closes past midnight
		}
		if oerr == nil && c > o {
			weeklyMinutes += c - o
		}
		if c > latestClose[day] {
			latestClose[day] = c
		}
		if weekdayNames[day] {
			weekdayCloses = append(weekdayCloses, c)
		}
	}

	owlThreshold := 24*60 + b.kb.Hours.OwlCloseHour*60
	lateDays := 0
	for _, c := range latestClose {
		if c >= owlThreshold {
			lateDays++
		}
	}

	flags := HourFlags{
		ClosesEarly:   FlagFalse,
		WeekendClosed: boolFlag(!openDays["saturday"] && !openDays["sunday"]),
		SundayClosed:  boolFlag(!openDays["sunday"]),
		LimitedDays:   boolFlag(len(openDays) <= 4),
		ClosesLate:    boolFlag(lateDays >= b.kb.Hours.OwlDaysMin),
	}

	if len(weekdayCloses) > 0 {
		med := medianMinutes(weekdayCloses)
		early := b.kb.EarlyCloseHour * 60
		// Guard against misentered morning closes masquerading as early.
		if med < early && med > 12*60 {
			flags.ClosesEarly = FlagTrue
		}
	} else {
		flags.ClosesEarly = FlagUnknown
	}
	return flags, float64(weeklyMinutes) / 60
}

func boolFlag(v bool) Flag {
	if v {
		return FlagTrue
	}
	return FlagFalse
}

func medianMinutes(vals []int) int {
	s := append([]int(nil), vals...)
	sort.Ints(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
