// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package feature

import (
	"sort"
	"strings"

	"github.com/gastrocarta/gastrocarta/internal/knowledge"
)

// Schema fixes the dense-row layout for the regression model: numeric
// columns first, then one-hot cuisine and venue buckets. Column order
// is deterministic for a given knowledge base, so models and rows
// built from the same base always line up.
type Schema struct {
	columns  []string
	cuisines []string
	venues   []string
}

// numericColumns precede the one-hot blocks. Rating is the regression
// target and is deliberately absent.
var numericColumns = []string{
	"log_reviews",
	"price_level",
	"is_chain",
	"closes_early",
	"weekend_closed",
	"limited_days",
	"cell_density",
	"cell_mean_rating",
}

// NewSchema builds the row layout from the knowledge base's cuisine
// vocabulary. The "other" bucket is always present in both one-hot
// blocks.
func NewSchema(kb *knowledge.Base) *Schema {
	cuisines := make([]string, 0, len(kb.Cuisines)+1)
	for _, c := range kb.Cuisines {
		cuisines = append(cuisines, strings.ToLower(c))
	}
	sort.Strings(cuisines)
	cuisines = append(cuisines, OtherBucket)

	venues := append(append([]string(nil), venueTypes...), OtherBucket)

	s := &Schema{cuisines: cuisines, venues: venues}
	s.columns = append(s.columns, numericColumns...)
	for _, c := range cuisines {
		s.columns = append(s.columns, "cuisine_"+c)
	}
	for _, v := range venues {
		s.columns = append(s.columns, "venue_"+v)
	}
	return s
}

// Columns returns the column names in row order.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Width returns the number of columns in a row.
func (s *Schema) Width() int { return len(s.columns) }

// Row produces the dense feature row for a vector. Unseen categories
// land in the "other" bucket.
func (s *Schema) Row(v Vector) []float64 {
	row := make([]float64, 0, len(s.columns))
	row = append(row,
		v.LogReviews,
		float64(v.PriceLevel),
		chainFloat(v.Classification),
		v.Hours.ClosesEarly.Float(),
		v.Hours.WeekendClosed.Float(),
		v.Hours.LimitedDays.Float(),
		v.CellDensity,
		v.CellMeanRating,
	)
	row = appendOneHot(row, s.cuisines, v.Cuisine)
	row = appendOneHot(row, s.venues, v.VenueType)
	return row
}

func appendOneHot(row []float64, vocab []string, label string) []float64 {
	hit := len(vocab) - 1 // "other" is always last
	for i, entry := range vocab {
		if entry == label {
			hit = i
			break
		}
	}
	for i := range vocab {
		if i == hit {
			row = append(row, 1)
		} else {
			row = append(row, 0)
		}
	}
	return row
}

func chainFloat(c Classification) float64 {
	switch c {
	case ClassChain:
		return 1
	case ClassIndependent:
		return 0
	default:
		return 0.5
	}
}
