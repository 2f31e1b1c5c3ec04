// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package spatial

import (
	"math"

	"github.com/gastrocarta/gastrocarta/internal/feature"
)

// CellStats are the aggregate statistics of one H3 cell.
type CellStats struct {
	CellID string `json:"cell_id"`

	// Count is the number of restaurants in the cell.
	Count int `json:"count"`

	MeanRating   float64 `json:"mean_rating"`
	MeanResidual float64 `json:"mean_residual"`
	MeanReviews  float64 `json:"mean_reviews"`
	MeanPrice    float64 `json:"mean_price"`

	// ChainShare is the fraction of classified-chain restaurants.
	ChainShare float64 `json:"chain_share"`

	// CuisineEntropy is the Shannon entropy of the cuisine mix, a
	// diversity measure.
	CuisineEntropy float64 `json:"cuisine_entropy"`

	// CuisineShare maps cuisine label to its within-cell share.
	CuisineShare map[string]float64 `json:"cuisine_share"`

	// TopCuisine is the most common cuisine in the cell.
	TopCuisine string `json:"top_cuisine"`

	// Cluster is the neighborhood cluster label, filled by Cluster.
	Cluster string `json:"cluster,omitempty"`
}

// Aggregate folds feature vectors into per-cell statistics. The
// residuals map is keyed by restaurant id; vectors without a residual
// contribute zero to MeanResidual. Vectors without a cell id are
// skipped.
func Aggregate(vectors []feature.Vector, residuals map[string]float64) map[string]*CellStats {
	type acc struct {
		stats      *CellStats
		rating     float64
		residual   float64
		reviews    float64
		price      float64
		priceN     int
		chains     int
		classified int
		cuisines   map[string]int
	}

	cells := make(map[string]*acc)
	for i := range vectors {
		v := &vectors[i]
		if v.CellID == "" {
			continue
		}
		a, ok := cells[v.CellID]
		if !ok {
			a = &acc{
				stats:    &CellStats{CellID: v.CellID},
				cuisines: make(map[string]int),
			}
			cells[v.CellID] = a
		}
		a.stats.Count++
		a.rating += v.Rating
		a.residual += residuals[v.RestaurantID]
		a.reviews += float64(v.ReviewCount)
		if v.PriceLevel > 0 {
			a.price += float64(v.PriceLevel)
			a.priceN++
		}
		switch v.Classification {
		case feature.ClassChain:
			a.chains++
			a.classified++
		case feature.ClassIndependent:
			a.classified++
		}
		a.cuisines[v.Cuisine]++
	}

	out := make(map[string]*CellStats, len(cells))
	for id, a := range cells {
		s := a.stats
		n := float64(s.Count)
		s.MeanRating = a.rating / n
		s.MeanResidual = a.residual / n
		s.MeanReviews = a.reviews / n
		if a.priceN > 0 {
			s.MeanPrice = a.price / float64(a.priceN)
		}
		if a.classified > 0 {
			s.ChainShare = float64(a.chains) / float64(a.classified)
		}
		s.CuisineShare = make(map[string]float64, len(a.cuisines))
		top, topCount := "", 0
		for c, count := range a.cuisines {
			share := float64(count) / n
			s.CuisineShare[c] = share
			s.CuisineEntropy -= share * math.Log(share)
			if count > topCount || (count == topCount && c < top) {
				top, topCount = c, count
			}
		}
		s.TopCuisine = top
		out[id] = s
	}
	return out
}

// Annotate writes cell-derived columns back onto the vectors so the
// regression schema can use neighborhood context.
func Annotate(vectors []feature.Vector, cells map[string]*CellStats) {
	for i := range vectors {
		v := &vectors[i]
		s, ok := cells[v.CellID]
		if !ok {
			continue
		}
		v.CellDensity = float64(s.Count)
		v.CellMeanRating = s.MeanRating
		v.CellCuisineShare = s.CuisineShare[v.Cuisine]
	}
}
