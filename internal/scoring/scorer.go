// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package scoring

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/gastrocarta/gastrocarta/internal/feature"
	"github.com/gastrocarta/gastrocarta/internal/knowledge"
	"github.com/gastrocarta/gastrocarta/internal/model"
	"github.com/gastrocarta/gastrocarta/internal/spatial"
)

// Input bundles everything the scorer may read for one restaurant.
type Input struct {
	Record   *model.Restaurant
	Vector   feature.Vector
	Residual float64

	// Cell is the restaurant's cell aggregate; nil when the cell is
	// unknown.
	Cell *spatial.CellStats

	// GlobalMeanRating is the batch-wide mean rating, the default
	// shrinkage prior.
	GlobalMeanRating float64
}

// Breakdown is the full audit trail of one score: every weighted
// component and penalty by name, the shrunk rating, the final score,
// and the tier.
type Breakdown struct {
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`

	// Components are the weighted positive-direction contributions.
	Components map[string]float64 `json:"components"`
	// PenaltyParts are the applied penalties, stored negative.
	PenaltyParts map[string]float64 `json:"penalties"`

	ShrunkRating float64 `json:"shrunk_rating"`
	Score        float64 `json:"score"`
	Tier         Tier    `json:"tier"`
	Cluster      string  `json:"cluster,omitempty"`
}

// Scorer evaluates the context score against one knowledge base. It
// is immutable and safe for concurrent use.
type Scorer struct {
	kb     *knowledge.Base
	logger zerolog.Logger
}

// NewScorer returns a Scorer over a finalized knowledge base.
func NewScorer(kb *knowledge.Base, logger zerolog.Logger) *Scorer {
	l := logger.With().Str("component", "scorer").Logger()
	l.Debug().
		Str("city", kb.City).
		Interface("weights", kb.Weights.ToMap()).
		Msg("Scorer initialized")
	return &Scorer{kb: kb, logger: l}
}

// Score produces the breakdown for one restaurant. It is pure: the
// same input always yields the same breakdown, and scoring one
// restaurant never reads another's. The total accumulates in fixed
// signal order, never by map iteration, so repeated calls agree to the
// last bit.
func (s *Scorer) Score(in Input) Breakdown {
	kb := s.kb
	rec := in.Record
	w := kb.Weights

	bd := Breakdown{
		RestaurantID: rec.ID,
		Name:         rec.Name,
		Components:   make(map[string]float64, 9),
		PenaltyParts: make(map[string]float64, 4),
	}
	if in.Cell != nil {
		bd.Cluster = in.Cell.Cluster
	}

	shrunk := s.shrunkRating(in)
	bd.ShrunkRating = shrunk

	var total float64
	add := func(name string, v float64) {
		bd.Components[name] = v
		total += v
	}
	subtract := func(name string, v float64) {
		bd.PenaltyParts[name] = -v
		total -= v
	}

	add("base_quality", w.BaseQuality*shrunk/5.0)
	add("residual", w.Residual*in.Residual/2.0)

	volBonus, volPenalty, volPenaltyName := s.volumeSignal(in.Vector.ReviewCount, in.Vector)
	add("volume", w.Volume*volBonus)
	if volPenalty > 0 {
		subtract(volPenaltyName, volPenalty)
	}

	add("scarcity", w.Scarcity*s.scarcitySignal(in))

	switch in.Vector.Classification {
	case feature.ClassIndependent:
		add("independence", w.Independence)
	case feature.ClassChain:
		subtract("chain", kb.Penalties.Chain)
	}

	add("guide", s.guideSignal(rec))
	add("community", w.Community*s.communitySignal(in))
	add("diaspora", w.Diaspora*s.diasporaSignal(in, shrunk))

	if bonus := s.valueBonus(in.Vector); bonus > 0 {
		add("value", bonus)
	}
	if p := s.priceQualityPenalty(in.Vector); p > 0 {
		subtract("price_quality", p)
	}

	highVolumeApplied := volPenalty > 0 && volPenaltyName == "high_volume"
	if p := s.proximityPenalty(rec, shrunk, highVolumeApplied); p > 0 {
		subtract("tourist_proximity", p)
	}

	bd.Score = math.Max(0, math.Min(1, total))
	bd.Tier = ClassifyTier(bd.Score, kb.Tiers)
	return bd
}

// shrunkRating pulls the raw rating toward a prior with confidence
// n/(n+k). The prior is the global mean, or the cell mean for
// cold-start restaurants when cell context exists.
func (s *Scorer) shrunkRating(in Input) float64 {
	kb := s.kb
	prior := in.GlobalMeanRating
	if in.Vector.ReviewCount < kb.Shrinkage.ColdStartReviewMax &&
		in.Cell != nil && in.Cell.Count > 1 {
		prior = in.Cell.MeanRating
	}
	n := float64(in.Vector.ReviewCount)
	c := n / (n + kb.Shrinkage.PriorStrength)
	return prior + c*(in.Vector.Rating-prior)
}
