// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package scoring

import (
	"math"

	"github.com/gastrocarta/gastrocarta/internal/feature"
	"github.com/gastrocarta/gastrocarta/internal/model"
)

// volumeSignal evaluates the review-count saturation curve. It
// returns the bonus fraction in [0, 1] plus, for the extreme bands,
// the penalty magnitude and its breakdown name. A high-turnover
// exempt category cancels the high-volume penalty exactly: the
// adjustment is zero, not merely reduced.
func (s *Scorer) volumeSignal(reviews int, v feature.Vector) (bonus, penalty float64, name string) {
	vc := s.kb.Volume
	n := float64(reviews)
	switch {
	case reviews < vc.LowMax:
		p := s.kb.Penalties.LowVolume * (1 - n/float64(vc.LowMax))
		return 0, p, "low_volume"
	case reviews < vc.SweetMin:
		// Ramp from trust threshold up to the sweet spot.
		return (n - float64(vc.LowMax)) / float64(vc.SweetMin-vc.LowMax), 0, ""
	case reviews <= vc.SweetMax:
		return 1, 0, ""
	case reviews <= vc.FamousMax:
		// Famous but plausible: neither bonus nor penalty.
		return 0, 0, ""
	default:
		for _, cat := range vc.ExemptCategories {
			if cat == v.VenueType || cat == v.Cuisine {
				return 0, 0, ""
			}
		}
		over := math.Min(1, (n-float64(vc.FamousMax))/float64(vc.FamousMax))
		return 0, s.kb.Penalties.HighVolume * over, "high_volume"
	}
}

// scarcitySignal combines the hour-derived flags, local cuisine
// rarity, and the extreme-hours bonus into [0, 1]. Unknown flags
// contribute nothing: absence of hours data is not evidence of
// scarcity.
func (s *Scorer) scarcitySignal(in Input) float64 {
	sw := s.kb.Scarcity
	var raw float64
	if in.Vector.Hours.ClosesEarly == feature.FlagTrue {
		raw += sw.ClosesEarly
	}
	if in.Vector.Hours.LimitedDays == feature.FlagTrue {
		raw += sw.LimitedDays
	}
	if in.Vector.Hours.WeekendClosed == feature.FlagTrue {
		raw += sw.WeekendClosed
	}
	if s.rareCuisine(in) {
		raw += sw.RareCuisine
	}
	raw += sw.HoursExtreme * s.hoursExtremeSignal(in)
	return raw / sw.Sum()
}

// hoursExtremeSignal rewards schedules at either end of the horseshoe:
// larks that open for only a short working week, and owls that keep
// regular past-midnight service. The middle of the curve earns
// nothing, and the whole signal is gated on rating so a weak kitchen
// cannot score on its opening hours alone.
func (s *Scorer) hoursExtremeSignal(in Input) float64 {
	hc := s.kb.Hours
	if in.Vector.Rating < hc.QualityGate {
		return 0
	}
	var lark, owl float64
	if wh := in.Vector.WeeklyHours; wh > 0 && wh < hc.LarkWeeklyMax {
		lark = 0.8
	}
	if in.Vector.Hours.ClosesLate == feature.FlagTrue {
		owl = 0.8
	}
	return math.Max(lark, owl)
}

// rareCuisine is true when the cuisine is known and underrepresented
// in the surrounding cell.
func (s *Scorer) rareCuisine(in Input) bool {
	if in.Cell == nil || in.Cell.Count < 2 {
		return false
	}
	if in.Vector.Cuisine == feature.OtherBucket {
		return false
	}
	return in.Cell.CuisineShare[in.Vector.Cuisine] <= s.kb.RareCuisineShare
}

// guideSignal sums configured guide bonuses, capped at the guide
// weight so stacked memberships cannot crowd out other signals.
func (s *Scorer) guideSignal(rec *model.Restaurant) float64 {
	var sum float64
	for _, g := range rec.GuideMentions {
		sum += s.kb.GuideBonuses[g]
	}
	return math.Min(sum, s.kb.Weights.Guide)
}

// communitySignal buckets community mentions into [0, 1] and
// amplifies the result where public review mass is thin, since local
// word of mouth matters most exactly there.
func (s *Scorer) communitySignal(in Input) float64 {
	cc := s.kb.Community
	mentions := in.Record.CommunityMentions
	var raw float64
	switch {
	case mentions >= cc.StrongMentions:
		raw = 1.0
	case mentions >= cc.ModerateMentions:
		raw = 0.7
	case mentions >= 1:
		raw = 0.4
	default:
		return 0
	}
	if in.Vector.ReviewCount < cc.SparseReviewMax {
		raw *= cc.Amplifier
	}
	return math.Min(raw, 1)
}

// diasporaSignal looks up the cuisine-area authenticity affinity,
// boosted inside a matching local street, and gated to zero for
// modern-concept names and for restaurants whose shrunk rating is too
// weak to reward.
func (s *Scorer) diasporaSignal(in Input, shrunk float64) float64 {
	dc := s.kb.Diaspora
	if shrunk < dc.QualityGate {
		return 0
	}
	rec := in.Record
	if s.kb.IsFusionConcept(rec.Name) {
		return 0
	}

	var affinity float64
	if area := s.kb.NearestArea(rec.Location.Lat, rec.Location.Lng); area != nil {
		affinity = s.kb.AffinityFor(in.Vector.Cuisine, area.Name)
	}
	for _, hit := range s.kb.LocalStreetsAt(rec.Location.Lat, rec.Location.Lng) {
		for _, c := range hit.Zone.Cuisines {
			if c == in.Vector.Cuisine {
				affinity = math.Min(1, affinity+dc.StreetBoost)
			}
		}
	}
	return affinity
}

// proximityPenalty is the tourist-zone penalty: linear decay from the
// full cap at the zone center to exactly zero at the radius, gated
// off for restaurants at or above the zone quality gate. When several
// zones contain the point, the strongest penalty wins. The
// collinearity factor reduces the penalty when the high-volume
// penalty already fired, because zone presence and saturated review
// volume measure overlapping phenomena.
func (s *Scorer) proximityPenalty(rec *model.Restaurant, shrunk float64, highVolumeApplied bool) float64 {
	var worst float64
	for _, hit := range s.kb.TouristZonesAt(rec.Location.Lat, rec.Location.Lng) {
		// Zone gates are filled in from the base default at load time.
		if shrunk >= hit.Zone.QualityGate {
			continue
		}
		p := s.kb.Penalties.TouristTrap * (1 - hit.DistanceKm/hit.Zone.RadiusKm)
		if p > worst {
			worst = p
		}
	}
	if highVolumeApplied {
		worst *= s.kb.CollinearityFactor
	}
	return worst
}

// valueBonus rewards budget restaurants with high ratings.
func (s *Scorer) valueBonus(v feature.Vector) float64 {
	vc := s.kb.Value
	if v.PriceLevel > 0 && v.PriceLevel <= vc.BudgetPriceMax && v.Rating >= vc.GoodRating {
		return vc.Bonus
	}
	return 0
}

// priceQualityPenalty charges expensive restaurants with mediocre
// ratings, scaled by how far the rating falls short.
func (s *Scorer) priceQualityPenalty(v feature.Vector) float64 {
	vc := s.kb.Value
	if v.PriceLevel < vc.ExpensivePriceMin || v.Rating >= vc.WeakRating {
		return 0
	}
	short := math.Min(1, vc.WeakRating-v.Rating)
	return s.kb.Penalties.PriceQuality * short
}
