// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package knowledge

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrConfigInconsistent marks a knowledge base that failed load-time
// validation. Scoring never starts against an inconsistent base.
var ErrConfigInconsistent = errors.New("inconsistent knowledge configuration")

// Area is a named district with a character tier used by the affinity
// and visibility signals.
type Area struct {
	// Name is the canonical area key referenced by affinity tables.
	Name string `koanf:"name" json:"name"`
	Lat  float64 `koanf:"lat" json:"lat"`
	Lng  float64 `koanf:"lng" json:"lng"`
	// Tier describes the area character: tourist_heavy, diaspora_hub,
	// local_foodie, underexplored, mixed.
	Tier string `koanf:"tier" json:"tier"`
}

// Zone is a point-of-interest circle. Tourist zones carry a quality
// gate; local streets carry the cuisines they are known for.
type Zone struct {
	Name     string  `koanf:"name" json:"name"`
	Lat      float64 `koanf:"lat" json:"lat"`
	Lng      float64 `koanf:"lng" json:"lng"`
	RadiusKm float64 `koanf:"radius_km" json:"radius_km"`

	// QualityGate exempts genuinely good restaurants from the tourist
	// proximity penalty: no penalty when the shrunk rating is at or
	// above the gate. Only meaningful on tourist zones; zones that
	// leave it unset inherit the base's ZoneQualityGate at load time.
	QualityGate float64 `koanf:"quality_gate" json:"quality_gate,omitempty"`

	// Cuisines lists the cuisines a local street is known for. Only
	// meaningful on street zones.
	Cuisines []string `koanf:"cuisines" json:"cuisines,omitempty"`
}

// Weights is the positive-direction signal weight schedule. Weights
// are normalized to sum exactly 1.0 at load time; relative magnitudes
// are what matters in the file.
type Weights struct {
	// BaseQuality weights the confidence-shrunk public rating.
	// Default: 0.34.
	BaseQuality float64 `koanf:"base_quality" json:"base_quality"`
	// Residual weights the over/under-performance against the
	// expected-rating model. Default: 0.18.
	Residual float64 `koanf:"residual" json:"residual"`
	// Volume weights the bonus half of the review-volume curve.
	// Default: 0.10.
	Volume float64 `koanf:"volume" json:"volume"`
	// Scarcity weights limited hours/days and rare-cuisine signals.
	// Default: 0.12.
	Scarcity float64 `koanf:"scarcity" json:"scarcity"`
	// Independence weights the independent (non-chain) bonus.
	// Default: 0.08.
	Independence float64 `koanf:"independence" json:"independence"`
	// Guide weights curated guide memberships. Default: 0.08.
	Guide float64 `koanf:"guide" json:"guide"`
	// Community weights local community endorsements. Default: 0.05.
	Community float64 `koanf:"community" json:"community"`
	// Diaspora weights cuisine-area authenticity affinity.
	// Default: 0.05.
	Diaspora float64 `koanf:"diaspora" json:"diaspora"`
}

// Sum returns the raw weight total before normalization.
func (w Weights) Sum() float64 {
	return w.BaseQuality + w.Residual + w.Volume + w.Scarcity +
		w.Independence + w.Guide + w.Community + w.Diaspora
}

// Normalize scales the weights so they sum to exactly 1.0. The
// receiver is unchanged. Normalizing an all-zero or negative schedule
// is a configuration error caught by Validate.
func (w Weights) Normalize() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return w
	}
	return Weights{
		BaseQuality:  w.BaseQuality / sum,
		Residual:     w.Residual / sum,
		Volume:       w.Volume / sum,
		Scarcity:     w.Scarcity / sum,
		Independence: w.Independence / sum,
		Guide:        w.Guide / sum,
		Community:    w.Community / sum,
		Diaspora:     w.Diaspora / sum,
	}
}

// ToMap returns the weights keyed by signal name, for logging and
// breakdown export.
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		"base_quality": w.BaseQuality,
		"residual":     w.Residual,
		"volume":       w.Volume,
		"scarcity":     w.Scarcity,
		"independence": w.Independence,
		"guide":        w.Guide,
		"community":    w.Community,
		"diaspora":     w.Diaspora,
	}
}

// Penalties holds the penalty-direction signal magnitudes. Values are
// positive caps; they are subtracted after the normalized positive
// signals are summed.
type Penalties struct {
	// Chain is the cap for recognized chain restaurants.
	// Default: 0.10.
	Chain float64 `koanf:"chain" json:"chain"`
	// TouristTrap is the cap for low-quality restaurants inside a
	// tourist zone, decayed linearly with distance. Default: 0.15.
	TouristTrap float64 `koanf:"tourist_trap" json:"tourist_trap"`
	// LowVolume is the cap for restaurants with too few reviews to
	// trust the rating. Default: 0.10.
	LowVolume float64 `koanf:"low_volume" json:"low_volume"`
	// HighVolume is the cap for saturated high-traffic restaurants.
	// Default: 0.12.
	HighVolume float64 `koanf:"high_volume" json:"high_volume"`
	// PriceQuality is the cap for expensive restaurants with mediocre
	// ratings. Default: 0.08.
	PriceQuality float64 `koanf:"price_quality" json:"price_quality"`
}

// VolumeCurve describes the review-count saturation bands. Counts
// below LowMax are penalized, counts in [SweetMin, SweetMax] earn the
// volume bonus, counts in (SweetMax, FamousMax] are neutral, and
// counts above FamousMax are penalized unless the record's category is
// in ExemptCategories (the exemption cancels the penalty exactly).
type VolumeCurve struct {
	// LowMax: below this, the rating is statistically untrustworthy.
	// Default: 25.
	LowMax int `koanf:"low_max" json:"low_max"`
	// SweetMin..SweetMax is the discovery sweet spot. Defaults: 50, 500.
	SweetMin int `koanf:"sweet_min" json:"sweet_min"`
	SweetMax int `koanf:"sweet_max" json:"sweet_max"`
	// FamousMax: above this, volume signals tourist saturation.
	// Default: 2000.
	FamousMax int `koanf:"famous_max" json:"famous_max"`
	// ExemptCategories are high-turnover venue categories where large
	// counts are normal (street food, friteries).
	ExemptCategories []string `koanf:"exempt_categories" json:"exempt_categories"`
}

// ScarcityWeights are the sub-weights inside the scarcity signal.
type ScarcityWeights struct {
	// ClosesEarly: median weekday close before the early-close hour.
	// Default: 0.35.
	ClosesEarly float64 `koanf:"closes_early" json:"closes_early"`
	// LimitedDays: open four or fewer days a week. Default: 0.25.
	LimitedDays float64 `koanf:"limited_days" json:"limited_days"`
	// WeekendClosed: closed both Saturday and Sunday. Default: 0.20.
	WeekendClosed float64 `koanf:"weekend_closed" json:"weekend_closed"`
	// RareCuisine: cuisine underrepresented in the surrounding cell.
	// Default: 0.20.
	RareCuisine float64 `koanf:"rare_cuisine" json:"rare_cuisine"`
	// HoursExtreme: very limited weekly hours or regular late-night
	// closing. Default: 0.20.
	HoursExtreme float64 `koanf:"hours_extreme" json:"hours_extreme"`
}

// Sum returns the scarcity sub-weight total.
func (s ScarcityWeights) Sum() float64 {
	return s.ClosesEarly + s.LimitedDays + s.WeekendClosed + s.RareCuisine + s.HoursExtreme
}

// Community configures the community endorsement signal.
type Community struct {
	// StrongMentions and ModerateMentions bucket the mention count
	// into full, partial, and minimal signal. Defaults: 5, 3.
	StrongMentions   int `koanf:"strong_mentions" json:"strong_mentions"`
	ModerateMentions int `koanf:"moderate_mentions" json:"moderate_mentions"`
	// Amplifier boosts the community signal for restaurants whose
	// review count is below SparseReviewMax: community knowledge is
	// most valuable exactly where public review mass is thin.
	// Defaults: 1.5, 200.
	Amplifier       float64 `koanf:"amplifier" json:"amplifier"`
	SparseReviewMax int     `koanf:"sparse_review_max" json:"sparse_review_max"`
}

// Hours configures the operating-hours extremes bonus inside the
// scarcity signal. Both tails of the hours spectrum are rewarded: very
// limited weekly schedules and regular late-night closing. The standard
// all-day middle earns nothing.
type Hours struct {
	// LarkWeeklyMax: positive weekly open hours below this count as a
	// limited artisan schedule. Default: 30.
	LarkWeeklyMax float64 `koanf:"lark_weekly_max" json:"lark_weekly_max"`
	// OwlCloseHour is the past-midnight closing hour (24h clock, 1
	// means 01:00) from which a day counts as late-night service.
	// Default: 1.
	OwlCloseHour int `koanf:"owl_close_hour" json:"owl_close_hour"`
	// OwlDaysMin is the number of late-closing days required for the
	// late-night bonus. Default: 3.
	OwlDaysMin int `koanf:"owl_days_min" json:"owl_days_min"`
	// QualityGate: ratings below this earn no extremes bonus.
	// Default: 4.0.
	QualityGate float64 `koanf:"quality_gate" json:"quality_gate"`
}

// Diaspora configures the authenticity affinity signal.
type Diaspora struct {
	// QualityGate: shrunk ratings below this earn no affinity bonus.
	// Default: 3.5.
	QualityGate float64 `koanf:"quality_gate" json:"quality_gate"`
	// StreetBoost is added to the affinity inside a local street known
	// for the cuisine, capped so the signal stays within [0, 1].
	// Default: 0.3.
	StreetBoost float64 `koanf:"street_boost" json:"street_boost"`
}

// Shrinkage configures the confidence adjustment of raw ratings.
type Shrinkage struct {
	// PriorStrength is the pseudo-review count k in n/(n+k).
	// Default: 50.
	PriorStrength float64 `koanf:"prior_strength" json:"prior_strength"`
	// ColdStartReviewMax: below this review count the cell mean (when
	// available) replaces the global mean as the shrinkage prior.
	// Default: 10.
	ColdStartReviewMax int `koanf:"cold_start_review_max" json:"cold_start_review_max"`
}

// TierThresholds are the inclusive lower score bounds of the top three
// tiers. A score equal to a threshold takes the higher tier; anything
// below Solid is baseline.
type TierThresholds struct {
	// Default: 0.75.
	Exceptional float64 `koanf:"exceptional" json:"exceptional"`
	// Default: 0.60.
	Strong float64 `koanf:"strong" json:"strong"`
	// Default: 0.45.
	Solid float64 `koanf:"solid" json:"solid"`
}

// Value configures the price/quality expansion signals: a small bonus
// for budget places with high ratings and a penalty for expensive
// places with mediocre ones.
type Value struct {
	// BudgetPriceMax and GoodRating bound the value bonus.
	// Defaults: 1, 4.4.
	BudgetPriceMax int     `koanf:"budget_price_max" json:"budget_price_max"`
	GoodRating     float64 `koanf:"good_rating" json:"good_rating"`
	// ExpensivePriceMin and WeakRating bound the price/quality
	// penalty. Defaults: 4, 3.8.
	ExpensivePriceMin int     `koanf:"expensive_price_min" json:"expensive_price_min"`
	WeakRating        float64 `koanf:"weak_rating" json:"weak_rating"`
	// Bonus is the flat value bonus magnitude. Default: 0.03.
	Bonus float64 `koanf:"bonus" json:"bonus"`
}

// Base is the complete local-knowledge configuration for one city.
type Base struct {
	// City names the knowledge base, for logging only.
	City string `koanf:"city" json:"city"`

	Areas        []Area `koanf:"areas" json:"areas"`
	TouristZones []Zone `koanf:"tourist_zones" json:"tourist_zones"`
	LocalStreets []Zone `koanf:"local_streets" json:"local_streets"`

	// Cuisines is the canonical cuisine vocabulary. Labels outside it
	// map to the "other" bucket.
	Cuisines []string `koanf:"cuisines" json:"cuisines"`

	// ChainPatterns are case-insensitive name fragments identifying
	// chains ("mcdonald", "pizza hut").
	ChainPatterns []string `koanf:"chain_patterns" json:"chain_patterns"`

	// FusionPatterns identify modern-concept naming that gates off
	// the diaspora authenticity bonus ("fusion", "atelier").
	FusionPatterns []string `koanf:"fusion_patterns" json:"fusion_patterns"`

	// GuideBonuses maps guide keys to their bonus magnitudes.
	GuideBonuses map[string]float64 `koanf:"guide_bonuses" json:"guide_bonuses"`

	// Affinity maps cuisine -> area name -> authenticity score in
	// [0, 1]. Unlisted pairs score zero.
	Affinity map[string]map[string]float64 `koanf:"affinity" json:"affinity"`

	Weights   Weights         `koanf:"weights" json:"weights"`
	Penalties Penalties       `koanf:"penalties" json:"penalties"`
	Volume    VolumeCurve     `koanf:"volume_curve" json:"volume_curve"`
	Scarcity  ScarcityWeights `koanf:"scarcity_weights" json:"scarcity_weights"`
	Hours     Hours           `koanf:"hours" json:"hours"`
	Community Community       `koanf:"community" json:"community"`
	Diaspora  Diaspora        `koanf:"diaspora" json:"diaspora"`
	Shrinkage Shrinkage       `koanf:"shrinkage" json:"shrinkage"`
	Tiers     TierThresholds  `koanf:"tiers" json:"tiers"`
	Value     Value           `koanf:"value" json:"value"`

	// ZoneQualityGate fills tourist zones that do not set their own
	// QualityGate, at load time. Default: 4.3.
	ZoneQualityGate float64 `koanf:"zone_quality_gate" json:"zone_quality_gate"`

	// CollinearityFactor reduces the tourist proximity penalty when
	// the high-volume penalty already applied, since zone presence and
	// review volume measure overlapping phenomena. Default: 0.5.
	CollinearityFactor float64 `koanf:"collinearity_factor" json:"collinearity_factor"`

	// EarlyCloseHour is the weekday closing hour (24h clock) under
	// which the closes-early scarcity flag trips. Default: 22.
	EarlyCloseHour int `koanf:"early_close_hour" json:"early_close_hour"`

	// RareCuisineShare is the maximum within-cell share under which a
	// cuisine counts as locally rare. Default: 0.05.
	RareCuisineShare float64 `koanf:"rare_cuisine_share" json:"rare_cuisine_share"`

	chainRE  []*regexp.Regexp
	fusionRE []*regexp.Regexp
	cuisines map[string]struct{}
}

// Default returns a structurally valid base with the documented
// defaults and a minimal generic pattern set. City content (areas,
// zones, affinities) comes from the YAML file.
func Default() *Base {
	return &Base{
		City: "unnamed",
		ChainPatterns: []string{
			"mcdonald", "burger king", "subway", "domino",
			"pizza hut", "kfc", "starbucks", "quick",
		},
		FusionPatterns: []string{"fusion", "concept", "atelier", "lab"},
		GuideBonuses: map[string]float64{
			"michelin_star": 0.08,
			"bib_gourmand":  0.05,
			"local_guide":   0.03,
		},
		Weights: Weights{
			BaseQuality:  0.34,
			Residual:     0.18,
			Volume:       0.10,
			Scarcity:     0.12,
			Independence: 0.08,
			Guide:        0.08,
			Community:    0.05,
			Diaspora:     0.05,
		},
		Penalties: Penalties{
			Chain:        0.10,
			TouristTrap:  0.15,
			LowVolume:    0.10,
			HighVolume:   0.12,
			PriceQuality: 0.08,
		},
		Volume: VolumeCurve{
			LowMax:    25,
			SweetMin:  50,
			SweetMax:  500,
			FamousMax: 2000,
		},
		Scarcity: ScarcityWeights{
			ClosesEarly:   0.35,
			LimitedDays:   0.25,
			WeekendClosed: 0.20,
			RareCuisine:   0.20,
			HoursExtreme:  0.20,
		},
		Hours: Hours{
			LarkWeeklyMax: 30,
			OwlCloseHour:  1,
			OwlDaysMin:    3,
			QualityGate:   4.0,
		},
		Community: Community{
			StrongMentions:   5,
			ModerateMentions: 3,
			Amplifier:        1.5,
			SparseReviewMax:  200,
		},
		Diaspora: Diaspora{
			QualityGate: 3.5,
			StreetBoost: 0.3,
		},
		Shrinkage: Shrinkage{
			PriorStrength:      50,
			ColdStartReviewMax: 10,
		},
		Tiers: TierThresholds{
			Exceptional: 0.75,
			Strong:      0.60,
			Solid:       0.45,
		},
		Value: Value{
			BudgetPriceMax:    1,
			GoodRating:        4.4,
			ExpensivePriceMin: 4,
			WeakRating:        3.8,
			Bonus:             0.03,
		},
		ZoneQualityGate:    4.3,
		CollinearityFactor: 0.5,
		EarlyCloseHour:     22,
		RareCuisineShare:   0.05,
	}
}

// Validate checks the base for internal consistency and returns
// ErrConfigInconsistent-wrapped errors for anything a run must not
// start with.
func (b *Base) Validate() error {
	for name, v := range b.Weights.ToMap() {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: weight %s is %v", ErrConfigInconsistent, name, v)
		}
	}
	if b.Weights.Sum() <= 0 {
		return fmt.Errorf("%w: positive weights sum to %v, cannot normalize",
			ErrConfigInconsistent, b.Weights.Sum())
	}
	for name, v := range map[string]float64{
		"chain":         b.Penalties.Chain,
		"tourist_trap":  b.Penalties.TouristTrap,
		"low_volume":    b.Penalties.LowVolume,
		"high_volume":   b.Penalties.HighVolume,
		"price_quality": b.Penalties.PriceQuality,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: penalty %s is %v", ErrConfigInconsistent, name, v)
		}
	}
	vc := b.Volume
	if !(vc.LowMax < vc.SweetMin && vc.SweetMin <= vc.SweetMax && vc.SweetMax < vc.FamousMax) {
		return fmt.Errorf("%w: volume curve bands out of order (%d, %d, %d, %d)",
			ErrConfigInconsistent, vc.LowMax, vc.SweetMin, vc.SweetMax, vc.FamousMax)
	}
	if b.Scarcity.Sum() <= 0 {
		return fmt.Errorf("%w: scarcity sub-weights sum to %v",
			ErrConfigInconsistent, b.Scarcity.Sum())
	}
	t := b.Tiers
	if !(t.Exceptional > t.Strong && t.Strong > t.Solid && t.Solid > 0) {
		return fmt.Errorf("%w: tier thresholds not strictly decreasing (%v, %v, %v)",
			ErrConfigInconsistent, t.Exceptional, t.Strong, t.Solid)
	}
	for _, z := range append(append([]Zone{}, b.TouristZones...), b.LocalStreets...) {
		if z.RadiusKm <= 0 {
			return fmt.Errorf("%w: zone %q has non-positive radius %v",
				ErrConfigInconsistent, z.Name, z.RadiusKm)
		}
	}
	if b.ZoneQualityGate <= 0 || b.ZoneQualityGate > 5 {
		return fmt.Errorf("%w: zone quality gate %v outside (0,5]",
			ErrConfigInconsistent, b.ZoneQualityGate)
	}
	if b.Diaspora.QualityGate < 0 || b.Diaspora.QualityGate > 5 {
		return fmt.Errorf("%w: diaspora quality gate %v outside [0,5]",
			ErrConfigInconsistent, b.Diaspora.QualityGate)
	}
	if b.Diaspora.StreetBoost < 0 || b.Diaspora.StreetBoost > 1 {
		return fmt.Errorf("%w: diaspora street boost %v outside [0,1]",
			ErrConfigInconsistent, b.Diaspora.StreetBoost)
	}
	if b.Hours.LarkWeeklyMax <= 0 {
		return fmt.Errorf("%w: lark weekly hours max %v must be positive",
			ErrConfigInconsistent, b.Hours.LarkWeeklyMax)
	}
	if b.Hours.OwlCloseHour < 0 || b.Hours.OwlCloseHour > 23 {
		return fmt.Errorf("%w: owl close hour %d outside [0,23]",
			ErrConfigInconsistent, b.Hours.OwlCloseHour)
	}
	if b.Hours.OwlDaysMin < 1 {
		return fmt.Errorf("%w: owl days min %d must be at least 1",
			ErrConfigInconsistent, b.Hours.OwlDaysMin)
	}
	if b.CollinearityFactor < 0 || b.CollinearityFactor > 1 {
		return fmt.Errorf("%w: collinearity factor %v outside [0,1]",
			ErrConfigInconsistent, b.CollinearityFactor)
	}
	if b.Shrinkage.PriorStrength <= 0 {
		return fmt.Errorf("%w: shrinkage prior strength %v must be positive",
			ErrConfigInconsistent, b.Shrinkage.PriorStrength)
	}
	for cuisine, areas := range b.Affinity {
		for area, score := range areas {
			if score < 0 || score > 1 {
				return fmt.Errorf("%w: affinity %s/%s score %v outside [0,1]",
					ErrConfigInconsistent, cuisine, area, score)
			}
		}
	}
	return nil
}

// finalize normalizes the weight schedule, fills zone defaults, and
// compiles the lookup structures. Called once by Load after Validate.
func (b *Base) finalize() error {
	b.Weights = b.Weights.Normalize()
	for i := range b.TouristZones {
		if b.TouristZones[i].QualityGate <= 0 {
			b.TouristZones[i].QualityGate = b.ZoneQualityGate
		}
	}
	b.chainRE = b.chainRE[:0]
	for _, p := range b.ChainPatterns {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(p))
		if err != nil {
			return fmt.Errorf("%w: chain pattern %q: %v", ErrConfigInconsistent, p, err)
		}
		b.chainRE = append(b.chainRE, re)
	}
	b.fusionRE = b.fusionRE[:0]
	for _, p := range b.FusionPatterns {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(p))
		if err != nil {
			return fmt.Errorf("%w: fusion pattern %q: %v", ErrConfigInconsistent, p, err)
		}
		b.fusionRE = append(b.fusionRE, re)
	}
	b.cuisines = make(map[string]struct{}, len(b.Cuisines))
	for _, c := range b.Cuisines {
		b.cuisines[strings.ToLower(c)] = struct{}{}
	}
	return nil
}

// IsChain reports whether the name matches a configured chain pattern.
// An empty name matches nothing.
func (b *Base) IsChain(name string) bool {
	for _, re := range b.chainRE {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsFusionConcept reports whether the name matches a modern-concept
// pattern, which gates off the authenticity affinity bonus.
func (b *Base) IsFusionConcept(name string) bool {
	for _, re := range b.fusionRE {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// KnownCuisine reports whether the label is in the configured cuisine
// vocabulary (case-insensitive).
func (b *Base) KnownCuisine(label string) bool {
	_, ok := b.cuisines[strings.ToLower(label)]
	return ok
}

// AffinityFor returns the authenticity affinity for a cuisine in an
// area, zero for unlisted pairs.
func (b *Base) AffinityFor(cuisine, area string) float64 {
	areas, ok := b.Affinity[strings.ToLower(cuisine)]
	if !ok {
		return 0
	}
	return areas[area]
}
