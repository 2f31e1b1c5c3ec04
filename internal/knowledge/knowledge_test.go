// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package knowledge

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBaseIsValid(t *testing.T) {
	base, err := Finish(Default())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, base.Weights.Sum(), 1e-9,
		"weights must sum to 1.0 after load")
}

func TestNormalizeSumsToOne(t *testing.T) {
	w := Weights{
		BaseQuality: 3, Residual: 2, Volume: 1, Scarcity: 1,
		Independence: 1, Guide: 1, Community: 0.5, Diaspora: 0.5,
	}
	n := w.Normalize()
	assert.InDelta(t, 1.0, n.Sum(), 1e-12)
	// Relative magnitudes survive normalization.
	assert.InDelta(t, 1.5, n.BaseQuality/n.Residual, 1e-12)
}

func TestValidateRejectsInconsistentConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Base)
	}{
		{"negative weight", func(b *Base) { b.Weights.Guide = -0.1 }},
		{"nan weight", func(b *Base) { b.Weights.Residual = math.NaN() }},
		{"zero weight sum", func(b *Base) { b.Weights = Weights{} }},
		{"negative penalty", func(b *Base) { b.Penalties.Chain = -0.2 }},
		{"volume bands out of order", func(b *Base) { b.Volume.SweetMin = 10 }},
		{"tiers not decreasing", func(b *Base) { b.Tiers.Strong = 0.80 }},
		{"tier threshold below zero", func(b *Base) { b.Tiers.Solid = 0 }},
		{"zero scarcity sub-weights", func(b *Base) { b.Scarcity = ScarcityWeights{} }},
		{"non-positive zone radius", func(b *Base) {
			b.TouristZones = []Zone{{Name: "grand-place", Lat: 50.8467, Lng: 4.3525}}
		}},
		{"collinearity factor above one", func(b *Base) { b.CollinearityFactor = 1.5 }},
		{"zone quality gate above scale", func(b *Base) { b.ZoneQualityGate = 5.5 }},
		{"diaspora street boost above one", func(b *Base) { b.Diaspora.StreetBoost = 1.2 }},
		{"negative diaspora gate", func(b *Base) { b.Diaspora.QualityGate = -0.1 }},
		{"zero lark weekly max", func(b *Base) { b.Hours.LarkWeeklyMax = 0 }},
		{"owl close hour out of range", func(b *Base) { b.Hours.OwlCloseHour = 24 }},
		{"zero owl days min", func(b *Base) { b.Hours.OwlDaysMin = 0 }},
		{"zero prior strength", func(b *Base) { b.Shrinkage.PriorStrength = 0 }},
		{"affinity score above one", func(b *Base) {
			b.Affinity = map[string]map[string]float64{"ethiopian": {"matonge": 1.2}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := Default()
			tt.mutate(base)
			_, err := Finish(base)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigInconsistent)
		})
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	content := []byte(`
city: brussels
cuisines: [belgian, ethiopian, congolese, vietnamese]
tourist_zones:
  - name: grand-place
    lat: 50.8467
    lng: 4.3525
    radius_km: 0.4
    quality_gate: 4.3
affinity:
  congolese:
    matonge: 0.9
weights:
  base_quality: 0.50
  residual: 0.50
  volume: 0
  scarcity: 0
  independence: 0
  guide: 0
  community: 0
  diaspora: 0
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	base, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "brussels", base.City)
	assert.True(t, base.KnownCuisine("Ethiopian"))
	assert.False(t, base.KnownCuisine("martian"))
	assert.InDelta(t, 0.5, base.Weights.BaseQuality, 1e-9)
	assert.InDelta(t, 1.0, base.Weights.Sum(), 1e-9)
	// Defaults survive where the file is silent.
	assert.Equal(t, 2000, base.Volume.FamousMax)
	assert.InDelta(t, 0.9, base.AffinityFor("congolese", "matonge"), 1e-9)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestChainAndFusionPatterns(t *testing.T) {
	base, err := Finish(Default())
	require.NoError(t, err)

	assert.True(t, base.IsChain("McDonald's Gare du Midi"))
	assert.True(t, base.IsChain("PIZZA HUT Louise"))
	assert.False(t, base.IsChain("Chez Nadia"))
	assert.False(t, base.IsChain(""))

	assert.True(t, base.IsFusionConcept("Saigon Fusion Lab"))
	assert.False(t, base.IsFusionConcept("Pho 14"))
}

func TestZoneQualityGateDefaulting(t *testing.T) {
	base := Default()
	base.TouristZones = []Zone{
		{Name: "grand-place", Lat: 50.8467, Lng: 4.3525, RadiusKm: 0.4},
		{Name: "sablon", Lat: 50.8400, Lng: 4.3560, RadiusKm: 0.3, QualityGate: 4.5},
	}
	base, err := Finish(base)
	require.NoError(t, err)

	assert.InDelta(t, base.ZoneQualityGate, base.TouristZones[0].QualityGate, 1e-12,
		"unset zone gate inherits the base default")
	assert.InDelta(t, 4.5, base.TouristZones[1].QualityGate, 1e-12,
		"explicit zone gate survives")
}

func TestHaversine(t *testing.T) {
	// Grand-Place to the Atomium is a little over 5 km.
	d := Haversine(50.8467, 4.3525, 50.8950, 4.3416)
	assert.InDelta(t, 5.4, d, 0.3)

	assert.InDelta(t, 0, Haversine(50.85, 4.35, 50.85, 4.35), 1e-9)
}

func TestZoneLookups(t *testing.T) {
	base := Default()
	base.TouristZones = []Zone{
		{Name: "grand-place", Lat: 50.8467, Lng: 4.3525, RadiusKm: 0.4, QualityGate: 4.3},
		{Name: "sainte-catherine", Lat: 50.8507, Lng: 4.3477, RadiusKm: 0.3, QualityGate: 4.3},
	}
	base.Areas = []Area{
		{Name: "center", Lat: 50.8467, Lng: 4.3525, Tier: "tourist_heavy"},
		{Name: "matonge", Lat: 50.8336, Lng: 4.3633, Tier: "diaspora_hub"},
	}
	base, err := Finish(base)
	require.NoError(t, err)

	hits := base.TouristZonesAt(50.8470, 4.3530)
	require.NotEmpty(t, hits)
	assert.Equal(t, "grand-place", hits[0].Zone.Name)

	assert.Empty(t, base.TouristZonesAt(50.90, 4.40), "far point hits no zone")

	area := base.NearestArea(50.8340, 4.3630)
	require.NotNil(t, area)
	assert.Equal(t, "matonge", area.Name)
}
