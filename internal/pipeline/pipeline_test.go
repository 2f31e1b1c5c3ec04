// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastrocarta/gastrocarta/internal/config"
	"github.com/gastrocarta/gastrocarta/internal/knowledge"
	"github.com/gastrocarta/gastrocarta/internal/model"
	"github.com/gastrocarta/gastrocarta/internal/regress"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Model.Rounds = 20
	cfg.Model.MinSamplesLeaf = 5
	cfg.Pipeline.Workers = 3
	return cfg
}

func testKB(t *testing.T) *knowledge.Base {
	t.Helper()
	base := knowledge.Default()
	base.City = "brussels"
	base.Cuisines = []string{"belgian", "ethiopian", "congolese", "vietnamese", "italian"}
	base.TouristZones = []knowledge.Zone{
		{Name: "grand-place", Lat: 50.8467, Lng: 4.3525, RadiusKm: 0.4, QualityGate: 4.3},
	}
	base, err := knowledge.Finish(base)
	require.NoError(t, err)
	return base
}

func ptr[T any](v T) *T { return &v }

// testBatch builds a deterministic batch scattered across the city
// with mixed cuisines, prices, and review masses.
func testBatch(n int) []*model.Restaurant {
	rng := rand.New(rand.NewSource(99))
	cuisines := []string{"belgian", "ethiopian", "congolese", "vietnamese", "italian"}
	records := make([]*model.Restaurant, n)
	for i := range records {
		records[i] = &model.Restaurant{
			ID:   fmt.Sprintf("r-%03d", i),
			Name: fmt.Sprintf("Resto %d", i),
			Location: &model.Coordinates{
				Lat: 50.80 + rng.Float64()*0.08,
				Lng: 4.30 + rng.Float64()*0.10,
			},
			Cuisine:     cuisines[i%len(cuisines)],
			VenueType:   "restaurant",
			PriceLevel:  1 + i%4,
			Rating:      ptr(3.0 + rng.Float64()*2.0),
			ReviewCount: ptr(15 + rng.Intn(600)),
		}
	}
	return records
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testConfig(), testKB(t), zerolog.Nop())
	require.NoError(t, err)
	return e
}

func TestRunScoresWholeBatch(t *testing.T) {
	e := newTestEngine(t)
	records := testBatch(60)

	res, err := e.Run(context.Background(), records)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Scores, 60)
	assert.Empty(t, res.RecordErrors)
	assert.Equal(t, 60, res.Stats.TotalRecords)
	assert.Equal(t, 60, res.Stats.ScoredRecords)
	assert.Positive(t, res.Stats.TrainingRows)
	assert.NotEmpty(t, res.Cells)
	assert.Len(t, res.Clusters, len(res.Cells))

	for _, bd := range res.Scores {
		assert.GreaterOrEqual(t, bd.Score, 0.0)
		assert.LessOrEqual(t, bd.Score, 1.0)
		assert.NotEmpty(t, bd.Components)
	}

	// Sorted best first.
	for i := 1; i < len(res.Scores); i++ {
		assert.GreaterOrEqual(t, res.Scores[i-1].Score, res.Scores[i].Score)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	records := testBatch(60)

	r1, err := newTestEngine(t).Run(context.Background(), records)
	require.NoError(t, err)
	r2, err := newTestEngine(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, r2.Scores, len(r1.Scores))
	for i := range r1.Scores {
		assert.Equal(t, r1.Scores[i].RestaurantID, r2.Scores[i].RestaurantID)
		assert.Equal(t, r1.Scores[i].Score, r2.Scores[i].Score)
		assert.Equal(t, r1.Scores[i].Components, r2.Scores[i].Components)
	}
	assert.Equal(t, r1.Clusters, r2.Clusters)
}

func TestRunIsolatesMalformedRecords(t *testing.T) {
	e := newTestEngine(t)
	records := testBatch(60)
	records[7].Location = nil
	records[23].Rating = ptr(9.9)

	res, err := e.Run(context.Background(), records)
	require.NoError(t, err, "malformed records never abort the batch")

	require.Len(t, res.RecordErrors, 2)
	ids := []string{res.RecordErrors[0].RestaurantID, res.RecordErrors[1].RestaurantID}
	assert.Contains(t, ids, "r-007")
	assert.Contains(t, ids, "r-023")

	assert.Len(t, res.Scores, 58)
	for _, bd := range res.Scores {
		assert.NotEqual(t, "r-007", bd.RestaurantID)
		assert.NotEqual(t, "r-023", bd.RestaurantID)
	}
}

func TestRunFailsFastOnInsufficientTrainingData(t *testing.T) {
	e := newTestEngine(t)
	records := testBatch(10) // below the 30-row training floor

	_, err := e.Run(context.Background(), records)
	require.Error(t, err)
	assert.ErrorIs(t, err, regress.ErrInsufficientTrainingData)
}

func TestRunHonorsCancellation(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, testBatch(60))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsBadWiring(t *testing.T) {
	kb := testKB(t)

	_, err := New(nil, kb, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(testConfig(), nil, zerolog.Nop())
	assert.Error(t, err)

	bad := testConfig()
	bad.Model.Rounds = -1
	_, err = New(bad, kb, zerolog.Nop())
	assert.Error(t, err)
}
