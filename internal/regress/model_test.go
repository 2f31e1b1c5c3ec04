// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package regress

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticRows builds a learnable dataset: the target is a noisy
// piecewise function of two of the three columns.
func syntheticRows(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	targets := make([]float64, n)
	for i := range rows {
		a := rng.Float64() * 10 // review mass proxy
		b := rng.Float64() * 4  // price proxy
		c := rng.Float64()      // irrelevant column
		y := 3.0
		if a > 5 {
			y += 0.8
		}
		if b > 2 {
			y -= 0.4
		}
		y += (rng.Float64() - 0.5) * 0.1
		rows[i] = []float64{a, b, c}
		targets[i] = y
	}
	return rows, targets
}

func TestFitRejectsSmallTrainingSets(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(cfg.MinTrainingRows-1, 1)

	_, err := Fit(context.Background(), cfg, rows, targets)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientTrainingData)
}

func TestFitLearnsStructure(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(400, 7)

	m, err := Fit(context.Background(), cfg, rows, targets)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rounds, m.Rounds())

	// Model error should be well under the spread of a mean-only
	// predictor.
	var base float64
	for _, y := range targets {
		base += y
	}
	base /= float64(len(targets))

	var sseModel, sseMean float64
	for i, r := range rows {
		dm := targets[i] - m.Predict(r)
		db := targets[i] - base
		sseModel += dm * dm
		sseMean += db * db
	}
	assert.Less(t, sseModel, sseMean*0.5)
}

func TestPredictIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(200, 11)

	m1, err := Fit(context.Background(), cfg, rows, targets)
	require.NoError(t, err)
	m2, err := Fit(context.Background(), cfg, rows, targets)
	require.NoError(t, err)

	probe := []float64{6.3, 1.1, 0.4}
	assert.Equal(t, m1.Predict(probe), m2.Predict(probe),
		"same data must fit the same model")
	assert.Equal(t, m1.Predict(probe), m1.Predict(probe))
}

func TestFitIndependentOfRowOrder(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(200, 17)

	shufRows := make([][]float64, len(rows))
	shufTargets := make([]float64, len(targets))
	perm := rand.New(rand.NewSource(23)).Perm(len(rows))
	for i, j := range perm {
		shufRows[j] = rows[i]
		shufTargets[j] = targets[i]
	}

	m1, err := Fit(context.Background(), cfg, rows, targets)
	require.NoError(t, err)
	m2, err := Fit(context.Background(), cfg, shufRows, shufTargets)
	require.NoError(t, err)

	probes, _ := syntheticRows(20, 29)
	for _, p := range probes {
		assert.Equal(t, m1.Predict(p), m2.Predict(p),
			"training-set row order must not change predictions")
	}
}

func TestFitHonorsContextCancellation(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(200, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fit(ctx, cfg, rows, targets)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitRejectsRaggedRows(t *testing.T) {
	cfg := DefaultConfig()
	rows, targets := syntheticRows(50, 5)
	rows[10] = []float64{1.0}

	_, err := Fit(context.Background(), cfg, rows, targets)
	require.Error(t, err)
}

func TestResidualClamp(t *testing.T) {
	tests := []struct {
		actual, predicted, want float64
	}{
		{4.8, 4.0, 0.8},
		{2.0, 4.0, -2.0},
		{5.0, 0.5, 2.0},
		{0.0, 5.0, -2.0},
		{3.0, 3.0, 0.0},
	}
	for _, tt := range tests {
		got := Residual(tt.actual, tt.predicted)
		assert.InDelta(t, tt.want, got, 1e-12, "residual(%v, %v)", tt.actual, tt.predicted)
		assert.LessOrEqual(t, math.Abs(got), 2.0)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rounds", func(c *Config) { c.Rounds = 0 }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"learning rate above one", func(c *Config) { c.LearningRate = 1.5 }},
		{"zero leaf size", func(c *Config) { c.MinSamplesLeaf = 0 }},
		{"zero training floor", func(c *Config) { c.MinTrainingRows = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}
