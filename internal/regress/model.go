// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package regress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInsufficientTrainingData marks a training set too small to fit a
// trustworthy model. The run fails fast; there is no silent fallback
// to an untrained predictor.
var ErrInsufficientTrainingData = errors.New("insufficient training data")

// Config holds the boosting hyperparameters.
type Config struct {
	// Rounds is the number of boosting iterations. Default: 100.
	Rounds int `koanf:"rounds" json:"rounds"`

	// MaxDepth limits each tree. Default: 4.
	MaxDepth int `koanf:"max_depth" json:"max_depth"`

	// LearningRate shrinks each tree's contribution. Default: 0.1.
	LearningRate float64 `koanf:"learning_rate" json:"learning_rate"`

	// MinSamplesLeaf is the smallest admissible leaf. Default: 20.
	MinSamplesLeaf int `koanf:"min_samples_leaf" json:"min_samples_leaf"`

	// MinTrainingRows is the smallest admissible training set; fewer
	// eligible rows is ErrInsufficientTrainingData. Default: 30.
	MinTrainingRows int `koanf:"min_training_rows" json:"min_training_rows"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Rounds:          100,
		MaxDepth:        4,
		LearningRate:    0.1,
		MinSamplesLeaf:  20,
		MinTrainingRows: 30,
	}
}

// Validate checks the hyperparameters.
func (c Config) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %v", c.LearningRate)
	}
	if c.MinSamplesLeaf <= 0 {
		return fmt.Errorf("min samples leaf must be positive, got %d", c.MinSamplesLeaf)
	}
	if c.MinTrainingRows <= 0 {
		return fmt.Errorf("min training rows must be positive, got %d", c.MinTrainingRows)
	}
	return nil
}

// residualBand is the clamp applied to actual-minus-expected before
// the residual feeds the context score, so one wild outlier cannot
// dominate.
const residualBand = 2.0

// Model is a fitted gradient-boosted regressor. It is immutable after
// Fit and safe for concurrent prediction.
type Model struct {
	cfg   Config
	base  float64
	trees []*node
	width int
}

// Fit trains the model on dense feature rows against rating targets.
// Rows and targets must be parallel; rows must all share one width.
// The context is checked between boosting rounds.
func Fit(ctx context.Context, cfg Config, rows [][]float64, targets []float64) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if len(rows) != len(targets) {
		return nil, fmt.Errorf("rows/targets length mismatch: %d vs %d", len(rows), len(targets))
	}
	if len(rows) < cfg.MinTrainingRows {
		return nil, fmt.Errorf("%w: %d rows < %d required",
			ErrInsufficientTrainingData, len(rows), cfg.MinTrainingRows)
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("row %d width %d, want %d", i, len(r), width)
		}
	}

	m := &Model{cfg: cfg, width: width}

	// Canonical processing order: rows sorted by content, then target.
	// Every float accumulation below follows this order, so the fit is
	// bit-identical no matter how the caller ordered the training set.
	idx := make([]int, len(targets))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := rows[idx[a]], rows[idx[b]]
		for j := range ra {
			if ra[j] != rb[j] {
				return ra[j] < rb[j]
			}
		}
		return targets[idx[a]] < targets[idx[b]]
	})

	// Base prediction is the target mean; trees fit the leftovers.
	var sum float64
	for _, i := range idx {
		sum += targets[i]
	}
	m.base = sum / float64(len(targets))

	pred := make([]float64, len(targets))
	for i := range pred {
		pred[i] = m.base
	}
	grad := make([]float64, len(targets))

	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled at round %d: %w", round, err)
		}
		for i := range grad {
			grad[i] = targets[i] - pred[i]
		}
		tree := buildTree(rows, grad, idx, 0, cfg.MaxDepth, cfg.MinSamplesLeaf)
		m.trees = append(m.trees, tree)
		for i := range pred {
			pred[i] += cfg.LearningRate * tree.predict(rows[i])
		}
	}
	return m, nil
}

// Predict returns the expected rating for a feature row. Identical
// rows always produce identical predictions.
func (m *Model) Predict(row []float64) float64 {
	p := m.base
	for _, t := range m.trees {
		p += m.cfg.LearningRate * t.predict(row)
	}
	return p
}

// Rounds reports the number of fitted trees.
func (m *Model) Rounds() int { return len(m.trees) }

// Residual returns actual minus predicted, clamped to the fixed
// [-2, +2] band.
func Residual(actual, predicted float64) float64 {
	r := actual - predicted
	return math.Max(-residualBand, math.Min(residualBand, r))
}
