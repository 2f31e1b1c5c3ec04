// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gastrocarta/gastrocarta/internal/config"
	"github.com/gastrocarta/gastrocarta/internal/feature"
	"github.com/gastrocarta/gastrocarta/internal/knowledge"
	"github.com/gastrocarta/gastrocarta/internal/metrics"
	"github.com/gastrocarta/gastrocarta/internal/model"
	"github.com/gastrocarta/gastrocarta/internal/regress"
	"github.com/gastrocarta/gastrocarta/internal/scoring"
	"github.com/gastrocarta/gastrocarta/internal/spatial"
)

// RunStats summarizes one pipeline run.
type RunStats struct {
	TotalRecords     int           `json:"total_records"`
	ScoredRecords    int           `json:"scored_records"`
	RejectedRecords  int           `json:"rejected_records"`
	TrainingRows     int           `json:"training_rows"`
	CellCount        int           `json:"cell_count"`
	GlobalMeanRating float64       `json:"global_mean_rating"`
	TrainDuration    time.Duration `json:"train_duration_ns"`
	ScoreDuration    time.Duration `json:"score_duration_ns"`
}

// Result is the complete output of one run.
type Result struct {
	RunID string `json:"run_id"`

	// Scores are the per-restaurant breakdowns, best score first.
	Scores []scoring.Breakdown `json:"scores"`

	// Cells are the per-cell aggregates keyed by H3 cell id.
	Cells map[string]*spatial.CellStats `json:"cells"`

	// Clusters maps cell id to its neighborhood cluster label.
	Clusters map[string]string `json:"clusters"`

	// RecordErrors lists every rejected record with its reason.
	RecordErrors []*model.RecordError `json:"record_errors"`

	Stats RunStats `json:"stats"`
}

// Engine runs ranking batches against one configuration and knowledge
// base. It is safe for sequential reuse across batches.
type Engine struct {
	cfg       *config.Config
	kb        *knowledge.Base
	validator *model.Validator
	builder   *feature.Builder
	schema    *feature.Schema
	scorer    *scoring.Scorer
	logger    zerolog.Logger
}

// New wires an Engine from a validated configuration and a finalized
// knowledge base.
func New(cfg *config.Config, kb *knowledge.Base, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if kb == nil {
		return nil, fmt.Errorf("nil knowledge base")
	}
	l := logger.With().Str("component", "pipeline").Logger()
	return &Engine{
		cfg:       cfg,
		kb:        kb,
		validator: model.NewValidator(),
		builder:   feature.NewBuilder(kb),
		schema:    feature.NewSchema(kb),
		scorer:    scoring.NewScorer(kb, logger),
		logger:    l,
	}, nil
}

// Run executes the full pipeline over a batch of records.
//
// Malformed records are excluded and reported in Result.RecordErrors;
// an untrainable model (too few eligible rows) fails the run with
// regress.ErrInsufficientTrainingData.
func (e *Engine) Run(ctx context.Context, records []*model.Restaurant) (*Result, error) {
	started := time.Now()
	res := &Result{
		RunID:    uuid.NewString(),
		Clusters: map[string]string{},
	}
	log := e.logger.With().Str("run_id", res.RunID).Logger()
	log.Info().Int("records", len(records)).Str("city", e.kb.City).Msg("Run started")

	valid, cellIDs := e.validateAndAssign(records, res)
	res.Stats.TotalRecords = len(records)
	res.Stats.RejectedRecords = len(res.RecordErrors)

	// Feature pass one: record-local features.
	vectors := make([]feature.Vector, len(valid))
	for i, rec := range valid {
		vectors[i] = e.builder.Build(rec)
		vectors[i].CellID = cellIDs[rec.ID]
	}

	var meanSum float64
	for i := range vectors {
		meanSum += vectors[i].Rating
	}
	if len(valid) > 0 {
		res.Stats.GlobalMeanRating = meanSum / float64(len(valid))
	}

	// Spatial pass one: aggregates without residuals feed the model
	// features; residual-inclusive aggregates are rebuilt afterward.
	cells := spatial.Aggregate(vectors, nil)
	spatial.Annotate(vectors, cells)

	mdl, trainRows, err := e.fit(ctx, valid, vectors)
	if err != nil {
		metrics.ObserveRun("error", time.Since(started))
		return nil, err
	}
	res.Stats.TrainingRows = trainRows

	// Residuals for every scored record, including those excluded
	// from training.
	residuals := make(map[string]float64, len(valid))
	for i, rec := range valid {
		pred := mdl.Predict(e.schema.Row(vectors[i]))
		residuals[rec.ID] = regress.Residual(vectors[i].Rating, pred)
	}

	cells = spatial.Aggregate(vectors, residuals)
	res.Cells = cells
	res.Stats.CellCount = len(cells)
	metrics.CellsAggregated.Set(float64(len(cells)))

	clusters, err := spatial.Cluster(cells, e.cfg.Spatial.Cluster)
	if err != nil {
		metrics.ObserveRun("error", time.Since(started))
		return nil, fmt.Errorf("clustering cells: %w", err)
	}
	res.Clusters = clusters

	scoreStart := time.Now()
	scores, err := e.scoreAll(ctx, valid, vectors, residuals, cells, res.Stats.GlobalMeanRating)
	if err != nil {
		metrics.ObserveRun("error", time.Since(started))
		return nil, err
	}
	res.Scores = scores
	res.Stats.ScoreDuration = time.Since(scoreStart)
	res.Stats.ScoredRecords = len(res.Scores)
	metrics.ScoringDuration.Observe(res.Stats.ScoreDuration.Seconds())
	metrics.RecordsScored.Add(float64(len(res.Scores)))
	for _, bd := range res.Scores {
		metrics.TierAssignments.WithLabelValues(bd.Tier.String()).Inc()
	}

	// Best first; ties break on id so ordering is reproducible.
	sort.SliceStable(res.Scores, func(a, b int) bool {
		if res.Scores[a].Score != res.Scores[b].Score {
			return res.Scores[a].Score > res.Scores[b].Score
		}
		return res.Scores[a].RestaurantID < res.Scores[b].RestaurantID
	})

	metrics.ObserveRun("ok", time.Since(started))
	log.Info().
		Int("scored", res.Stats.ScoredRecords).
		Int("rejected", res.Stats.RejectedRecords).
		Int("cells", res.Stats.CellCount).
		Dur("elapsed", time.Since(started)).
		Msg("Run complete")
	return res, nil
}
