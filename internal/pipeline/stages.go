// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gastrocarta/gastrocarta/internal/feature"
	"github.com/gastrocarta/gastrocarta/internal/metrics"
	"github.com/gastrocarta/gastrocarta/internal/model"
	"github.com/gastrocarta/gastrocarta/internal/regress"
	"github.com/gastrocarta/gastrocarta/internal/scoring"
	"github.com/gastrocarta/gastrocarta/internal/spatial"
)

// validateAndAssign filters the batch down to well-formed records and
// assigns each its H3 cell. Every rejection lands in res.RecordErrors
// exactly once, tagged with the record's identifier.
func (e *Engine) validateAndAssign(records []*model.Restaurant, res *Result) ([]*model.Restaurant, map[string]string) {
	valid := make([]*model.Restaurant, 0, len(records))
	cellIDs := make(map[string]string, len(records))

	for _, rec := range records {
		if err := e.validator.Validate(rec); err != nil {
			if re, ok := err.(*model.RecordError); ok {
				res.RecordErrors = append(res.RecordErrors, re)
			} else {
				res.RecordErrors = append(res.RecordErrors, model.NewRecordError("", err))
			}
			metrics.RecordsRejected.WithLabelValues("validation").Inc()
			e.logger.Warn().Err(err).Msg("Record rejected")
			continue
		}
		cell, err := spatial.CellID(rec.Location.Lat, rec.Location.Lng, e.cfg.Spatial.Resolution)
		if err != nil {
			res.RecordErrors = append(res.RecordErrors, model.NewRecordError(rec.ID, err))
			metrics.RecordsRejected.WithLabelValues("cell_assignment").Inc()
			e.logger.Warn().Err(err).Str("restaurant_id", rec.ID).Msg("Cell assignment failed")
			continue
		}
		cellIDs[rec.ID] = cell
		valid = append(valid, rec)
	}
	return valid, cellIDs
}

// fit trains the expected-rating model on records with enough review
// mass to carry a trustworthy target. Too few eligible rows is a run
// failure, never a silent fallback.
func (e *Engine) fit(ctx context.Context, records []*model.Restaurant, vectors []feature.Vector) (*regress.Model, int, error) {
	var rows [][]float64
	var targets []float64
	for i := range records {
		if vectors[i].ReviewCount < e.cfg.Pipeline.MinReviewsForTraining {
			continue
		}
		rows = append(rows, e.schema.Row(vectors[i]))
		targets = append(targets, vectors[i].Rating)
	}

	start := time.Now()
	mdl, err := regress.Fit(ctx, e.cfg.Model, rows, targets)
	if err != nil {
		return nil, 0, fmt.Errorf("fitting expected-rating model: %w", err)
	}
	elapsed := time.Since(start)
	metrics.TrainingDuration.Observe(elapsed.Seconds())
	metrics.TrainingRows.Set(float64(len(rows)))
	e.logger.Info().
		Int("rows", len(rows)).
		Int("rounds", mdl.Rounds()).
		Dur("elapsed", elapsed).
		Msg("Model trained")
	return mdl, len(rows), nil
}

// scoreAll fans scoring out over a worker pool. Workers only read the
// shared state and write disjoint result slots, so the output is
// independent of worker count and scheduling.
func (e *Engine) scoreAll(ctx context.Context, records []*model.Restaurant, vectors []feature.Vector,
	residuals map[string]float64, cells map[string]*spatial.CellStats, globalMean float64) ([]scoring.Breakdown, error) {

	workers := e.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		return nil, nil
	}

	out := make([]scoring.Breakdown, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := records[i]
				out[i] = e.scorer.Score(scoring.Input{
					Record:           rec,
					Vector:           vectors[i],
					Residual:         residuals[rec.ID],
					Cell:             cells[vectors[i].CellID],
					GlobalMeanRating: globalMean,
				})
			}
		}()
	}

feed:
	for i := range records {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}
	return out, nil
}
