// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("ok"))
	ObserveRun("ok", 250*time.Millisecond)
	after := testutil.ToFloat64(RunsTotal.WithLabelValues("ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(RecordsScored)
	RecordsScored.Add(5)
	assert.Equal(t, before+5, testutil.ToFloat64(RecordsScored))

	beforeRejected := testutil.ToFloat64(RecordsRejected.WithLabelValues("validation"))
	RecordsRejected.WithLabelValues("validation").Inc()
	assert.Equal(t, beforeRejected+1,
		testutil.ToFloat64(RecordsRejected.WithLabelValues("validation")))
}

func TestGauges(t *testing.T) {
	TrainingRows.Set(420)
	assert.Equal(t, 420.0, testutil.ToFloat64(TrainingRows))

	CellsAggregated.Set(37)
	assert.Equal(t, 37.0, testutil.ToFloat64(CellsAggregated))
}

func TestTierAssignments(t *testing.T) {
	before := testutil.ToFloat64(TierAssignments.WithLabelValues("exceptional"))
	TierAssignments.WithLabelValues("exceptional").Inc()
	assert.Equal(t, before+1,
		testutil.ToFloat64(TierAssignments.WithLabelValues("exceptional")))
}
