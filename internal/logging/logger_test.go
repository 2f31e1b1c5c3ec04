// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestInitAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	l := Component("pipeline")
	l.Info().Str("run_id", "abc").Msg("Run started")

	out := buf.String()
	assert.Contains(t, out, `"component":"pipeline"`)
	assert.Contains(t, out, `"run_id":"abc"`)
	assert.Contains(t, out, "Run started")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("suppressed")
	Warn().Msg("emitted")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "emitted")
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.Info().Msg("captured")
	assert.True(t, strings.Contains(buf.String(), "captured"))
}
