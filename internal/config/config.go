// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package config loads the engine runtime configuration: defaults
// from a struct, layered under an optional YAML file, layered under
// GASTROCARTA_* environment variables. The curated knowledge base is
// a separate file owned by package knowledge; this configuration only
// points at it.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/gastrocarta/gastrocarta/internal/regress"
	"github.com/gastrocarta/gastrocarta/internal/spatial"
)

// envPrefix is the environment override prefix:
// GASTROCARTA_PIPELINE_WORKERS=8 sets pipeline.workers.
const envPrefix = "GASTROCARTA_"

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error. Default: info.
	Level string `koanf:"level" json:"level"`
	// Format: json or console. Default: json.
	Format string `koanf:"format" json:"format"`
}

// SpatialConfig controls cell assignment and clustering.
type SpatialConfig struct {
	// Resolution is the H3 resolution. Default: 8.
	Resolution int `koanf:"resolution" json:"resolution"`

	Cluster spatial.ClusterConfig `koanf:"cluster" json:"cluster"`
}

// PipelineConfig controls batch execution.
type PipelineConfig struct {
	// Workers is the scoring worker count; 0 means GOMAXPROCS.
	// Default: 0.
	Workers int `koanf:"workers" json:"workers"`

	// MinReviewsForTraining excludes thin records from model fitting
	// (they are still scored). Default: 10.
	MinReviewsForTraining int `koanf:"min_reviews_for_training" json:"min_reviews_for_training"`
}

// Config is the engine runtime configuration.
type Config struct {
	Logging LoggingConfig `koanf:"logging" json:"logging"`

	// KnowledgePath locates the knowledge base YAML.
	KnowledgePath string `koanf:"knowledge_path" json:"knowledge_path"`

	Model    regress.Config `koanf:"model" json:"model"`
	Spatial  SpatialConfig  `koanf:"spatial" json:"spatial"`
	Pipeline PipelineConfig `koanf:"pipeline" json:"pipeline"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Model:   regress.DefaultConfig(),
		Spatial: SpatialConfig{
			Resolution: spatial.DefaultResolution,
			Cluster:    spatial.DefaultClusterConfig(),
		},
		Pipeline: PipelineConfig{
			Workers:               0,
			MinReviewsForTraining: 10,
		},
	}
}

// Validate checks the runtime configuration.
func (c *Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if c.Spatial.Resolution < 0 || c.Spatial.Resolution > 15 {
		return fmt.Errorf("spatial resolution %d outside H3 range [0,15]", c.Spatial.Resolution)
	}
	if c.Spatial.Cluster.K <= 0 {
		return fmt.Errorf("cluster count must be positive, got %d", c.Spatial.Cluster.K)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.MinReviewsForTraining < 0 {
		return fmt.Errorf("min reviews for training must be non-negative, got %d",
			c.Pipeline.MinReviewsForTraining)
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file
// (empty path skips the file layer), and environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps GASTROCARTA_PIPELINE_WORKERS to pipeline.workers: the
// first underscore separates the section, the rest stay as the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}
