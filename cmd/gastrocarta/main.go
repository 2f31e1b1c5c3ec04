// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

// Package main is the batch driver for the Gastrocarta ranking
// engine.
//
// The driver owns all I/O: it reads restaurant records from a JSON
// file, loads the runtime configuration and the city knowledge base,
// runs one pipeline batch, and writes the full result (scores,
// breakdowns, cells, clusters, record errors) as JSON. The engine
// core performs no I/O of its own.
//
// # Usage
//
//	gastrocarta -records records.json -knowledge brussels.yaml -out result.json
//
// Flags:
//
//	-config     optional engine config YAML (defaults apply without it)
//	-records    input records JSON (array of restaurant objects)
//	-knowledge  city knowledge base YAML
//	-out        result JSON path; "-" writes to stdout
//	-metrics    optional listen address for Prometheus /metrics
//
// Configuration layers (highest priority wins): GASTROCARTA_*
// environment variables, the -config file, built-in defaults.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gastrocarta/gastrocarta/internal/config"
	"github.com/gastrocarta/gastrocarta/internal/knowledge"
	"github.com/gastrocarta/gastrocarta/internal/logging"
	"github.com/gastrocarta/gastrocarta/internal/model"
	"github.com/gastrocarta/gastrocarta/internal/pipeline"
)

func main() {
	var (
		configPath    = flag.String("config", "", "engine config YAML (optional)")
		recordsPath   = flag.String("records", "", "input records JSON")
		knowledgePath = flag.String("knowledge", "", "city knowledge base YAML")
		outPath       = flag.String("out", "-", "result JSON path, - for stdout")
		metricsAddr   = flag.String("metrics", "", "Prometheus listen address (optional)")
	)
	flag.Parse()

	if err := run(*configPath, *recordsPath, *knowledgePath, *outPath, *metricsAddr); err != nil {
		logging.Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func run(configPath, recordsPath, knowledgePath, outPath, metricsAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logging.Component("driver")

	if knowledgePath == "" {
		knowledgePath = cfg.KnowledgePath
	}
	if knowledgePath == "" {
		return fmt.Errorf("no knowledge base: pass -knowledge or set knowledge_path")
	}
	if recordsPath == "" {
		return fmt.Errorf("no input: pass -records")
	}

	kb, err := knowledge.Load(knowledgePath)
	if err != nil {
		return err
	}
	log.Info().Str("city", kb.City).Str("path", knowledgePath).Msg("Knowledge base loaded")

	records, err := readRecords(recordsPath)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("Metrics exposed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := pipeline.New(cfg, kb, logging.Logger())
	if err != nil {
		return err
	}
	result, err := engine.Run(ctx, records)
	if err != nil {
		return err
	}
	return writeResult(outPath, result)
}

func readRecords(path string) ([]*model.Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	var records []*model.Restaurant
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records %s: %w", path, err)
	}
	return records, nil
}

func writeResult(path string, result *pipeline.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
