// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package main is the entry point for the croptrainer pipeline.
//
// Croptrainer reads a tabular crop dataset, builds an encoded feature
// matrix, trains a neural crop classifier, evaluates it on a held-out
// stratified split, and persists a self-describing model bundle for later
// scoring.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (CROPTRAINER_* prefix)
//   - Config file (croptrainer.yaml, or CROPTRAINER_CONFIG)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run context; training stops at the next
// epoch boundary and no partial artifact is written.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrosense/croptrainer/internal/config"
	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/labels"
	"github.com/agrosense/croptrainer/internal/logging"
	"github.com/agrosense/croptrainer/internal/mlp"
	"github.com/agrosense/croptrainer/internal/pipeline"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("data", cfg.Data.Path).
		Str("label_column", cfg.Data.LabelColumn).
		Str("artifact_dir", cfg.Artifact.Dir).
		Int64("seed", cfg.Seed).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		var schemaErr *features.SchemaError
		var insuffErr *labels.InsufficientClassesError
		var shapeErr *mlp.ShapeError
		switch {
		case errors.As(err, &schemaErr):
			logging.Error().Err(err).Str("column", schemaErr.Column).Msg("Dataset schema rejected")
		case errors.As(err, &insuffErr):
			logging.Error().Err(err).Int("survivors", insuffErr.Survivors).Msg("Too few crop classes to train")
		case errors.As(err, &shapeErr):
			logging.Error().Err(err).Msg("Dimension mismatch")
		case errors.Is(err, context.Canceled):
			logging.Warn().Msg("Training run canceled")
		default:
			logging.Error().Err(err).Msg("Training run failed")
		}
		os.Exit(1)
	}

	logging.Info().
		Str("run_id", summary.RunID).
		Int("rows", summary.Rows).
		Int("features", summary.Features).
		Int("classes", summary.Classes).
		Float64("accuracy", summary.Report.Accuracy).
		Float64("macro_f1", summary.Report.MacroF1).
		Float64("top_k_hit_rate", summary.Report.TopKHits).
		Str("checksum", summary.Artifact.Checksum).
		Msg("Training run finished")
}
