// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/artifact"
	"github.com/agrosense/croptrainer/internal/config"
	"github.com/agrosense/croptrainer/internal/dataset"
	"github.com/agrosense/croptrainer/internal/evaluation"
	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/labels"
	"github.com/agrosense/croptrainer/internal/logging"
	"github.com/agrosense/croptrainer/internal/mlp"
)

// Pipeline runs one end-to-end training pass: ingest, feature build, class
// filter, train, evaluate, persist.
type Pipeline struct {
	cfg *config.Config
	log zerolog.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: logging.With().Str("component", "pipeline").Logger(),
	}
}

// Summary is the outcome of one run.
type Summary struct {
	// RunID identifies the run across logs, metadata, and the sidecar.
	RunID string

	// Rows is the training row count after class filtering.
	Rows int

	// Features is the encoded feature width.
	Features int

	// Classes is the number of surviving crop classes.
	Classes int

	// Report holds the held-out evaluation metrics.
	Report *evaluation.Report

	// Artifact describes the persisted bundle.
	Artifact *artifact.Metadata
}

// Run executes the full pipeline. Stage failures propagate unwrapped
// enough for callers to match the typed errors (schema, class count,
// shape) with errors.As.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Logger()
	started := time.Now()
	log.Info().Str("data", p.cfg.Data.Path).Msg("starting training run")

	// Ingest.
	table, err := dataset.LoadCSV(p.cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	declared, err := parseDeclaredSchema(p.cfg.Data.Schema)
	if err != nil {
		return nil, fmt.Errorf("declared schema: %w", err)
	}
	schema := dataset.InferSchema(table).Merge(declared)
	log.Info().Int("rows", table.NumRows()).Int("columns", len(table.Columns)).Msg("dataset loaded")

	// Feature build.
	feat, err := features.NewBuilder(features.Config{
		LabelColumn: p.cfg.Data.LabelColumn,
		DropColumns: p.cfg.Data.DropColumns,
		Neighbors:   p.cfg.Features.Neighbors,
		Seed:        p.cfg.Seed,
	}).Build(table, schema)
	if err != nil {
		return nil, fmt.Errorf("building features: %w", err)
	}

	// Class filter.
	filtered, err := labels.NewFilter(labels.Config{
		MinSupport: p.cfg.Labels.MinSupport,
	}).Apply(feat.Matrix, feat.Labels)
	if err != nil {
		return nil, fmt.Errorf("filtering classes: %w", err)
	}

	// Train on every filtered row. The evaluator runs afterwards as a
	// read-only diagnostic; its split never influences what is persisted.
	trainStart := time.Now()
	net, err := mlp.NewTrainer(mlp.Config{
		HiddenSizes:  p.cfg.Trainer.HiddenSizes,
		Dropout:      p.cfg.Trainer.Dropout,
		Epochs:       p.cfg.Trainer.Epochs,
		BatchSize:    p.cfg.Trainer.BatchSize,
		LearningRate: p.cfg.Trainer.LearningRate,
		Seed:         p.cfg.Seed,
	}).Train(ctx, filtered.Matrix, filtered.Encoded, filtered.NumClasses())
	if err != nil {
		return nil, fmt.Errorf("training model: %w", err)
	}
	trainDuration := time.Since(trainStart)

	// Held-out evaluation.
	evaluator := evaluation.NewEvaluator(evaluation.Config{
		TestFraction: p.cfg.Eval.TestFraction,
		TopK:         p.cfg.Eval.TopK,
		Seed:         p.cfg.Seed,
	})
	split, err := evaluator.Split(filtered.Encoded, filtered.NumClasses())
	if err != nil {
		return nil, fmt.Errorf("splitting dataset: %w", err)
	}
	report, err := evaluator.Assess(net, filtered.Matrix, filtered.Encoded, split.Test)
	if err != nil {
		return nil, fmt.Errorf("evaluating model: %w", err)
	}

	// Persist.
	store, err := artifact.NewStore(p.cfg.Artifact.Dir, p.cfg.Artifact.Name)
	if err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}
	encoding := feat.Encoding
	meta, err := store.Save(ctx, &artifact.Bundle{
		Model:    net.Snapshot(),
		Labels:   filtered.Catalog,
		Columns:  feat.Columns,
		Encoding: &encoding,
	}, artifact.Metadata{
		RunID:              runID,
		TrainedAt:          trainStart.Add(trainDuration),
		RowCount:           len(filtered.Matrix),
		TrainingDurationMS: trainDuration.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("saving artifact: %w", err)
	}

	log.Info().
		Dur("elapsed", time.Since(started)).
		Float64("accuracy", report.Accuracy).
		Float64("macro_f1", report.MacroF1).
		Float64("top_k_hit_rate", report.TopKHits).
		Msg("training run complete")

	return &Summary{
		RunID:    runID,
		Rows:     len(filtered.Matrix),
		Features: len(feat.Columns),
		Classes:  filtered.NumClasses(),
		Report:   report,
		Artifact: meta,
	}, nil
}

// parseDeclaredSchema converts the configured column kinds into schema
// form. Unknown kind spellings are configuration errors.
func parseDeclaredSchema(declared map[string]string) (map[string]dataset.Kind, error) {
	if len(declared) == 0 {
		return nil, nil
	}
	kinds := make(map[string]dataset.Kind, len(declared))
	for col, s := range declared {
		kind, err := dataset.ParseKind(s)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		kinds[col] = kind
	}
	return kinds, nil
}
