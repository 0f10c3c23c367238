// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package evaluation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/logging"
	"github.com/agrosense/croptrainer/internal/mlp"
)

// Config contains configuration for the evaluator.
type Config struct {
	// TestFraction is the share of rows held out per class. Defaults
	// to 0.2.
	TestFraction float64

	// TopK is the recommendation depth for the hit-rate metric.
	// Defaults to 3.
	TopK int

	// Seed drives the stratified shuffle.
	Seed int64
}

// Evaluator holds out a stratified test partition and scores a trained
// network on it.
type Evaluator struct {
	cfg Config
	log zerolog.Logger
}

// NewEvaluator creates an evaluator, filling zero-valued fields from
// defaults.
func NewEvaluator(cfg Config) *Evaluator {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Evaluator{
		cfg: cfg,
		log: logging.With().Str("stage", "evaluation").Logger(),
	}
}

// Report summarizes one held-out evaluation.
type Report struct {
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Accuracy  float64 `json:"accuracy"`
	MacroF1   float64 `json:"macro_f1"`
	TopK      int     `json:"top_k"`
	TopKHits  float64 `json:"top_k_hit_rate"`
}

// Split partitions the labeled rows per class using the configured test
// fraction and seed.
func (e *Evaluator) Split(labels []int, numClasses int) (*Split, error) {
	return StratifiedSplit(labels, numClasses, e.cfg.TestFraction, e.cfg.Seed)
}

// Assess scores the network on the test partition rows. matrix and labels
// are the full aligned dataset; test selects the held-out rows.
func (e *Evaluator) Assess(net *mlp.Network, matrix [][]float64, labels []int, test []int) (*Report, error) {
	if len(test) == 0 {
		return nil, fmt.Errorf("empty test partition")
	}

	rows := make([][]float64, len(test))
	trueIdx := make([]int, len(test))
	for i, r := range test {
		if r < 0 || r >= len(matrix) {
			return nil, fmt.Errorf("test row index %d outside [0, %d)", r, len(matrix))
		}
		rows[i] = matrix[r]
		trueIdx[i] = labels[r]
	}

	probs, err := net.PredictBatch(rows)
	if err != nil {
		return nil, fmt.Errorf("scoring test partition: %w", err)
	}
	predIdx := make([]int, len(probs))
	for i, p := range probs {
		predIdx[i] = mlp.TopIndices(p, 1)[0]
	}

	report := &Report{
		TrainRows: len(matrix) - len(test),
		TestRows:  len(test),
		Accuracy:  Accuracy(trueIdx, predIdx),
		MacroF1:   MacroF1(trueIdx, predIdx),
		TopK:      e.cfg.TopK,
		TopKHits:  TopKHitRate(trueIdx, probs, e.cfg.TopK),
	}

	e.log.Info().
		Int("test_rows", report.TestRows).
		Float64("accuracy", report.Accuracy).
		Float64("macro_f1", report.MacroF1).
		Float64("top_k_hit_rate", report.TopKHits).
		Int("top_k", report.TopK).
		Msg("held-out evaluation complete")
	return report, nil
}
