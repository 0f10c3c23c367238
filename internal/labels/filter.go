// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package labels

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/logging"
)

// InsufficientClassesError reports that fewer than two label classes
// survived the support filter. A classifier needs at least two classes, so
// this is fatal.
type InsufficientClassesError struct {
	// Survivors is the number of classes that met the threshold.
	Survivors int

	// MinSupport is the configured threshold.
	MinSupport int
}

// Error implements the error interface.
func (e *InsufficientClassesError) Error() string {
	return fmt.Sprintf("%d label classes meet the minimum support of %d, need at least 2",
		e.Survivors, e.MinSupport)
}

// Config contains configuration for the class filter.
type Config struct {
	// MinSupport is the minimum pre-filter frequency a label needs to be
	// retained. Defaults to 100.
	MinSupport int
}

// Filter removes under-represented label classes and encodes the survivors
// to contiguous integer indices.
type Filter struct {
	cfg Config
	log zerolog.Logger
}

// NewFilter creates a class filter with the given configuration.
func NewFilter(cfg Config) *Filter {
	if cfg.MinSupport <= 0 {
		cfg.MinSupport = 100
	}
	return &Filter{
		cfg: cfg,
		log: logging.With().Str("stage", "labels").Logger(),
	}
}

// Result is the output of one filtering pass.
type Result struct {
	// Matrix holds the rows whose label survived, in input order.
	Matrix [][]float64

	// Encoded is the integer class index of each surviving row, aligned
	// with Matrix.
	Encoded []int

	// Catalog maps class index to label string. Indices are assigned in
	// first-seen order over the surviving rows, so the mapping is
	// deterministic for a fixed input ordering. This exact mapping is what
	// the artifact store persists.
	Catalog []string

	// Dropped are the label values that fell below the threshold, with
	// their pre-filter frequencies.
	Dropped map[string]int

	// MissingLabelRows counts rows discarded because their label cell was
	// empty. A blank label is absent data, never a class of its own.
	MissingLabelRows int
}

// NumClasses returns K, the number of surviving classes.
func (r *Result) NumClasses() int {
	return len(r.Catalog)
}

// Apply filters rows by label support and encodes the surviving labels.
//
// Rows and labels must be aligned 1:1. Rows with an empty label are
// discarded regardless of frequency; rows whose label frequency is below
// the threshold are removed; the shrinkage is logged so it stays auditable.
// Fails with InsufficientClassesError when fewer than two classes survive.
func (f *Filter) Apply(matrix [][]float64, labelVec []string) (*Result, error) {
	if len(matrix) != len(labelVec) {
		return nil, fmt.Errorf("matrix has %d rows but label vector has %d", len(matrix), len(labelVec))
	}

	counts := make(map[string]int)
	for _, label := range labelVec {
		if label == "" {
			continue
		}
		counts[label]++
	}

	result := &Result{Dropped: make(map[string]int)}
	index := make(map[string]int)

	for i, label := range labelVec {
		if label == "" {
			result.MissingLabelRows++
			continue
		}
		if counts[label] < f.cfg.MinSupport {
			result.Dropped[label] = counts[label]
			continue
		}
		idx, ok := index[label]
		if !ok {
			idx = len(result.Catalog)
			index[label] = idx
			result.Catalog = append(result.Catalog, label)
		}
		result.Matrix = append(result.Matrix, matrix[i])
		result.Encoded = append(result.Encoded, idx)
	}

	if len(result.Catalog) < 2 {
		return nil, &InsufficientClassesError{
			Survivors:  len(result.Catalog),
			MinSupport: f.cfg.MinSupport,
		}
	}

	dropped := make([]string, 0, len(result.Dropped))
	for label := range result.Dropped {
		dropped = append(dropped, label)
	}
	sort.Strings(dropped)
	for _, label := range dropped {
		f.log.Info().
			Str("label", label).
			Int("support", result.Dropped[label]).
			Int("min_support", f.cfg.MinSupport).
			Msg("dropping under-represented label")
	}

	if result.MissingLabelRows > 0 {
		f.log.Warn().
			Int("rows", result.MissingLabelRows).
			Msg("dropping rows with missing label")
	}

	f.log.Info().
		Int("rows_in", len(labelVec)).
		Int("rows_out", len(result.Matrix)).
		Int("classes", result.NumClasses()).
		Msg("labels filtered and encoded")

	return result, nil
}
