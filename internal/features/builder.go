// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package features

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/dataset"
	"github.com/agrosense/croptrainer/internal/logging"
)

// Config contains configuration for the feature builder.
type Config struct {
	// LabelColumn is the target column. Its absence is a fatal SchemaError.
	LabelColumn string

	// DropColumns are removed by name before any other processing.
	DropColumns []string

	// Neighbors is the k for KNN imputation. Defaults to 5.
	Neighbors int

	// Seed drives neighbor tie-breaking so runs are reproducible.
	Seed int64
}

// Builder turns a raw table into a fixed-width numeric feature matrix.
type Builder struct {
	cfg Config
	log zerolog.Logger
}

// NewBuilder creates a feature builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = 5
	}
	return &Builder{
		cfg: cfg,
		log: logging.With().Str("stage", "features").Logger(),
	}
}

// Encoding is the trained column transformation, persisted with the model
// so a consumer can reproduce it for a single record at inference time.
type Encoding struct {
	// NumericColumns are the surviving numeric columns, in matrix order.
	NumericColumns []string `json:"numeric_columns"`

	// Medians holds the training median of each numeric column's observed
	// values. KNN imputation needs a batch; a single inference record falls
	// back to these.
	Medians map[string]float64 `json:"medians"`

	// Categorical are the indicator expansions, in matrix order after the
	// numeric block.
	Categorical []CategoricalEncoding `json:"categorical"`
}

// Width returns the number of feature columns the encoding produces.
func (e *Encoding) Width() int {
	w := len(e.NumericColumns)
	for i := range e.Categorical {
		w += len(e.Categorical[i].Values)
	}
	return w
}

// ColumnNames returns the feature column names in matrix order.
func (e *Encoding) ColumnNames() []string {
	names := make([]string, 0, e.Width())
	names = append(names, e.NumericColumns...)
	for i := range e.Categorical {
		names = append(names, e.Categorical[i].IndicatorNames()...)
	}
	return names
}

// Report summarizes the non-fatal data-loss decisions of one build.
type Report struct {
	// DroppedEmptyColumns are numeric columns that held no values at all.
	DroppedEmptyColumns []string

	// ImputedCells is the number of missing numeric cells filled by KNN.
	ImputedCells int

	// ZeroFilledCells counts residual missing cells zero-filled after
	// imputation and encoding. Non-zero means an imputation gap upstream.
	ZeroFilledCells int
}

// Result is the output of one build.
type Result struct {
	// Matrix is the feature matrix, one row per input record, no missing
	// cells.
	Matrix [][]float64

	// Columns names each matrix column, in order.
	Columns []string

	// Labels is the raw label string of each row, aligned with Matrix.
	Labels []string

	// Encoding is the reusable column transformation.
	Encoding Encoding

	// Report records the non-fatal data-loss decisions.
	Report Report
}

// Build produces the feature matrix, column list, and label vector for a
// table.
//
// The stages are fixed: denylist drop, label extraction, numeric/categorical
// partition, KNN imputation of missing numerics (fully empty columns are
// dropped with a warning), sentinel-filled one-hot encoding of categoricals,
// and fusion with numeric columns first. Any cell still missing after all of
// that is zero-filled and counted; the exit invariant is a matrix with no
// missing values and exactly one row per input record.
func (b *Builder) Build(table *dataset.Table, schema *dataset.Schema) (*Result, error) {
	if !table.HasColumn(b.cfg.LabelColumn) {
		return nil, &SchemaError{Column: b.cfg.LabelColumn}
	}

	excluded := make(map[string]struct{}, len(b.cfg.DropColumns)+1)
	excluded[b.cfg.LabelColumn] = struct{}{}
	for _, col := range b.cfg.DropColumns {
		excluded[col] = struct{}{}
	}

	var numericCols, categoricalCols []string
	for _, col := range table.Columns {
		if _, skip := excluded[col]; skip {
			continue
		}
		switch schema.Kind(col) {
		case dataset.KindNumeric:
			numericCols = append(numericCols, col)
		case dataset.KindCategorical:
			categoricalCols = append(categoricalCols, col)
		}
	}

	rows := table.NumRows()
	result := &Result{
		Labels: make([]string, rows),
		Encoding: Encoding{
			Medians: make(map[string]float64),
		},
	}
	for i, row := range table.Rows {
		result.Labels[i] = rawString(row[b.cfg.LabelColumn])
	}

	numeric, keptNumeric := b.buildNumeric(table, numericCols, result)
	result.Encoding.NumericColumns = keptNumeric

	catValues := buildCategoricalValues(table, categoricalCols, rows)
	for _, col := range categoricalCols {
		enc := encodeCategorical(col, catValues[col])
		result.Encoding.Categorical = append(result.Encoding.Categorical, enc)
	}

	// Fusion: numeric block first, then indicator blocks in source order.
	result.Columns = result.Encoding.ColumnNames()

	width := len(result.Columns)
	result.Matrix = make([][]float64, rows)
	for i := 0; i < rows; i++ {
		vec := make([]float64, 0, width)
		for c := range keptNumeric {
			v := numeric[c][i]
			if math.IsNaN(v) {
				// Last-resort safety net; counted because it signals an
				// imputation gap upstream.
				v = 0
				result.Report.ZeroFilledCells++
			}
			vec = append(vec, v)
		}
		for j := range result.Encoding.Categorical {
			enc := &result.Encoding.Categorical[j]
			vec = append(vec, enc.Encode(catValues[enc.Column][i])...)
		}
		result.Matrix[i] = vec
	}

	if result.Report.ZeroFilledCells > 0 {
		b.log.Warn().
			Int("cells", result.Report.ZeroFilledCells).
			Msg("zero-filled residual missing cells after imputation")
	}
	b.log.Info().
		Int("rows", rows).
		Int("features", width).
		Int("numeric", len(keptNumeric)).
		Int("categorical", len(categoricalCols)).
		Msg("feature matrix built")

	return result, nil
}

// buildNumeric extracts numeric columns in column-major form, drops fully
// empty ones, imputes columns with missing entries, and records medians.
// Returns the column-major values and the kept column names, in source
// order. Cells a neighbor search could not fill stay NaN for the fusion
// safety net.
func (b *Builder) buildNumeric(table *dataset.Table, cols []string, result *Result) ([][]float64, []string) {
	rows := table.NumRows()

	var kept []string
	var values [][]float64 // column-major, aligned with kept
	hasMissing := false
	for _, col := range cols {
		column := make([]float64, rows)
		missing := 0
		var observed []float64
		for i, row := range table.Rows {
			v := row[col]
			switch {
			case v.Missing || !v.IsNum:
				column[i] = math.NaN()
				missing++
			default:
				column[i] = v.Num
				observed = append(observed, v.Num)
			}
		}

		if missing == rows {
			// Nothing to learn from; dropping is data loss, so it is
			// logged, but it is not fatal.
			b.log.Warn().Str("column", col).Msg("dropping fully empty numeric column")
			result.Report.DroppedEmptyColumns = append(result.Report.DroppedEmptyColumns, col)
			continue
		}

		if missing > 0 {
			hasMissing = true
		}
		result.Encoding.Medians[col] = median(observed)
		kept = append(kept, col)
		values = append(values, column)
	}

	if hasMissing {
		b.imputeNumeric(values, rows, result)
	}

	return values, kept
}

// imputeNumeric runs KNN imputation over the full numeric subspace.
// Neighbor distance is computed jointly across all numeric columns, so the
// imputation of one column can depend on correlated, fully observed
// columns.
func (b *Builder) imputeNumeric(values [][]float64, rows int, result *Result) {
	sub := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		sub[i] = make([]float64, len(values))
		for c := range values {
			sub[i][c] = values[c][i]
		}
	}

	// Seeded rank permutation breaks neighbor-distance ties reproducibly.
	rng := rand.New(rand.NewSource(b.cfg.Seed))
	perm := rng.Perm(rows)
	tieOrder := make([]int, rows)
	for rank, row := range perm {
		tieOrder[row] = rank
	}

	filled, unfilled := knnImpute(sub, b.cfg.Neighbors, tieOrder)
	result.Report.ImputedCells = filled

	for i := 0; i < rows; i++ {
		for c := range values {
			values[c][i] = sub[i][c]
		}
	}

	b.log.Info().
		Int("columns", len(values)).
		Int("cells", filled).
		Int("neighbors", b.cfg.Neighbors).
		Msg("imputed missing numeric values")
	if unfilled > 0 {
		b.log.Warn().Int("cells", unfilled).Msg("cells left unfilled by imputation")
	}
}

// rawString renders a cell for label use. Missing cells come back empty;
// other cells keep their original spelling.
func rawString(v dataset.Value) string {
	if v.Missing {
		return ""
	}
	return v.Raw
}

// buildCategoricalValues collects per-row category strings with the Unknown
// sentinel substituted for missing cells.
func buildCategoricalValues(table *dataset.Table, cols []string, rows int) map[string][]string {
	out := make(map[string][]string, len(cols))
	for _, col := range cols {
		values := make([]string, rows)
		for i, row := range table.Rows {
			v := row[col]
			if v.Missing {
				values[i] = UnknownCategory
			} else {
				values[i] = v.Raw
			}
		}
		out[col] = values
	}
	return out
}

// median returns the middle observed value (mean of the two middle values
// for even counts).
func median(observed []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	sorted := make([]float64, len(observed))
	copy(sorted, observed)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
