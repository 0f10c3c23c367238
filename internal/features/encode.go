// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package features

import "sort"

// UnknownCategory is the sentinel substituted for a missing categorical
// value. Absence of a categorical signal is itself informative, so missing
// categorical cells are never dropped.
const UnknownCategory = "Unknown"

// CategoricalEncoding describes the indicator expansion of one source
// column.
//
// The lexicographically smallest category is the reference: it gets no
// indicator column, which keeps the expansion full-rank minus one per
// source column. A row whose category is the reference encodes as all
// zeros across the column's indicators.
type CategoricalEncoding struct {
	// Column is the source column name.
	Column string `json:"column"`

	// Reference is the omitted category.
	Reference string `json:"reference"`

	// Values are the categories with indicator columns, in encoding order.
	Values []string `json:"values"`
}

// IndicatorNames returns the feature column names contributed by this
// encoding, one per non-reference category.
func (e *CategoricalEncoding) IndicatorNames() []string {
	names := make([]string, len(e.Values))
	for i, v := range e.Values {
		names[i] = e.Column + "_" + v
	}
	return names
}

// Encode returns the indicator vector for one category value. Unseen
// categories encode as all zeros, the same as the reference.
func (e *CategoricalEncoding) Encode(value string) []float64 {
	out := make([]float64, len(e.Values))
	for i, v := range e.Values {
		if v == value {
			out[i] = 1
			break
		}
	}
	return out
}

// encodeCategorical builds the encoding for one column from its per-row
// values (missing cells already replaced with UnknownCategory). Categories
// are sorted so the reference choice is deterministic regardless of row
// order.
func encodeCategorical(column string, values []string) CategoricalEncoding {
	seen := make(map[string]struct{})
	var distinct []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Strings(distinct)

	enc := CategoricalEncoding{Column: column}
	if len(distinct) > 0 {
		enc.Reference = distinct[0]
		enc.Values = distinct[1:]
	}
	return enc
}
