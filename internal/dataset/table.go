// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package dataset

// Value is one nullable scalar cell of the source table.
type Value struct {
	// Raw is the original string form of the cell.
	Raw string

	// Num is the parsed numeric value, meaningful only when IsNum is true.
	Num float64

	// IsNum reports whether the cell parsed as a number.
	IsNum bool

	// Missing reports whether the cell held no usable value.
	Missing bool
}

// Record is one row of the source table: column name to scalar. Records are
// read once at pipeline start and never mutated after ingestion.
type Record map[string]Value

// Table is an ordered collection of records sharing one header.
type Table struct {
	// Columns is the header, in file order.
	Columns []string

	// Rows are the records, in file order.
	Rows []Record
}

// NumRows returns the number of records.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the table header contains the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// missingTokens are the cell spellings treated as absent values.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

// isMissingToken reports whether a raw cell spells a missing value.
func isMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}
