// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package dataset

import "fmt"

// Kind classifies a column for feature building.
type Kind int

const (
	// KindNumeric columns become matrix columns directly, with KNN
	// imputation for missing entries.
	KindNumeric Kind = iota

	// KindCategorical columns are one-hot encoded, with a sentinel
	// category for missing entries.
	KindCategorical
)

// String returns a human-readable name for the column kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ParseKind converts a config spelling to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "numeric":
		return KindNumeric, nil
	case "categorical":
		return KindCategorical, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q", s)
	}
}

// Schema declares the kind of each column. An explicit declaration removes
// ambiguity about borderline columns such as small-integer category codes.
type Schema struct {
	kinds map[string]Kind
}

// NewSchema builds a schema from an explicit column->kind mapping.
func NewSchema(kinds map[string]Kind) *Schema {
	copied := make(map[string]Kind, len(kinds))
	for col, kind := range kinds {
		copied[col] = kind
	}
	return &Schema{kinds: copied}
}

// InferSchema derives a schema from the observed values of a table: a
// column is numeric when every non-missing cell parses as a number, and
// categorical otherwise. Fully missing columns default to numeric so the
// feature builder can drop and report them.
func InferSchema(t *Table) *Schema {
	kinds := make(map[string]Kind, len(t.Columns))
	for _, col := range t.Columns {
		kinds[col] = KindNumeric
		for _, row := range t.Rows {
			v := row[col]
			if v.Missing {
				continue
			}
			if !v.IsNum {
				kinds[col] = KindCategorical
				break
			}
		}
	}
	return &Schema{kinds: kinds}
}

// Merge overlays explicit declarations on top of an inferred schema.
// Declared columns win; undeclared columns keep their inferred kind.
func (s *Schema) Merge(declared map[string]Kind) *Schema {
	merged := make(map[string]Kind, len(s.kinds))
	for col, kind := range s.kinds {
		merged[col] = kind
	}
	for col, kind := range declared {
		merged[col] = kind
	}
	return &Schema{kinds: merged}
}

// Kind returns the declared kind of a column. Undeclared columns are
// categorical: treating an unknown column as discrete is the safe default.
func (s *Schema) Kind(col string) Kind {
	if kind, ok := s.kinds[col]; ok {
		return kind
	}
	return KindCategorical
}
