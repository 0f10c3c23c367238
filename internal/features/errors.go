// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package features

import "fmt"

// SchemaError reports that the designated label column is absent from the
// dataset. It is fatal: no computation happens without a target.
type SchemaError struct {
	// Column is the missing label column name.
	Column string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("label column %q is missing from the dataset", e.Column)
}
