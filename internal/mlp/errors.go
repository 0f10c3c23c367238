// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package mlp

import "fmt"

// ShapeError reports a dimension that disagrees with the model
// configuration. It is raised before any optimization or inference work
// runs; nothing is silently truncated or padded.
type ShapeError struct {
	// Dim names the offending dimension.
	Dim string

	// Want is the expected extent.
	Want int

	// Got is the observed extent.
	Got int
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", e.Dim, e.Want, e.Got)
}
