// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package labels filters under-represented crop classes and owns the
// label-to-index assignment.
//
// Rows with an empty label are discarded outright; a blank label is
// missing data, not a class. Classes below the minimum support are removed
// before training because rare classes destabilize the stratified
// evaluation split and macro-F1.
// Surviving labels are encoded to contiguous indices in first-seen order;
// the same mapping holds for the lifetime of a run and is the one the
// artifact store persists.
package labels
