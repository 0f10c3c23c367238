// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package dataset ingests the raw tabular crop records and classifies their
// columns.
//
// The table is read exactly once at pipeline start; records are immutable
// after ingestion and are discarded once the feature builder has consumed
// them. Column kinds (numeric vs categorical) come from an explicit schema
// declaration when the operator supplies one, with per-value type inference
// as the fallback for schema-less tables.
package dataset
