// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package features builds the fixed-width numeric feature matrix from the
// raw crop table.
//
// The builder exclusively owns the record-to-matrix transformation:
// denylisted columns are dropped first, numeric columns are KNN-imputed
// (distance-weighted, with neighbor distance measured jointly across the
// full numeric subspace),
// categorical columns are one-hot encoded with an "Unknown" sentinel for
// missing values and one reference category omitted per source column, and
// the blocks are fused numeric-first. The exit invariant is a matrix with
// no missing cells and exactly one row per input record.
package features
