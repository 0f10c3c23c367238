// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package pipeline wires the training stages into one run: CSV ingestion,
// feature building, class filtering, network training, held-out
// evaluation, and artifact persistence. Each run gets a UUID that appears
// in every log line and in the saved metadata.
package pipeline
