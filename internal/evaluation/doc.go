// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package evaluation measures classifier quality on a held-out partition.
//
// The split is stratified per class with a seeded shuffle, so repeated
// runs over the same data produce the same partition. Reported metrics
// are accuracy, macro-averaged F1 over the union of true and predicted
// classes, and the top-k hit rate.
package evaluation
