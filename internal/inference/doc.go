// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package inference scores raw field records against a persisted model
// bundle. The bundle carries the full encoding recipe, so records arrive
// as plain column-to-string maps and leave as ranked crop recommendations.
package inference
