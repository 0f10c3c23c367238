// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package config loads and validates the training pipeline configuration
// using Koanf v2 with layered sources: built-in defaults, an optional YAML
// file, and CROPTRAINER_* environment variables (highest priority).
package config
