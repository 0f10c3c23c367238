// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package logging provides centralized zerolog-based logging for the
// training pipeline.
//
// Every pipeline stage logs through this package so a single run produces
// one coherent, structured audit trail: which columns were dropped, which
// labels fell below the support threshold, how many cells were zero-filled,
// and the final evaluation metrics.
//
// # Quick Start
//
//	import "github.com/agrosense/croptrainer/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Int("rows", n).Msg("dataset loaded")
//	logging.Warn().Str("column", name).Msg("dropping fully empty numeric column")
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
