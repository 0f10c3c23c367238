// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package artifact persists the trained model bundle.
//
// A bundle is self-describing: the network snapshot travels with the label
// catalog and the complete feature encoding recipe, so a later process can
// score raw records without access to the training data. The on-disk
// format is a gob-encoded, gzip-compressed file with a SHA-256 checksum,
// plus a JSON metadata sidecar for humans and tooling.
//
// Loading re-validates the bundle: a checksum mismatch or any disagreement
// between the encoding width, column list, and model input width is
// rejected rather than papered over.
package artifact
