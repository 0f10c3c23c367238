// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

// Package mlp implements the feed-forward crop classifier and its trainer.
//
// The network is a multi-layer perceptron with rectified hidden layers and
// a softmax output over the surviving crop classes. Training uses
// mini-batch gradient descent with the Adam optimizer and inverted dropout
// on hidden activations. Every random decision (weight init, epoch
// shuffling, dropout masks) draws from one seeded source, so a run is
// reproducible bit for bit given the same inputs and configuration.
//
// Dimension mismatches fail fast with ShapeError before any arithmetic
// runs; the package never truncates or pads to make shapes agree.
package mlp
