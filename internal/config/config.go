// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package config

// Config is the root configuration for a training run.
//
// Every tunable of the pipeline lives here as a named field; there are no
// scattered literals. The random seed is explicit configuration threaded
// into the feature builder, trainer, and evaluator, never implicit global
// state, so runs are reproducible and composable.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Features FeaturesConfig `koanf:"features"`
	Labels   LabelsConfig   `koanf:"labels"`
	Trainer  TrainerConfig  `koanf:"trainer"`
	Eval     EvalConfig     `koanf:"eval"`
	Artifact ArtifactConfig `koanf:"artifact"`
	Logging  LoggingConfig  `koanf:"logging"`

	// Seed drives every randomized decision in the pipeline: KNN neighbor
	// tie-breaking, mini-batch shuffling, dropout masks, and the stratified
	// split. Fixed seed + fixed input = identical runs.
	Seed int64 `koanf:"seed"`
}

// DataConfig describes the source table.
type DataConfig struct {
	// Path is the CSV file with a header row.
	Path string `koanf:"path"`

	// LabelColumn is the column holding the target crop. Its absence is a
	// fatal schema error.
	LabelColumn string `koanf:"label_column"`

	// DropColumns are excluded by name before any processing. They are
	// either derived from the label (future-leaking) or administrative.
	DropColumns []string `koanf:"drop_columns"`

	// Schema optionally declares each column as "numeric" or "categorical".
	// Columns not listed (or an empty map) fall back to type inference from
	// the observed values.
	Schema map[string]string `koanf:"schema"`
}

// FeaturesConfig controls feature matrix construction.
type FeaturesConfig struct {
	// Neighbors is the k for distance-weighted KNN imputation of missing
	// numeric values.
	Neighbors int `koanf:"neighbors"`
}

// LabelsConfig controls class filtering and encoding.
type LabelsConfig struct {
	// MinSupport is the minimum number of rows a crop needs to survive
	// filtering. Rare classes destabilize the stratified split and macro-F1.
	MinSupport int `koanf:"min_support"`
}

// TrainerConfig controls the MLP and its optimization.
type TrainerConfig struct {
	// HiddenSizes are the widths of the hidden layers, in order.
	HiddenSizes []int `koanf:"hidden_sizes"`

	// Dropout is the fraction of hidden activations dropped during
	// training. A no-op at inference.
	Dropout float64 `koanf:"dropout"`

	// Epochs is the number of full passes over the training data.
	Epochs int `koanf:"epochs"`

	// BatchSize is the mini-batch size for each gradient step.
	BatchSize int `koanf:"batch_size"`

	// LearningRate is the Adam step size.
	LearningRate float64 `koanf:"learning_rate"`
}

// EvalConfig controls the held-out evaluation.
type EvalConfig struct {
	// TestFraction is the share of rows held out by the stratified split.
	TestFraction float64 `koanf:"test_fraction"`

	// TopK is the k for the top-k hit rate metric.
	TopK int `koanf:"top_k"`
}

// ArtifactConfig controls where the trained bundle is persisted.
type ArtifactConfig struct {
	// Dir is the output directory for the artifact and its metadata sidecar.
	Dir string `koanf:"dir"`

	// Name is the artifact base name. One artifact per invocation; a new
	// run overwrites the previous bundle.
	Name string `koanf:"name"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with the defaults of the reference crop
// dataset. These are applied first, then overridden by config file and
// environment variables.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:        "apcrop_dataset.csv",
			LabelColumn: "Primary_Crop",
			DropColumns: []string{
				"Year",
				"Suitable_Crops",
				"Fertilizer_Plan",
				"Irrigation_Plan",
				"Market_Price_Index",
				"Previous_Crop",
			},
			Schema: nil,
		},
		Features: FeaturesConfig{
			Neighbors: 5,
		},
		Labels: LabelsConfig{
			MinSupport: 100,
		},
		Trainer: TrainerConfig{
			HiddenSizes:  []int{128, 64},
			Dropout:      0.3,
			Epochs:       100,
			BatchSize:    32,
			LearningRate: 0.001,
		},
		Eval: EvalConfig{
			TestFraction: 0.2,
			TopK:         3,
		},
		Artifact: ArtifactConfig{
			Dir:  "artifacts",
			Name: "croprecommender",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Seed: 42,
	}
}
