// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package config

import "fmt"

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateFeatures(); err != nil {
		return err
	}
	if err := c.validateLabels(); err != nil {
		return err
	}
	if err := c.validateTrainer(); err != nil {
		return err
	}
	if err := c.validateEval(); err != nil {
		return err
	}
	return c.validateArtifact()
}

func (c *Config) validateData() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if c.Data.LabelColumn == "" {
		return fmt.Errorf("data.label_column is required")
	}
	for _, col := range c.Data.DropColumns {
		if col == c.Data.LabelColumn {
			return fmt.Errorf("data.drop_columns must not contain the label column %q", col)
		}
	}
	for col, kind := range c.Data.Schema {
		if kind != "numeric" && kind != "categorical" {
			return fmt.Errorf("data.schema[%s] = %q, must be numeric or categorical", col, kind)
		}
	}
	return nil
}

func (c *Config) validateFeatures() error {
	if c.Features.Neighbors < 1 {
		return fmt.Errorf("features.neighbors = %d, must be >= 1", c.Features.Neighbors)
	}
	return nil
}

func (c *Config) validateLabels() error {
	if c.Labels.MinSupport < 1 {
		return fmt.Errorf("labels.min_support = %d, must be >= 1", c.Labels.MinSupport)
	}
	return nil
}

func (c *Config) validateTrainer() error {
	if len(c.Trainer.HiddenSizes) == 0 {
		return fmt.Errorf("trainer.hidden_sizes must not be empty")
	}
	for i, size := range c.Trainer.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("trainer.hidden_sizes[%d] = %d, must be >= 1", i, size)
		}
	}
	if c.Trainer.Dropout < 0 || c.Trainer.Dropout >= 1 {
		return fmt.Errorf("trainer.dropout = %g, must be in [0, 1)", c.Trainer.Dropout)
	}
	if c.Trainer.Epochs < 1 {
		return fmt.Errorf("trainer.epochs = %d, must be >= 1", c.Trainer.Epochs)
	}
	if c.Trainer.BatchSize < 1 {
		return fmt.Errorf("trainer.batch_size = %d, must be >= 1", c.Trainer.BatchSize)
	}
	if c.Trainer.LearningRate <= 0 {
		return fmt.Errorf("trainer.learning_rate = %g, must be > 0", c.Trainer.LearningRate)
	}
	return nil
}

func (c *Config) validateEval() error {
	if c.Eval.TestFraction <= 0 || c.Eval.TestFraction >= 1 {
		return fmt.Errorf("eval.test_fraction = %g, must be in (0, 1)", c.Eval.TestFraction)
	}
	if c.Eval.TopK < 1 {
		return fmt.Errorf("eval.top_k = %d, must be >= 1", c.Eval.TopK)
	}
	return nil
}

func (c *Config) validateArtifact() error {
	if c.Artifact.Dir == "" {
		return fmt.Errorf("artifact.dir is required")
	}
	if c.Artifact.Name == "" {
		return fmt.Errorf("artifact.name is required")
	}
	return nil
}
