// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package evaluation

import (
	"testing"

	"github.com/agrosense/croptrainer/internal/mlp"
)

// passthroughNet returns a two-class network whose output ranking follows
// the raw input values, which makes expected predictions easy to read.
func passthroughNet(t *testing.T) *mlp.Network {
	t.Helper()
	net, err := mlp.FromSnapshot(&mlp.Snapshot{
		Sizes:   []int{2, 2},
		Weights: [][]float64{{1, 0, 0, 1}},
		Biases:  [][]float64{{0, 0}},
	})
	if err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	return net
}

func TestAssessComputesMetrics(t *testing.T) {
	net := passthroughNet(t)

	// Rows 2 and 3 form the test partition. Row 2 predicts class 0
	// correctly; row 3 predicts class 0 but the truth is class 1.
	matrix := [][]float64{
		{5, 0}, {0, 5},
		{5, 0}, {5, 0},
	}
	labels := []int{0, 1, 0, 1}

	report, err := NewEvaluator(Config{TopK: 2}).Assess(net, matrix, labels, []int{2, 3})
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if report.TestRows != 2 || report.TrainRows != 2 {
		t.Errorf("rows = %d/%d, want 2/2", report.TrainRows, report.TestRows)
	}
	if !almostEqual(report.Accuracy, 0.5) {
		t.Errorf("Accuracy = %v, want 0.5", report.Accuracy)
	}
	// With only two classes, top-2 always contains the truth.
	if !almostEqual(report.TopKHits, 1) {
		t.Errorf("TopKHits = %v, want 1", report.TopKHits)
	}
	if report.TopK != 2 {
		t.Errorf("TopK = %d, want 2", report.TopK)
	}
}

func TestAssessRejectsEmptyTestPartition(t *testing.T) {
	net := passthroughNet(t)
	if _, err := NewEvaluator(Config{}).Assess(net, [][]float64{{1, 2}}, []int{0}, nil); err == nil {
		t.Error("Assess() = nil error for empty test partition, want error")
	}
}

func TestAssessRejectsOutOfRangeTestIndex(t *testing.T) {
	net := passthroughNet(t)
	if _, err := NewEvaluator(Config{}).Assess(net, [][]float64{{1, 2}}, []int{0}, []int{5}); err == nil {
		t.Error("Assess() = nil error for out-of-range test index, want error")
	}
}

func TestEvaluatorSplitUsesConfig(t *testing.T) {
	labels := make([]int, 0, 20)
	for i := 0; i < 10; i++ {
		labels = append(labels, 0, 1)
	}

	split, err := NewEvaluator(Config{TestFraction: 0.2, Seed: 42}).Split(labels, 2)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(split.Test) != 4 {
		t.Errorf("len(Test) = %d, want 4 (two per class)", len(split.Test))
	}
	if len(split.Train) != 16 {
		t.Errorf("len(Train) = %d, want 16", len(split.Train))
	}
}
