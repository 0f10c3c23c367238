// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package evaluation

import (
	"reflect"
	"testing"
)

// classCounts tallies how many rows of each class an index set contains.
func classCounts(labels []int, rows []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, r := range rows {
		counts[labels[r]]++
	}
	return counts
}

func TestStratifiedSplitProportions(t *testing.T) {
	// 100 rows of class 0 and 50 of class 1 at fraction 0.2 give exactly
	// 20 and 10 test rows.
	var labels []int
	for i := 0; i < 100; i++ {
		labels = append(labels, 0)
	}
	for i := 0; i < 50; i++ {
		labels = append(labels, 1)
	}

	split, err := StratifiedSplit(labels, 2, 0.2, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}

	test := classCounts(labels, split.Test, 2)
	if test[0] != 20 || test[1] != 10 {
		t.Errorf("test class counts = %v, want [20 10]", test)
	}
	train := classCounts(labels, split.Train, 2)
	if train[0] != 80 || train[1] != 40 {
		t.Errorf("train class counts = %v, want [80 40]", train)
	}
}

func TestStratifiedSplitIsDisjointAndComplete(t *testing.T) {
	labels := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}

	split, err := StratifiedSplit(labels, 2, 0.3, 1)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}

	seen := make(map[int]int)
	for _, r := range split.Train {
		seen[r]++
	}
	for _, r := range split.Test {
		seen[r]++
	}
	if len(seen) != len(labels) {
		t.Errorf("split covers %d rows, want %d", len(seen), len(labels))
	}
	for r, n := range seen {
		if n != 1 {
			t.Errorf("row %d appears %d times across partitions", r, n)
		}
	}
}

func TestStratifiedSplitEveryClassInBothPartitions(t *testing.T) {
	// Five rows per class is enough that a 0.2 fraction puts at least one
	// row of every class on each side.
	var labels []int
	for c := 0; c < 4; c++ {
		for i := 0; i < 5; i++ {
			labels = append(labels, c)
		}
	}

	split, err := StratifiedSplit(labels, 4, 0.2, 99)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	for c, n := range classCounts(labels, split.Test, 4) {
		if n == 0 {
			t.Errorf("class %d absent from test partition", c)
		}
	}
	for c, n := range classCounts(labels, split.Train, 4) {
		if n == 0 {
			t.Errorf("class %d absent from train partition", c)
		}
	}
}

func TestStratifiedSplitDeterministicForSeed(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1, 0, 1, 0, 1, 0, 1}

	first, err := StratifiedSplit(labels, 2, 0.25, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	second, err := StratifiedSplit(labels, 2, 0.25, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds produced different splits")
	}
}

func TestStratifiedSplitSingletonClassStaysInTrain(t *testing.T) {
	labels := []int{0, 0, 0, 0, 1}

	split, err := StratifiedSplit(labels, 2, 0.2, 3)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if got := classCounts(labels, split.Test, 2)[1]; got != 0 {
		t.Errorf("singleton class has %d test rows, want 0", got)
	}
	if got := classCounts(labels, split.Train, 2)[1]; got != 1 {
		t.Errorf("singleton class has %d train rows, want 1", got)
	}
}

func TestStratifiedSplitRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name     string
		labels   []int
		classes  int
		fraction float64
	}{
		{"zero fraction", []int{0, 1}, 2, 0},
		{"full fraction", []int{0, 1}, 2, 1},
		{"no classes", []int{}, 0, 0.2},
		{"label out of range", []int{0, 2}, 2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StratifiedSplit(tt.labels, tt.classes, tt.fraction, 1); err == nil {
				t.Error("StratifiedSplit() = nil error, want error")
			}
		})
	}
}
