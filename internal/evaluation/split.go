// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package evaluation

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split holds row indices for the two partitions of a dataset. Indices
// within each partition are ascending; the union is exactly the input rows
// and the intersection is empty.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows into train and test sets so each class
// keeps close to the requested test fraction. Rows are shuffled within
// their class by a seeded source, so the same seed reproduces the same
// partition.
//
// Each class with at least two rows contributes at least one row to each
// partition. A singleton class goes entirely to the train partition.
func StratifiedSplit(labels []int, numClasses int, testFraction float64, seed int64) (*Split, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("test fraction %v outside (0, 1)", testFraction)
	}
	if numClasses < 1 {
		return nil, fmt.Errorf("need at least one class, got %d", numClasses)
	}

	byClass := make([][]int, numClasses)
	for i, y := range labels {
		if y < 0 || y >= numClasses {
			return nil, fmt.Errorf("label index %d at row %d outside [0, %d)", y, i, numClasses)
		}
		byClass[y] = append(byClass[y], i)
	}

	rng := rand.New(rand.NewSource(seed))
	split := &Split{}
	for _, rows := range byClass {
		if len(rows) == 0 {
			continue
		}
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})

		nTest := int(testFraction*float64(len(rows)) + 0.5)
		if len(rows) == 1 {
			nTest = 0
		} else {
			if nTest < 1 {
				nTest = 1
			}
			if nTest > len(rows)-1 {
				nTest = len(rows) - 1
			}
		}
		split.Test = append(split.Test, rows[:nTest]...)
		split.Train = append(split.Train, rows[nTest:]...)
	}

	sort.Ints(split.Train)
	sort.Ints(split.Test)
	return split, nil
}
