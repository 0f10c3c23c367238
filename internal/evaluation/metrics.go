// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package evaluation

import (
	"github.com/agrosense/croptrainer/internal/mlp"
)

// Accuracy is the fraction of predictions matching the true label.
func Accuracy(trueIdx, predIdx []int) float64 {
	if len(trueIdx) == 0 {
		return 0
	}
	correct := 0
	for i, y := range trueIdx {
		if predIdx[i] == y {
			correct++
		}
	}
	return float64(correct) / float64(len(trueIdx))
}

// MacroF1 averages per-class F1 over every class present in either the
// true or the predicted labels. A class predicted but never seen (or seen
// but never predicted) contributes its zero-ish F1 rather than being
// skipped, which keeps the metric honest about spurious predictions.
func MacroF1(trueIdx, predIdx []int) float64 {
	classes := make(map[int]struct{})
	for _, y := range trueIdx {
		classes[y] = struct{}{}
	}
	for _, y := range predIdx {
		classes[y] = struct{}{}
	}
	if len(classes) == 0 {
		return 0
	}

	var sum float64
	for c := range classes {
		var tp, fp, fn int
		for i := range trueIdx {
			switch {
			case trueIdx[i] == c && predIdx[i] == c:
				tp++
			case trueIdx[i] != c && predIdx[i] == c:
				fp++
			case trueIdx[i] == c && predIdx[i] != c:
				fn++
			}
		}
		var precision, recall float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		if precision+recall > 0 {
			sum += 2 * precision * recall / (precision + recall)
		}
	}
	return sum / float64(len(classes))
}

// TopKHitRate is the fraction of rows whose true label appears among the k
// highest-probability classes. Ties rank by ascending class index.
func TopKHitRate(trueIdx []int, probs [][]float64, k int) float64 {
	if len(trueIdx) == 0 {
		return 0
	}
	hits := 0
	for i, y := range trueIdx {
		for _, c := range mlp.TopIndices(probs[i], k) {
			if c == y {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(trueIdx))
}
