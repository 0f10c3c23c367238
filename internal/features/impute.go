// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package features

import (
	"math"
	"sort"
)

// neighbor is one imputation candidate row and its distance to the row
// being filled.
type neighbor struct {
	row  int
	dist float64
}

// knnImpute fills NaN cells of m (rows x cols) in place using a
// distance-weighted k-nearest-neighbor estimate.
//
// Distances are computed jointly over all columns of m, so the imputation
// of one column can borrow signal from correlated columns. Distances use
// the original values: a frozen copy is taken up front, so fill order never
// influences the result. Pairs with no mutually observed coordinate are
// incomparable and skipped; the distance over partially observed pairs is
// scaled up by cols/observed, mirroring a Euclidean distance over the full
// width.
//
// tieOrder is a per-run permutation rank for each row; rows at equal
// distance are taken in tieOrder rank so the neighbor choice is
// reproducible for a fixed seed.
//
// Returns the number of cells filled and the number left NaN because no
// neighbor carried the value.
func knnImpute(m [][]float64, k int, tieOrder []int) (filled, unfilled int) {
	rows := len(m)
	if rows == 0 {
		return 0, 0
	}
	cols := len(m[0])

	// Frozen snapshot for distance computation and neighbor values.
	orig := make([][]float64, rows)
	for i, row := range m {
		orig[i] = make([]float64, cols)
		copy(orig[i], row)
	}

	for i := 0; i < rows; i++ {
		var missingCols []int
		for c := 0; c < cols; c++ {
			if math.IsNaN(m[i][c]) {
				missingCols = append(missingCols, c)
			}
		}
		if len(missingCols) == 0 {
			continue
		}

		// Distance from row i to every other row, once per row.
		dists := make([]float64, rows)
		for j := 0; j < rows; j++ {
			if j == i {
				dists[j] = math.NaN()
				continue
			}
			dists[j] = nanEuclidean(orig[i], orig[j])
		}

		for _, c := range missingCols {
			var candidates []neighbor
			for j := 0; j < rows; j++ {
				if j == i || math.IsNaN(dists[j]) || math.IsNaN(orig[j][c]) {
					continue
				}
				candidates = append(candidates, neighbor{row: j, dist: dists[j]})
			}
			if len(candidates) == 0 {
				unfilled++
				continue
			}

			sort.Slice(candidates, func(a, b int) bool {
				if candidates[a].dist != candidates[b].dist {
					return candidates[a].dist < candidates[b].dist
				}
				return tieOrder[candidates[a].row] < tieOrder[candidates[b].row]
			})
			if len(candidates) > k {
				candidates = candidates[:k]
			}

			m[i][c] = weightedEstimate(candidates, orig, c)
			filled++
		}
	}

	return filled, unfilled
}

// weightedEstimate averages neighbor values with inverse-distance weights.
// Exact matches (distance zero) dominate: their plain mean is returned.
func weightedEstimate(neighbors []neighbor, orig [][]float64, c int) float64 {
	var zeroSum float64
	var zeroCount int
	for _, n := range neighbors {
		if n.dist == 0 {
			zeroSum += orig[n.row][c]
			zeroCount++
		}
	}
	if zeroCount > 0 {
		return zeroSum / float64(zeroCount)
	}

	var num, den float64
	for _, n := range neighbors {
		w := 1.0 / n.dist
		num += w * orig[n.row][c]
		den += w
	}
	return num / den
}

// nanEuclidean is the Euclidean distance over mutually observed
// coordinates, scaled to the full vector width. NaN when the rows share no
// observed coordinate.
func nanEuclidean(a, b []float64) float64 {
	var sum float64
	observed := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		d := a[i] - b[i]
		sum += d * d
		observed++
	}
	if observed == 0 {
		return math.NaN()
	}
	return math.Sqrt(sum * float64(len(a)) / float64(observed))
}
