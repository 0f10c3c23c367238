// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package mlp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Network is a feed-forward multi-class classifier: hidden layers with a
// rectifying nonlinearity, terminated by a softmax output whose entries sum
// to one. Immutable after training completes; dropout exists only inside
// the trainer and is a no-op here.
type Network struct {
	// weights[l] is (in x out) for layer l; biases[l] has length out.
	weights []*mat.Dense
	biases  []*mat.VecDense

	// sizes is [inputDim, hidden..., outputDim].
	sizes []int
}

// InputDim returns D, the expected feature vector width.
func (n *Network) InputDim() int {
	return n.sizes[0]
}

// OutputDim returns K, the number of classes.
func (n *Network) OutputDim() int {
	return n.sizes[len(n.sizes)-1]
}

// Predict maps one D-length feature vector to a K-length probability
// distribution. A vector of any other length fails with ShapeError.
func (n *Network) Predict(x []float64) ([]float64, error) {
	if len(x) != n.InputDim() {
		return nil, &ShapeError{Dim: "input vector width", Want: n.InputDim(), Got: len(x)}
	}

	a := x
	for l := range n.weights {
		w := n.weights[l]
		_, out := w.Dims()
		next := make([]float64, out)
		for j := 0; j < out; j++ {
			sum := n.biases[l].AtVec(j)
			for i, v := range a {
				sum += v * w.At(i, j)
			}
			next[j] = sum
		}
		if l < len(n.weights)-1 {
			reluInPlace(next)
		} else {
			softmaxInPlace(next)
		}
		a = next
	}
	return a, nil
}

// PredictBatch scores many rows at once as one dense matrix product.
func (n *Network) PredictBatch(rows [][]float64) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	d := n.InputDim()
	for i, row := range rows {
		if len(row) != d {
			return nil, &ShapeError{Dim: fmt.Sprintf("row %d width", i), Want: d, Got: len(row)}
		}
	}

	a := denseFromRows(rows)
	for l := range n.weights {
		_, out := n.weights[l].Dims()
		z := mat.NewDense(len(rows), out, nil)
		z.Mul(a, n.weights[l])
		addBias(z, n.biases[l])
		if l < len(n.weights)-1 {
			applyRelu(z)
		} else {
			applySoftmaxRows(z)
		}
		a = z
	}

	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = mat.Row(nil, i, a)
	}
	return out, nil
}

// Snapshot is the serializable form of a network, persisted by the
// artifact store.
type Snapshot struct {
	// Sizes is [inputDim, hidden..., outputDim].
	Sizes []int

	// Weights holds each layer's (in x out) matrix in row-major order.
	Weights [][]float64

	// Biases holds each layer's bias vector.
	Biases [][]float64
}

// Snapshot exports the learned parameters.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{Sizes: append([]int(nil), n.sizes...)}
	for l := range n.weights {
		raw := n.weights[l].RawMatrix()
		s.Weights = append(s.Weights, append([]float64(nil), raw.Data...))
		s.Biases = append(s.Biases, append([]float64(nil), n.biases[l].RawVector().Data...))
	}
	return s
}

// FromSnapshot reconstructs a network, validating every dimension.
func FromSnapshot(s *Snapshot) (*Network, error) {
	if len(s.Sizes) < 2 {
		return nil, fmt.Errorf("snapshot needs at least input and output sizes, got %v", s.Sizes)
	}
	layers := len(s.Sizes) - 1
	if len(s.Weights) != layers || len(s.Biases) != layers {
		return nil, fmt.Errorf("snapshot has %d weight and %d bias tensors for %d layers",
			len(s.Weights), len(s.Biases), layers)
	}

	n := &Network{sizes: append([]int(nil), s.Sizes...)}
	for l := 0; l < layers; l++ {
		in, out := s.Sizes[l], s.Sizes[l+1]
		if len(s.Weights[l]) != in*out {
			return nil, &ShapeError{Dim: fmt.Sprintf("layer %d weights", l), Want: in * out, Got: len(s.Weights[l])}
		}
		if len(s.Biases[l]) != out {
			return nil, &ShapeError{Dim: fmt.Sprintf("layer %d biases", l), Want: out, Got: len(s.Biases[l])}
		}
		n.weights = append(n.weights, mat.NewDense(in, out, append([]float64(nil), s.Weights[l]...)))
		n.biases = append(n.biases, mat.NewVecDense(out, append([]float64(nil), s.Biases[l]...)))
	}
	return n, nil
}

// denseFromRows copies a row-slice matrix into a mat.Dense.
func denseFromRows(rows [][]float64) *mat.Dense {
	r, c := len(rows), len(rows[0])
	data := make([]float64, 0, r*c)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data)
}

// addBias adds the bias vector to every row of z.
func addBias(z *mat.Dense, b *mat.VecDense) {
	r, c := z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			z.Set(i, j, z.At(i, j)+b.AtVec(j))
		}
	}
}

// applyRelu rectifies every entry of z in place.
func applyRelu(z *mat.Dense) {
	z.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, z)
}

// applySoftmaxRows normalizes each row of z to a probability distribution.
func applySoftmaxRows(z *mat.Dense) {
	r, _ := z.Dims()
	for i := 0; i < r; i++ {
		softmaxInPlace(z.RawRowView(i))
	}
}

// reluInPlace rectifies a vector.
func reluInPlace(v []float64) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// softmaxInPlace exponentiates and normalizes a vector, shifted by its max
// for numerical stability.
func softmaxInPlace(v []float64) {
	maxVal := math.Inf(-1)
	for _, x := range v {
		if x > maxVal {
			maxVal = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(x - maxVal)
		v[i] = e
		sum += e
	}
	for i := range v {
		v[i] /= sum
	}
}
