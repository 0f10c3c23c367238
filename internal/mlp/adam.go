// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package mlp

import "math"

// adam is a first-order optimizer with bias-corrected moment estimates. It
// operates on flat parameter slices so one instance can drive every weight
// and bias tensor of the network.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t int
	m [][]float64
	v [][]float64
}

// newAdam allocates moment buffers matching the given tensor lengths.
func newAdam(lr float64, lengths []int) *adam {
	a := &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-7,
	}
	for _, n := range lengths {
		a.m = append(a.m, make([]float64, n))
		a.v = append(a.v, make([]float64, n))
	}
	return a
}

// step applies one update to each parameter tensor in place. params and
// grads must be aligned with the lengths passed to newAdam.
func (a *adam) step(params, grads [][]float64) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for p := range params {
		m, v := a.m[p], a.v[p]
		for i, g := range grads[p] {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
			mHat := m[i] / c1
			vHat := v[i] / c2
			params[p][i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
