// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package mlp

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/agrosense/croptrainer/internal/logging"
)

// Config contains configuration for the trainer.
type Config struct {
	// HiddenSizes are the hidden layer widths. Defaults to [128, 64].
	HiddenSizes []int

	// Dropout is the fraction of hidden units zeroed per training step.
	// Defaults to 0.3. Applies only during training.
	Dropout float64

	// Epochs is the number of full passes over the training set.
	// Defaults to 100.
	Epochs int

	// BatchSize is the mini-batch size. Defaults to 32.
	BatchSize int

	// LearningRate is the Adam step size. Defaults to 0.001.
	LearningRate float64

	// Seed drives weight initialization, epoch shuffling, and dropout
	// masks. The same seed and inputs reproduce the same network.
	Seed int64
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		HiddenSizes:  []int{128, 64},
		Dropout:      0.3,
		Epochs:       100,
		BatchSize:    32,
		LearningRate: 0.001,
		Seed:         42,
	}
}

// Trainer fits a Network to an encoded feature matrix and integer class
// labels using mini-batch gradient descent with the Adam optimizer.
type Trainer struct {
	cfg Config
	log zerolog.Logger
}

// NewTrainer creates a trainer, filling zero-valued fields from defaults.
func NewTrainer(cfg Config) *Trainer {
	def := DefaultConfig()
	if len(cfg.HiddenSizes) == 0 {
		cfg.HiddenSizes = def.HiddenSizes
	}
	// Zero dropout is a valid setting; only out-of-range values reset.
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		cfg.Dropout = def.Dropout
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = def.Epochs
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	return &Trainer{
		cfg: cfg,
		log: logging.With().Str("stage", "trainer").Logger(),
	}
}

// Train fits a network on the given rows and labels. labelIdx holds the
// class index of each row, and numClasses is K.
//
// All shape problems are rejected with ShapeError before any optimization
// work starts: K below two, an empty matrix, ragged rows, or a label index
// outside [0, K).
func (t *Trainer) Train(ctx context.Context, matrix [][]float64, labelIdx []int, numClasses int) (*Network, error) {
	if numClasses < 2 {
		return nil, &ShapeError{Dim: "output classes (need at least 2)", Want: 2, Got: numClasses}
	}
	if len(matrix) == 0 {
		return nil, &ShapeError{Dim: "training rows", Want: 1, Got: 0}
	}
	if len(labelIdx) != len(matrix) {
		return nil, &ShapeError{Dim: "label vector length", Want: len(matrix), Got: len(labelIdx)}
	}
	width := len(matrix[0])
	if width == 0 {
		return nil, &ShapeError{Dim: "feature width", Want: 1, Got: 0}
	}
	for i, row := range matrix {
		if len(row) != width {
			return nil, &ShapeError{Dim: fmt.Sprintf("row %d width", i), Want: width, Got: len(row)}
		}
	}
	for i, y := range labelIdx {
		if y < 0 || y >= numClasses {
			return nil, &ShapeError{Dim: fmt.Sprintf("row %d label index (max)", i), Want: numClasses - 1, Got: y}
		}
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(t.cfg.Seed))

	sizes := append([]int{width}, t.cfg.HiddenSizes...)
	sizes = append(sizes, numClasses)
	net := t.initNetwork(sizes, rng)

	// One flat view per tensor so the optimizer updates weights in place.
	var params [][]float64
	var lengths []int
	for l := range net.weights {
		w := net.weights[l].RawMatrix().Data
		b := net.biases[l].RawVector().Data
		params = append(params, w, b)
		lengths = append(lengths, len(w), len(b))
	}
	opt := newAdam(t.cfg.LearningRate, lengths)

	t.log.Info().
		Ints("layer_sizes", sizes).
		Int("rows", len(matrix)).
		Int("epochs", t.cfg.Epochs).
		Int("batch_size", t.cfg.BatchSize).
		Float64("dropout", t.cfg.Dropout).
		Msg("starting training")

	var lastLoss float64
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		perm := rng.Perm(len(matrix))
		var epochLoss float64
		var batches int
		for lo := 0; lo < len(perm); lo += t.cfg.BatchSize {
			hi := lo + t.cfg.BatchSize
			if hi > len(perm) {
				hi = len(perm)
			}
			loss := t.trainBatch(net, opt, params, matrix, labelIdx, perm[lo:hi], rng)
			epochLoss += loss
			batches++
		}
		lastLoss = epochLoss / float64(batches)

		if (epoch+1)%10 == 0 || epoch == t.cfg.Epochs-1 {
			t.log.Debug().
				Int("epoch", epoch+1).
				Float64("loss", lastLoss).
				Msg("epoch complete")
		}
	}

	t.log.Info().
		Float64("final_loss", lastLoss).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
	return net, nil
}

// initNetwork builds a network with Glorot-uniform weights and zero biases.
func (t *Trainer) initNetwork(sizes []int, rng *rand.Rand) *Network {
	net := &Network{sizes: append([]int(nil), sizes...)}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		limit := math.Sqrt(6.0 / float64(in+out))
		data := make([]float64, in*out)
		for i := range data {
			data[i] = (rng.Float64()*2 - 1) * limit
		}
		net.weights = append(net.weights, mat.NewDense(in, out, data))
		net.biases = append(net.biases, mat.NewVecDense(out, nil))
	}
	return net
}

// trainBatch runs forward and backward passes over one mini-batch and
// applies a single optimizer step. Returns the mean cross-entropy loss of
// the batch.
func (t *Trainer) trainBatch(net *Network, opt *adam, params [][]float64,
	matrix [][]float64, labelIdx []int, batch []int, rng *rand.Rand) float64 {

	b := len(batch)
	layers := len(net.weights)
	keep := 1 - t.cfg.Dropout

	// Forward. acts[l] is the input to layer l (post-activation,
	// post-dropout); zs[l] is layer l's pre-activation output.
	input := mat.NewDense(b, net.InputDim(), nil)
	for i, row := range batch {
		input.SetRow(i, matrix[row])
	}

	acts := make([]*mat.Dense, layers)
	zs := make([]*mat.Dense, layers)
	masks := make([]*mat.Dense, layers)

	a := input
	for l := 0; l < layers; l++ {
		acts[l] = a
		_, out := net.weights[l].Dims()
		z := mat.NewDense(b, out, nil)
		z.Mul(a, net.weights[l])
		addBias(z, net.biases[l])
		zs[l] = z

		if l == layers-1 {
			probs := mat.DenseCopyOf(z)
			applySoftmaxRows(probs)
			a = probs
			break
		}

		h := mat.DenseCopyOf(z)
		applyRelu(h)
		mask := mat.NewDense(b, out, nil)
		mask.Apply(func(_, _ int, _ float64) float64 {
			if rng.Float64() < keep {
				return 1 / keep
			}
			return 0
		}, mask)
		masks[l] = mask
		h.MulElem(h, mask)
		a = h
	}
	probs := a

	var loss float64
	for i, row := range batch {
		p := probs.At(i, labelIdx[row])
		if p < 1e-12 {
			p = 1e-12
		}
		loss -= math.Log(p)
	}
	loss /= float64(b)

	// Backward. delta starts as (probs - onehot) / b at the output layer.
	delta := mat.DenseCopyOf(probs)
	for i, row := range batch {
		delta.Set(i, labelIdx[row], delta.At(i, labelIdx[row])-1)
	}
	delta.Scale(1/float64(b), delta)

	grads := make([][]float64, len(params))
	for l := layers - 1; l >= 0; l-- {
		in, out := net.weights[l].Dims()
		dw := mat.NewDense(in, out, nil)
		dw.Mul(acts[l].T(), delta)
		db := make([]float64, out)
		rows, _ := delta.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < out; j++ {
				db[j] += delta.At(i, j)
			}
		}
		grads[2*l] = dw.RawMatrix().Data
		grads[2*l+1] = db

		if l == 0 {
			break
		}
		prev := mat.NewDense(b, in, nil)
		prev.Mul(delta, net.weights[l].T())
		prev.MulElem(prev, masks[l-1])
		// Rectifier gradient: zero wherever the pre-activation was not
		// positive.
		prev.Apply(func(i, j int, v float64) float64 {
			if zs[l-1].At(i, j) > 0 {
				return v
			}
			return 0
		}, prev)
		delta = prev
	}

	opt.step(params, grads)
	return loss
}
