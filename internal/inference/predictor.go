// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package inference

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/artifact"
	"github.com/agrosense/croptrainer/internal/dataset"
	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/logging"
	"github.com/agrosense/croptrainer/internal/mlp"
)

// Recommendation is one ranked crop suggestion.
type Recommendation struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

// Predictor scores raw records against a loaded model bundle. It applies
// the exact feature encoding the bundle was trained with, so callers hand
// over plain column-name-to-string records.
type Predictor struct {
	net      *mlp.Network
	labels   []string
	encoding *features.Encoding
	log      zerolog.Logger
}

// NewPredictor builds a predictor from a bundle, re-validating it first.
func NewPredictor(bundle *artifact.Bundle) (*Predictor, error) {
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}
	net, err := mlp.FromSnapshot(bundle.Model)
	if err != nil {
		return nil, fmt.Errorf("restore network: %w", err)
	}
	return &Predictor{
		net:      net,
		labels:   bundle.Labels,
		encoding: bundle.Encoding,
		log:      logging.With().Str("stage", "inference").Logger(),
	}, nil
}

// Classes returns the crop label catalog, in class-index order.
func (p *Predictor) Classes() []string {
	return append([]string(nil), p.labels...)
}

// Vectorize encodes one raw record into the model's feature vector.
//
// A numeric cell that is absent, empty, or unparsable falls back to the
// column's training median; neighbor imputation needs a batch of rows and
// a single record has none. A missing categorical cell encodes as the
// unknown sentinel, exactly as during training.
func (p *Predictor) Vectorize(record map[string]string) []float64 {
	vec := make([]float64, 0, p.encoding.Width())

	for _, col := range p.encoding.NumericColumns {
		v := dataset.ParseValue(record[col])
		if v.IsNum {
			vec = append(vec, v.Num)
		} else {
			vec = append(vec, p.encoding.Medians[col])
		}
	}

	for i := range p.encoding.Categorical {
		enc := &p.encoding.Categorical[i]
		v := dataset.ParseValue(record[enc.Column])
		category := v.Raw
		if v.Missing {
			category = features.UnknownCategory
		}
		vec = append(vec, enc.Encode(category)...)
	}

	return vec
}

// Recommend returns the k most probable crops for a record, best first.
// Equal probabilities rank by class index, so output is deterministic.
func (p *Predictor) Recommend(record map[string]string, k int) ([]Recommendation, error) {
	if k <= 0 {
		return nil, fmt.Errorf("recommendation depth %d, need at least 1", k)
	}

	probs, err := p.net.Predict(p.Vectorize(record))
	if err != nil {
		return nil, err
	}

	var recs []Recommendation
	for _, c := range mlp.TopIndices(probs, k) {
		recs = append(recs, Recommendation{Crop: p.labels[c], Probability: probs[c]})
	}
	return recs, nil
}
