// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package artifact

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/logging"
	"github.com/agrosense/croptrainer/internal/mlp"
)

const defaultName = "croprecommender"

// Metadata describes a stored bundle.
type Metadata struct {
	// RunID identifies the training run that produced the bundle.
	RunID string `json:"run_id"`

	// TrainedAt is when training finished.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the bundle was written.
	SavedAt time.Time `json:"saved_at"`

	// RowCount is the number of training rows after filtering.
	RowCount int `json:"row_count"`

	// FeatureCount is the encoded feature width D.
	FeatureCount int `json:"feature_count"`

	// ClassCount is the number of crop classes K.
	ClassCount int `json:"class_count"`

	// Checksum is the SHA-256 of the uncompressed bundle encoding.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed bundle size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is wall-clock training time.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Bundle is everything needed to score a raw record later: the trained
// network, the label catalog, and the full feature encoding recipe.
type Bundle struct {
	// Model is the serialized network.
	Model *mlp.Snapshot

	// Labels maps class index to crop name, in training order.
	Labels []string

	// Columns are the encoded feature column names, in matrix order.
	Columns []string

	// Encoding reconstructs the feature vector for a raw record.
	Encoding *features.Encoding
}

// Validate checks that the bundle is internally consistent: the encoding
// width, column list, and model input width must agree, and the label
// catalog must match the model output width.
func (b *Bundle) Validate() error {
	if b.Model == nil {
		return fmt.Errorf("bundle has no model")
	}
	if b.Encoding == nil {
		return fmt.Errorf("bundle has no feature encoding")
	}
	net, err := mlp.FromSnapshot(b.Model)
	if err != nil {
		return fmt.Errorf("invalid model snapshot: %w", err)
	}
	if b.Encoding.Width() != net.InputDim() {
		return &mlp.ShapeError{Dim: "feature encoding width", Want: net.InputDim(), Got: b.Encoding.Width()}
	}
	if len(b.Columns) != net.InputDim() {
		return &mlp.ShapeError{Dim: "feature column count", Want: net.InputDim(), Got: len(b.Columns)}
	}
	if len(b.Labels) != net.OutputDim() {
		return &mlp.ShapeError{Dim: "label catalog size", Want: net.OutputDim(), Got: len(b.Labels)}
	}
	return nil
}

// storedFile is the on-disk layout: metadata plus the gzip-compressed
// gob encoding of the bundle.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store persists one model bundle per directory. Writes go through a
// temporary file and rename, so a crash mid-save never leaves a truncated
// bundle behind.
type Store struct {
	dir  string
	name string
	mu   sync.RWMutex
	log  zerolog.Logger
}

// NewStore creates a store rooted at dir, creating the directory if
// needed. name is the artifact base name; the bundle lands at
// {dir}/{name}.gob.gz with a {name}.json sidecar.
func NewStore(dir, name string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory is empty")
	}
	if name == "" {
		name = defaultName
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{
		dir:  dir,
		name: name,
		log:  logging.With().Str("stage", "artifact").Logger(),
	}, nil
}

// BundlePath returns the on-disk location of the bundle.
func (s *Store) BundlePath() string {
	return filepath.Join(s.dir, s.name+".gob.gz")
}

// sidecarPath returns the metadata sidecar location.
func (s *Store) sidecarPath() string {
	return filepath.Join(s.dir, s.name+".json")
}

// Save writes the bundle and a human-readable metadata sidecar. The
// bundle is validated before anything touches disk.
func (s *Store) Save(ctx context.Context, bundle *Bundle, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save inconsistent bundle: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(bundle); err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress bundle: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SavedAt = time.Now()
	meta.SizeBytes = int64(compressed.Len())
	meta.FeatureCount = bundle.Encoding.Width()
	meta.ClassCount = len(bundle.Labels)

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	var fileBuf bytes.Buffer
	if err := gob.NewEncoder(&fileBuf).Encode(sf); err != nil {
		return nil, fmt.Errorf("encode bundle file: %w", err)
	}
	if err := s.writeAtomic(s.BundlePath(), fileBuf.Bytes()); err != nil {
		return nil, err
	}

	sidecar, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata sidecar: %w", err)
	}
	if err := s.writeAtomic(s.sidecarPath(), append(sidecar, '\n')); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("run_id", meta.RunID).
		Str("path", s.BundlePath()).
		Int64("size_bytes", meta.SizeBytes).
		Int("features", meta.FeatureCount).
		Int("classes", meta.ClassCount).
		Msg("bundle saved")
	return &meta, nil
}

// Load reads the bundle back, verifying the checksum and the internal
// width agreement before returning it.
func (s *Store) Load(ctx context.Context) (*Bundle, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.BundlePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("read bundle file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress bundle: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed bundle: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var bundle Bundle
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&bundle); err != nil {
		return nil, nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, nil, fmt.Errorf("stored bundle is inconsistent: %w", err)
	}

	return &bundle, &sf.Metadata, nil
}

// writeAtomic writes data to path via a temporary file in the same
// directory followed by a rename.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s into place: %w", path, err)
	}
	return nil
}
