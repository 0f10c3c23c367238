// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/mlp"
)

// sampleBundle builds a consistent two-feature, two-class bundle.
func sampleBundle() *Bundle {
	enc := &features.Encoding{
		NumericColumns: []string{"Rainfall", "Temperature"},
		Medians:        map[string]float64{"Rainfall": 750, "Temperature": 27.5},
	}
	return &Bundle{
		Model: &mlp.Snapshot{
			Sizes:   []int{2, 2},
			Weights: [][]float64{{1, 0, 0, 1}},
			Biases:  [][]float64{{0, 0}},
		},
		Labels:   []string{"Rice", "Cotton"},
		Columns:  enc.ColumnNames(),
		Encoding: enc,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), "croprecommender")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	bundle := sampleBundle()
	meta, err := store.Save(context.Background(), bundle, Metadata{
		RunID:              "run-1",
		TrainedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		RowCount:           270,
		TrainingDurationMS: 1500,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Checksum == "" {
		t.Error("Save() left checksum empty")
	}
	if meta.FeatureCount != 2 || meta.ClassCount != 2 {
		t.Errorf("feature/class counts = %d/%d, want 2/2", meta.FeatureCount, meta.ClassCount)
	}
	if meta.SizeBytes <= 0 {
		t.Errorf("SizeBytes = %d, want > 0", meta.SizeBytes)
	}

	loaded, loadedMeta, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, bundle) {
		t.Error("loaded bundle differs from saved bundle")
	}
	if loadedMeta.RunID != "run-1" || loadedMeta.RowCount != 270 {
		t.Errorf("loaded metadata = %+v, want run-1 with 270 rows", loadedMeta)
	}
}

func TestSaveWritesMetadataSidecar(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "croprecommender")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), sampleBundle(), Metadata{RunID: "run-2"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "croprecommender.json"))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	for _, want := range []string{`"run_id": "run-2"`, `"feature_count": 2`, `"checksum"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("sidecar missing %s:\n%s", want, data)
		}
	}
}

func TestSaveRejectsInconsistentBundle(t *testing.T) {
	store, err := NewStore(t.TempDir(), "croprecommender")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Bundle)
	}{
		{"nil model", func(b *Bundle) { b.Model = nil }},
		{"nil encoding", func(b *Bundle) { b.Encoding = nil }},
		{
			"label catalog wider than output",
			func(b *Bundle) { b.Labels = append(b.Labels, "Saffron") },
		},
		{
			"encoding wider than model input",
			func(b *Bundle) {
				b.Encoding.NumericColumns = append(b.Encoding.NumericColumns, "Humidity")
			},
		},
		{
			"column list narrower than model input",
			func(b *Bundle) { b.Columns = b.Columns[:1] },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := sampleBundle()
			tt.mutate(bundle)
			if _, err := store.Save(context.Background(), bundle, Metadata{}); err == nil {
				t.Error("Save() = nil error for inconsistent bundle, want error")
			}
		})
	}
}

func TestValidateReportsWidthMismatchAsShapeError(t *testing.T) {
	bundle := sampleBundle()
	bundle.Encoding.NumericColumns = append(bundle.Encoding.NumericColumns, "Humidity")

	err := bundle.Validate()
	var shapeErr *mlp.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Validate() error = %v, want *mlp.ShapeError", err)
	}
	if shapeErr.Want != 2 || shapeErr.Got != 3 {
		t.Errorf("ShapeError want/got = %d/%d, want 2/3", shapeErr.Want, shapeErr.Got)
	}
}

func TestLoadMissingBundle(t *testing.T) {
	store, err := NewStore(t.TempDir(), "croprecommender")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() = nil error with no bundle on disk, want error")
	}
}

func TestLoadRejectsCorruptedBundle(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "croprecommender")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), sampleBundle(), Metadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := store.BundlePath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat bundle: %v", err)
	}
	if err := os.Truncate(path, info.Size()/2); err != nil {
		t.Fatalf("truncate bundle: %v", err)
	}

	if _, _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() = nil error for truncated bundle, want error")
	}
}
