// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/agrosense/croptrainer/internal/artifact"
	"github.com/agrosense/croptrainer/internal/config"
	"github.com/agrosense/croptrainer/internal/dataset"
	"github.com/agrosense/croptrainer/internal/features"
	"github.com/agrosense/croptrainer/internal/inference"
	"github.com/agrosense/croptrainer/internal/labels"
	"github.com/agrosense/croptrainer/internal/mlp"
)

// writeDataset writes a small but learnable crop table: high-rainfall rows
// grow Rice, low-rainfall rows grow Cotton. The Year column is denylisted
// and one Temperature cell is missing to exercise imputation.
func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "crops.csv")

	content := "Year,Rainfall,Temperature,Soil_Type,Primary_Crop\n"
	for i := 0; i < 10; i++ {
		temp := fmt.Sprintf("%d", 24+i%3)
		if i == 4 {
			temp = ""
		}
		content += fmt.Sprintf("2024,%d,%s,Alluvial,Rice\n", 1100+10*i, temp)
	}
	for i := 0; i < 10; i++ {
		content += fmt.Sprintf("2024,%d,%d,Black,Cotton\n", 400+10*i, 30+i%3)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Data: config.DataConfig{
			Path:        writeDataset(t, dir),
			LabelColumn: "Primary_Crop",
			DropColumns: []string{"Year"},
		},
		Features: config.FeaturesConfig{Neighbors: 3},
		Labels:   config.LabelsConfig{MinSupport: 5},
		Trainer: config.TrainerConfig{
			HiddenSizes:  []int{8},
			Dropout:      0.1,
			Epochs:       40,
			BatchSize:    4,
			LearningRate: 0.01,
		},
		Eval:     config.EvalConfig{TestFraction: 0.2, TopK: 2},
		Artifact: config.ArtifactConfig{Dir: filepath.Join(dir, "artifacts"), Name: "test"},
		Seed:     42,
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)

	summary, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.RunID == "" {
		t.Error("empty run ID")
	}
	if summary.Rows != 20 {
		t.Errorf("Rows = %d, want 20", summary.Rows)
	}
	if summary.Classes != 2 {
		t.Errorf("Classes = %d, want 2", summary.Classes)
	}
	if summary.Report == nil || summary.Report.TestRows != 4 {
		t.Errorf("Report = %+v, want 4 test rows (2 per class)", summary.Report)
	}
	if summary.Artifact == nil || summary.Artifact.RunID != summary.RunID {
		t.Errorf("artifact metadata = %+v, want run ID %s", summary.Artifact, summary.RunID)
	}

	// The persisted bundle must be loadable and usable for scoring.
	store, err := artifact.NewStore(cfg.Artifact.Dir, cfg.Artifact.Name)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	bundle, meta, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.RowCount != 20 {
		t.Errorf("stored RowCount = %d, want 20", meta.RowCount)
	}

	predictor, err := inference.NewPredictor(bundle)
	if err != nil {
		t.Fatalf("NewPredictor() error = %v", err)
	}
	recs, err := predictor.Recommend(map[string]string{
		"Rainfall":    "1150",
		"Temperature": "25",
		"Soil_Type":   "Alluvial",
	}, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
}

func TestRunTrainsOnAllFilteredRows(t *testing.T) {
	// The persisted model must come from training on every filtered row.
	// The evaluation split is a read-only diagnostic; a model fitted on
	// only its train partition would differ from the reference below.
	cfg := testConfig(t)

	if _, err := New(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := artifact.NewStore(cfg.Artifact.Dir, cfg.Artifact.Name)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	bundle, _, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Rebuild the pipeline's training inputs and fit a reference model on
	// the full filtered matrix with the same configuration and seed.
	table, err := dataset.LoadCSV(cfg.Data.Path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	feat, err := features.NewBuilder(features.Config{
		LabelColumn: cfg.Data.LabelColumn,
		DropColumns: cfg.Data.DropColumns,
		Neighbors:   cfg.Features.Neighbors,
		Seed:        cfg.Seed,
	}).Build(table, dataset.InferSchema(table))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	filtered, err := labels.NewFilter(labels.Config{MinSupport: cfg.Labels.MinSupport}).
		Apply(feat.Matrix, feat.Labels)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	reference, err := mlp.NewTrainer(mlp.Config{
		HiddenSizes:  cfg.Trainer.HiddenSizes,
		Dropout:      cfg.Trainer.Dropout,
		Epochs:       cfg.Trainer.Epochs,
		BatchSize:    cfg.Trainer.BatchSize,
		LearningRate: cfg.Trainer.LearningRate,
		Seed:         cfg.Seed,
	}).Train(context.Background(), filtered.Matrix, filtered.Encoded, filtered.NumClasses())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if !reflect.DeepEqual(bundle.Model, reference.Snapshot()) {
		t.Error("persisted model differs from training on the full filtered matrix")
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if first.Report.Accuracy != second.Report.Accuracy ||
		first.Report.MacroF1 != second.Report.MacroF1 ||
		first.Report.TopKHits != second.Report.TopKHits {
		t.Errorf("metrics differ across identical runs: %+v vs %+v", first.Report, second.Report)
	}
	if first.Rows != second.Rows || first.Classes != second.Classes {
		t.Errorf("shape differs across identical runs: %+v vs %+v", first, second)
	}
}

func TestRunMissingLabelColumnIsSchemaError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.LabelColumn = "Recommended_Crop"

	_, err := New(cfg).Run(context.Background())
	var schemaErr *features.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Run() error = %v, want *features.SchemaError", err)
	}
	if schemaErr.Column != "Recommended_Crop" {
		t.Errorf("SchemaError.Column = %q, want Recommended_Crop", schemaErr.Column)
	}
}

func TestRunInsufficientClasses(t *testing.T) {
	cfg := testConfig(t)
	cfg.Labels.MinSupport = 11 // only one class can reach it

	_, err := New(cfg).Run(context.Background())
	var insuffErr *labels.InsufficientClassesError
	if !errors.As(err, &insuffErr) {
		t.Fatalf("Run() error = %v, want *labels.InsufficientClassesError", err)
	}
}

func TestRunMissingDataFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Path = filepath.Join(t.TempDir(), "absent.csv")

	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("Run() = nil error for missing data file, want error")
	}
}

func TestRunInvalidDeclaredSchema(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Schema = map[string]string{"Rainfall": "imaginary"}

	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("Run() = nil error for invalid schema kind, want error")
	}
}
