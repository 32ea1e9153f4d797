package contentrec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
)

var testCorpus = []Document{
	{ID: "1", Content: "The quick brown fox jumps over the lazy dog"},
	{ID: "2", Content: "A quick brown fox"},
	{ID: "3", Content: "Stock markets rallied on strong earnings"},
	{ID: "4", Content: "Earnings beat expectations and markets rallied"},
}

func TestNew_Defaults(t *testing.T) {
	rec, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := rec.Options()
	want := DefaultOptions()
	if got.MaxVectorSize != want.MaxVectorSize || got.Language != English || got.MinScore != want.MinScore {
		t.Errorf("Options() = %+v", got)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero vector size", WithMaxVectorSize(0)},
		{"negative similar", WithMaxSimilarDocuments(-1)},
		{"score above one", WithMinScore(1.5)},
		{"unknown language", WithLanguage("xx")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) || ce.Field == "" {
				t.Errorf("expected ConfigurationError with field, got %v", err)
			}
		})
	}
}

func TestTrainAndQuery(t *testing.T) {
	rec, err := New(WithMaxSimilarDocuments(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Train(context.Background(), testCorpus); err != nil {
		t.Fatalf("Train: %v", err)
	}

	got := rec.SimilarDocuments("1", 0, -1)
	if len(got) == 0 || got[0].ID != "2" {
		t.Fatalf("expected 2 first, got %+v", got)
	}
	if len(got) > 2 {
		t.Errorf("list longer than maxSimilarDocuments: %d", len(got))
	}
	if got := rec.SimilarDocuments("3", 0, 1); len(got) != 1 || got[0].ID != "4" {
		t.Errorf("expected [4], got %+v", got)
	}
	if got := rec.SimilarDocuments("missing", 0, 10); got == nil || len(got) != 0 {
		t.Errorf("unknown id: got %+v", got)
	}
}

func TestTrain_InvalidKeepsTable(t *testing.T) {
	rec, _ := New()
	ctx := context.Background()
	if err := rec.Train(ctx, testCorpus); err != nil {
		t.Fatal(err)
	}

	err := rec.Train(ctx, []Document{{ID: "x", Content: "a", Fields: map[string]any{"tokens": 1}}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := rec.SimilarDocuments("1", 0, 1); len(got) != 1 {
		t.Errorf("previous table lost: %+v", got)
	}
}

func TestTrainBidirectional(t *testing.T) {
	rec, _ := New()
	docs := []Document{{ID: "q", Content: "brown fox"}}
	targets := []Document{{ID: "t1", Content: "quick brown fox"}, {ID: "t2", Content: "markets"}}
	if err := rec.TrainBidirectional(context.Background(), docs, targets); err != nil {
		t.Fatalf("TrainBidirectional: %v", err)
	}
	if got := rec.SimilarDocuments("q", 0, -1); len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("q: got %+v", got)
	}
	if got := rec.SimilarDocuments("t2", 0, -1); len(got) != 0 {
		t.Errorf("t2: got %+v", got)
	}
}

func TestExportImport(t *testing.T) {
	src, _ := New(WithMinScore(0.05))
	if err := src.Train(context.Background(), testCorpus); err != nil {
		t.Fatal(err)
	}
	m := src.Export()

	dst, _ := New()
	if err := dst.Import(m); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.Options().MinScore != 0.05 {
		t.Errorf("options not imported: %+v", dst.Options())
	}
	a, b := src.SimilarDocuments("1", 0, -1), dst.SimilarDocuments("1", 0, -1)
	if len(a) != len(b) || (len(a) > 0 && a[0] != b[0]) {
		t.Errorf("imported table differs: %+v vs %+v", a, b)
	}
}

func TestSetOptions(t *testing.T) {
	rec, _ := New(WithMaxVectorSize(5))
	size := 20
	if err := rec.SetOptions(OptionsPatch{MaxVectorSize: &size}); err != nil {
		t.Fatal(err)
	}
	if rec.Options().MaxVectorSize != 20 {
		t.Errorf("MaxVectorSize = %d", rec.Options().MaxVectorSize)
	}

	bad := "xx"
	if err := rec.SetOptions(OptionsPatch{Language: &bad}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestWithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := New(WithPrometheus(reg))
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Train(context.Background(), testCorpus); err != nil {
		t.Fatal(err)
	}
	n, err := testutil.GatherAndCount(reg, "contentrec_training_runs_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("training runs series = %d, want 1", n)
	}
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.jsonl")
	data := "{\"id\":\"a\",\"content\":\"one\",\"lang\":\"en\"}\n{\"id\":\"b\",\"content\":\"two\"}\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadDocuments(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		t.Fatalf("LoadDocuments: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[0].Fields["lang"] != "en" {
		t.Errorf("unexpected docs: %+v", docs)
	}
}

func TestWithPrometheus_DictionaryObserverAttachedOnce(t *testing.T) {
	if _, err := New(WithPrometheus(prometheus.NewRegistry())); err != nil {
		t.Fatalf("New: %v", err)
	}
	first := tokenizer.Shared().Observer()
	if first == nil {
		t.Fatal("dictionary observer should be attached")
	}

	if _, err := New(WithPrometheus(prometheus.NewRegistry())); err != nil {
		t.Fatalf("New: %v", err)
	}
	if tokenizer.Shared().Observer() != first {
		t.Error("a later Recommender must not take over dictionary metrics")
	}
}
