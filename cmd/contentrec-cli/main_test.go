package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

const testCorpus = `{"id":"1","content":"The quick brown fox jumps over the lazy dog"}
{"id":"2","content":"A quick brown fox"}
{"id":"3","content":"Stock markets rallied on strong earnings"}
{"id":"4","content":"Earnings beat expectations and markets rallied"}
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "docs.jsonl")
	if err := os.WriteFile(path, []byte(testCorpus), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrainThenSimilar(t *testing.T) {
	dir := t.TempDir()
	input := writeCorpus(t, dir)
	out := filepath.Join(dir, "model.json")

	stdout, err := runCLI(t, "train", "--input", input, "--out", out, "--json")
	if err != nil {
		t.Fatalf("train: %v\n%s", err, stdout)
	}
	var summary trainSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, stdout)
	}
	if summary.Mode != "single" || summary.Documents != 4 || summary.Output != out {
		t.Errorf("unexpected summary: %+v", summary)
	}

	stdout, err = runCLI(t, "similar", "--model", out, "--id", "3", "--size", "1")
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	var items []similar.Document
	if err := json.Unmarshal([]byte(stdout), &items); err != nil {
		t.Fatalf("non-terminal output should be JSON: %v\n%s", err, stdout)
	}
	if len(items) != 1 || items[0].ID != "4" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestSimilar_Table(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "model.yaml")
	if _, err := runCLI(t, "train", "-i", writeCorpus(t, dir), "-o", out); err != nil {
		t.Fatalf("train: %v", err)
	}

	stdout, err := runCLI(t, "similar", "-m", out, "--id", "1", "--table")
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if !strings.Contains(stdout, "Rank") || !strings.Contains(stdout, "Score") {
		t.Errorf("expected table output, got:\n%s", stdout)
	}
}

func TestTrain_Bidirectional(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "targets.json")
	if err := os.WriteFile(target, []byte(`[{"id":"t1","content":"brown fox"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "model.json")

	stdout, err := runCLI(t, "train", "-i", writeCorpus(t, dir), "-t", target, "-o", out, "--json")
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	var summary trainSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Mode != "bidirectional" || summary.Documents != 5 || len(summary.Targets) != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestTrain_InvalidOption(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "train", "-i", writeCorpus(t, dir), "-o", filepath.Join(dir, "m.json"), "--min-score", "2")
	if err == nil || !strings.Contains(err.Error(), "minScore") {
		t.Fatalf("expected minScore error, got %v", err)
	}
}

func TestTrain_Locked(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "model.json")
	lock := flock.New(out + ".lock")
	if ok, err := lock.TryLock(); !ok || err != nil {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer func() { _ = lock.Unlock() }()

	_, err := runCLI(t, "train", "-i", writeCorpus(t, dir), "-o", out)
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected lock error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("model file should not exist: %v", statErr)
	}
}

func TestTokens(t *testing.T) {
	stdout, err := runCLI(t, "tokens", "--json", "Running", "foxes")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	var got tokensOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if got.Language != "en" || len(got.Terms) == 0 {
		t.Errorf("unexpected output: %+v", got)
	}
}

func TestTokens_UnsupportedLanguage(t *testing.T) {
	if _, err := runCLI(t, "tokens", "--language", "xx", "hello"); err == nil {
		t.Fatal("expected error for unknown language")
	}
}
