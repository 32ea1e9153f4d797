package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/contentrec/internal/domain/model"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readModelFile(path string) (model.Model, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return model.Model{}, fmt.Errorf("open model: %w", err)
	}
	defer func() { _ = f.Close() }()

	var m model.Model
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(&m)
	} else {
		err = json.NewDecoder(f).Decode(&m)
	}
	if err != nil {
		return model.Model{}, fmt.Errorf("decode model %s: %w", path, err)
	}
	return m, nil
}

// writeModelFile replaces path atomically while holding <path>.lock, so
// concurrent trainers never interleave their output.
func writeModelFile(path string, m model.Model) error {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("model file %s is locked by another process", path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := encodeModel(tmp, m, isYAML(path)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func encodeModel(w io.Writer, m model.Model, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
