package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
)

// Format is a corpus file format.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// ErrUnknownFormat is returned for file extensions without a reader.
var ErrUnknownFormat = errors.New("unknown corpus format")

// maxLine bounds a single JSON Lines record.
const maxLine = 16 << 20

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a corpus file, choosing the reader by extension.
func Load(path string) ([]domdoc.Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		docs, err := readParquet(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return docs, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	docs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}

// Read decodes a stream-based corpus. Parquet needs random access; use Load.
func Read(r io.Reader, format Format) ([]domdoc.Document, error) {
	var (
		recs []map[string]any
		err  error
	)
	switch format {
	case FormatJSON:
		recs, err = readJSON(r)
	case FormatJSONL:
		recs, err = readJSONL(r)
	case FormatYAML:
		recs, err = readYAML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return ToDocuments(recs)
}

// LoadAll expands every pattern (doublestar syntax, "**" spans directories)
// and concatenates the matching corpora in lexical path order.
func LoadAll(patterns ...string) ([]domdoc.Document, []string, error) {
	paths, err := Expand(patterns...)
	if err != nil {
		return nil, nil, err
	}
	var docs []domdoc.Document
	for _, p := range paths {
		part, err := Load(p)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, part...)
	}
	return docs, paths, nil
}

// Expand resolves patterns to a sorted, de-duplicated list of files. A pattern
// without glob metacharacters must name an existing file.
func Expand(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no corpus files match %q", pattern)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func readJSON(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var recs []map[string]any
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode json array: %w", err)
	}
	return recs, nil
}

func readJSONL(r io.Reader) ([]map[string]any, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var recs []map[string]any
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return recs, nil
}

func readYAML(r io.Reader) ([]map[string]any, error) {
	var recs []map[string]any
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("decode yaml sequence: %w", err)
	}
	return recs, nil
}
