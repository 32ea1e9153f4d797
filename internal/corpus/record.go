// Package corpus reads training documents from JSON, JSON Lines, YAML and
// Parquet files.
package corpus

import (
	"encoding/json"
	"maps"
	"strconv"

	"github.com/kailas-cloud/contentrec/internal/domain"
	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
)

// Record keys with a fixed meaning. Every other key becomes a document field.
const (
	KeyID      = "id"
	KeyContent = "content"
)

const missingFields = "documents should have fields id and content"

// ToDocument converts a decoded object into a Document. Numeric ids are
// rendered in their shortest decimal form.
func ToDocument(index int, rec map[string]any) (domdoc.Document, error) {
	id, ok := scalarString(rec[KeyID])
	if !ok || id == "" {
		return domdoc.Document{}, domain.NewInvalidInput(index, missingFields)
	}
	raw, present := rec[KeyContent]
	content, ok := raw.(string)
	if !present || (!ok && raw != nil) {
		return domdoc.Document{}, domain.NewInvalidInput(index, missingFields)
	}

	var fields map[string]any
	if len(rec) > 2 {
		fields = maps.Clone(rec)
		delete(fields, KeyID)
		delete(fields, KeyContent)
	}
	return domdoc.New(id, content, fields), nil
}

// ToDocuments converts every record, stopping at the first invalid one.
func ToDocuments(recs []map[string]any) ([]domdoc.Document, error) {
	docs := make([]domdoc.Document, 0, len(recs))
	for i, rec := range recs {
		d, err := ToDocument(i, rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	default:
		return "", false
	}
}
