package document

import (
	"fmt"
	"maps"

	"github.com/kailas-cloud/contentrec/internal/domain"
)

// Reserved field names that collide with processing state.
const (
	FieldTokens = "tokens"
	FieldVector = "vector"
)

// Document is an input record: an id, the text to analyze and opaque extra fields.
type Document struct {
	id      string
	content string
	fields  map[string]any
}

// New creates a Document without validation; Validate checks a whole collection.
func New(id, content string, fields map[string]any) Document {
	return Document{id: id, content: content, fields: maps.Clone(fields)}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the text to analyze.
func (d *Document) Content() string { return d.content }

// Fields returns the extra fields carried with the document.
func (d *Document) Fields() map[string]any { return d.fields }

// Field returns a single extra field.
func (d *Document) Field(name string) (any, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Validate checks a training collection: non-empty unique ids and no reserved fields.
func Validate(docs []Document) error {
	seen := make(map[string]int, len(docs))
	for i := range docs {
		d := &docs[i]
		if d.id == "" {
			return domain.NewInvalidInput(i, "documents should have fields id and content")
		}
		if _, ok := d.fields[FieldTokens]; ok {
			return domain.NewInvalidInput(i, reservedMessage)
		}
		if _, ok := d.fields[FieldVector]; ok {
			return domain.NewInvalidInput(i, reservedMessage)
		}
		if prev, ok := seen[d.id]; ok {
			return domain.NewInvalidInput(i, fmt.Sprintf("duplicate id %q (first seen at document %d)", d.id, prev))
		}
		seen[d.id] = i
	}
	return nil
}

// ValidateDisjoint rejects a source/target pair whose id spaces overlap.
func ValidateDisjoint(source, target []Document) error {
	ids := make(map[string]struct{}, len(source))
	for i := range source {
		ids[source[i].id] = struct{}{}
	}
	for i := range target {
		if _, ok := ids[target[i].id]; ok {
			return domain.NewInvalidInput(i, fmt.Sprintf("target id %q collides with a source id", target[i].id))
		}
	}
	return nil
}

const reservedMessage = `"tokens" and "vector" properties are reserved and cannot be used as document properties`

// Processed is a document after tokenization and filtering.
type Processed struct {
	ID       string
	Tokens   []string
	Original *Document
}
