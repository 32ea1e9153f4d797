// Package model is the persisted recommender contract: options plus the similarity table.
package model

import (
	"time"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

// Model is an exported recommender. Both parts are optional on import.
type Model struct {
	Options *options.Options `json:"options,omitempty" yaml:"options,omitempty"`
	Data    similar.Table    `json:"data,omitempty" yaml:"data,omitempty"`
}

// Clone returns a deep copy.
func (m Model) Clone() Model {
	out := Model{Data: m.Data.Clone()}
	if m.Options != nil {
		o := m.Options.Clone()
		out.Options = &o
	}
	return out
}

// Documents returns the number of ids that have a similarity list.
func (m Model) Documents() int { return len(m.Data) }

// Entries returns the total number of similarity entries.
func (m Model) Entries() int {
	n := 0
	for _, list := range m.Data {
		n += len(list)
	}
	return n
}

// Info is the catalogue entry of a named model.
type Info struct {
	Name      string    `json:"name" yaml:"name"`
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"`
	Mode      string    `json:"mode,omitempty" yaml:"mode,omitempty"`
	RunID     string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Documents int       `json:"documents" yaml:"documents"`
	Entries   int       `json:"entries" yaml:"entries"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Describe builds the catalogue entry of m under name.
func Describe(name string, m Model) Info {
	info := Info{Name: name, Documents: m.Documents(), Entries: m.Entries()}
	if m.Options != nil {
		info.Language = string(m.Options.Language)
	}
	return info
}
