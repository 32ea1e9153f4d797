package contentrec

import (
	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

// Language selects the text pipeline.
type Language = language.Language

// Supported languages.
const (
	English  = language.English
	Japanese = language.Japanese
)

// Options is the full recommender configuration.
type Options = options.Options

// OptionsPatch is a partial configuration; nil fields keep their default.
type OptionsPatch = options.Patch

// TokenFilter tunes the token filters of a pipeline.
type TokenFilter = options.TokenFilter

// SimilarDocument is one entry of a ranked similarity list.
type SimilarDocument = similar.Document

// Model is an exported recommender: options plus the similarity table.
// Both parts are optional on import.
type Model = model.Model

// DefaultOptions returns the options of a recommender built without options.
func DefaultOptions() Options { return options.Default() }

// DefaultTokenFilter returns the default token filter settings.
func DefaultTokenFilter() TokenFilter { return options.DefaultTokenFilter() }

// Document is a training record. Fields are carried along untouched; the
// names "tokens" and "vector" are reserved.
type Document struct {
	ID      string
	Content string
	Fields  map[string]any
}
