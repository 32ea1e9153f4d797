// Package options holds the validated recommender configuration.
package options

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/contentrec/internal/domain"
	"github.com/kailas-cloud/contentrec/internal/domain/language"
)

// Defaults for a freshly constructed recommender.
const (
	DefaultMaxVectorSize       = 100
	DefaultMaxSimilarDocuments = math.MaxInt
	DefaultMinScore            = 0.0
	DefaultMinTokenLength      = 1
)

// Part-of-speech tags (IPA dictionary major categories).
const (
	POSNoun      = "名詞"
	POSVerb      = "動詞"
	POSAdjective = "形容詞"
)

// DefaultAllowedPOS is the part-of-speech whitelist of the morphological filter.
func DefaultAllowedPOS() []string {
	return []string{POSNoun, POSVerb, POSAdjective}
}

// TokenFilter tunes the token filters of a pipeline.
type TokenFilter struct {
	RemoveDuplicates bool     `json:"removeDuplicates" yaml:"removeDuplicates"`
	RemoveStopwords  bool     `json:"removeStopwords" yaml:"removeStopwords"`
	CustomStopWords  []string `json:"customStopWords" yaml:"customStopWords"`
	MinTokenLength   int      `json:"minTokenLength" yaml:"minTokenLength"`
	AllowedPOS       []string `json:"allowedPos" yaml:"allowedPos"`
}

// DefaultTokenFilter returns the filter defaults.
func DefaultTokenFilter() TokenFilter {
	return TokenFilter{
		RemoveDuplicates: true,
		RemoveStopwords:  true,
		CustomStopWords:  []string{},
		MinTokenLength:   DefaultMinTokenLength,
		AllowedPOS:       DefaultAllowedPOS(),
	}
}

// Equal reports whether two filter configurations are identical.
func (f TokenFilter) Equal(o TokenFilter) bool {
	return f.RemoveDuplicates == o.RemoveDuplicates &&
		f.RemoveStopwords == o.RemoveStopwords &&
		f.MinTokenLength == o.MinTokenLength &&
		slices.Equal(f.CustomStopWords, o.CustomStopWords) &&
		slices.Equal(f.AllowedPOS, o.AllowedPOS)
}

// Clone returns a deep copy.
func (f TokenFilter) Clone() TokenFilter {
	f.CustomStopWords = slices.Clone(f.CustomStopWords)
	f.AllowedPOS = slices.Clone(f.AllowedPOS)
	return f
}

// Options is the recommender configuration (RecommenderOptions).
// Serialized field names match the exported model format.
type Options struct {
	MaxVectorSize       int               `json:"maxVectorSize" yaml:"maxVectorSize"`
	MaxSimilarDocuments int               `json:"maxSimilarDocuments" yaml:"maxSimilarDocuments"`
	MinScore            float64           `json:"minScore" yaml:"minScore"`
	Language            language.Language `json:"language" yaml:"language"`
	Debug               bool              `json:"debug" yaml:"debug"`
	TokenFilter         TokenFilter       `json:"tokenFilterOptions" yaml:"tokenFilterOptions"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		MaxVectorSize:       DefaultMaxVectorSize,
		MaxSimilarDocuments: DefaultMaxSimilarDocuments,
		MinScore:            DefaultMinScore,
		Language:            language.Default,
		TokenFilter:         DefaultTokenFilter(),
	}
}

// Validate checks every field and returns a ConfigurationError for the first violation.
func (o *Options) Validate() error {
	if o.MaxVectorSize <= 0 {
		return domain.NewConfigurationError("maxVectorSize", "should be integer and greater than 0")
	}
	if o.MaxSimilarDocuments <= 0 {
		return domain.NewConfigurationError("maxSimilarDocuments", "should be integer and greater than 0")
	}
	if math.IsNaN(o.MinScore) || o.MinScore < 0 || o.MinScore > 1 {
		return domain.NewConfigurationError("minScore", "should be a number between 0 and 1")
	}
	if _, err := language.Parse(string(o.Language)); err != nil {
		return &domain.ConfigurationError{
			Field:      "language",
			Constraint: fmt.Sprintf("should be one of %v", language.Tags()),
			Err:        err,
		}
	}
	if o.TokenFilter.MinTokenLength < 0 {
		return domain.NewConfigurationError("tokenFilterOptions.minTokenLength", "should not be negative")
	}
	return nil
}

// Normalize validates o and canonicalizes the language tag.
func (o Options) Normalize() (Options, error) {
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	lang, _ := language.Parse(string(o.Language))
	o.Language = lang
	if o.TokenFilter.CustomStopWords == nil {
		o.TokenFilter.CustomStopWords = []string{}
	}
	if o.TokenFilter.AllowedPOS == nil {
		o.TokenFilter.AllowedPOS = DefaultAllowedPOS()
	}
	return o.Clone(), nil
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	o.TokenFilter = o.TokenFilter.Clone()
	return o
}

// PipelineChanged reports whether switching from o to next requires a new pipeline.
func (o Options) PipelineChanged(next Options) bool {
	return o.Language != next.Language || !o.TokenFilter.Equal(next.TokenFilter)
}

// UnmarshalJSON decodes over the defaults so partial documents merge like a Patch.
func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	*o = Default()
	if err := json.Unmarshal(data, (*plain)(o)); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes over the defaults so partial documents merge like a Patch.
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	type plain Options
	*o = Default()
	if err := value.Decode((*plain)(o)); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}
