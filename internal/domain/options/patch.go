package options

import (
	"slices"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
)

// TokenFilterPatch is a partial TokenFilter. Nil fields keep the default.
type TokenFilterPatch struct {
	RemoveDuplicates *bool    `json:"removeDuplicates,omitempty" yaml:"removeDuplicates,omitempty"`
	RemoveStopwords  *bool    `json:"removeStopwords,omitempty" yaml:"removeStopwords,omitempty"`
	CustomStopWords  []string `json:"customStopWords,omitempty" yaml:"customStopWords,omitempty"`
	MinTokenLength   *int     `json:"minTokenLength,omitempty" yaml:"minTokenLength,omitempty"`
	AllowedPOS       []string `json:"allowedPos,omitempty" yaml:"allowedPos,omitempty"`
}

// Patch is a partial Options value as accepted by setOptions and import.
type Patch struct {
	MaxVectorSize       *int              `json:"maxVectorSize,omitempty" yaml:"maxVectorSize,omitempty"`
	MaxSimilarDocuments *int              `json:"maxSimilarDocuments,omitempty" yaml:"maxSimilarDocuments,omitempty"`
	MinScore            *float64          `json:"minScore,omitempty" yaml:"minScore,omitempty"`
	Language            *string           `json:"language,omitempty" yaml:"language,omitempty"`
	Debug               *bool             `json:"debug,omitempty" yaml:"debug,omitempty"`
	TokenFilter         *TokenFilterPatch `json:"tokenFilterOptions,omitempty" yaml:"tokenFilterOptions,omitempty"`
}

// Apply merges p over base and validates the result.
func (p Patch) Apply(base Options) (Options, error) {
	out := base.Clone()
	if p.MaxVectorSize != nil {
		out.MaxVectorSize = *p.MaxVectorSize
	}
	if p.MaxSimilarDocuments != nil {
		out.MaxSimilarDocuments = *p.MaxSimilarDocuments
	}
	if p.MinScore != nil {
		out.MinScore = *p.MinScore
	}
	if p.Language != nil {
		out.Language = language.Language(*p.Language)
	}
	if p.Debug != nil {
		out.Debug = *p.Debug
	}
	if f := p.TokenFilter; f != nil {
		if f.RemoveDuplicates != nil {
			out.TokenFilter.RemoveDuplicates = *f.RemoveDuplicates
		}
		if f.RemoveStopwords != nil {
			out.TokenFilter.RemoveStopwords = *f.RemoveStopwords
		}
		if f.CustomStopWords != nil {
			out.TokenFilter.CustomStopWords = slices.Clone(f.CustomStopWords)
		}
		if f.MinTokenLength != nil {
			out.TokenFilter.MinTokenLength = *f.MinTokenLength
		}
		if f.AllowedPOS != nil {
			out.TokenFilter.AllowedPOS = slices.Clone(f.AllowedPOS)
		}
	}
	return out.Normalize()
}

// FromDefaults merges p over Default().
func (p Patch) FromDefaults() (Options, error) {
	return p.Apply(Default())
}
