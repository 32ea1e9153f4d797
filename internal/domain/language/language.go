// Package language enumerates the text languages the pipeline factory understands.
package language

import (
	"strings"

	xlang "golang.org/x/text/language"

	"github.com/kailas-cloud/contentrec/internal/domain"
)

// Language is a supported pipeline language tag.
type Language string

const (
	// English selects the Latin-script stemming pipeline.
	English Language = "en"
	// Japanese selects the morphological pipeline.
	Japanese Language = "ja"
)

// Default is the language used when none is configured.
const Default = English

var supported = []Language{English, Japanese}

// All returns every supported language in a stable order.
func All() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Tags returns the supported tags as strings.
func Tags() []string {
	out := make([]string, len(supported))
	for i, l := range supported {
		out[i] = string(l)
	}
	return out
}

// Parse resolves a BCP 47 tag to a supported language.
// Regional variants collapse to their base ("en-GB" -> en, "ja-JP" -> ja).
func Parse(tag string) (Language, error) {
	raw := strings.TrimSpace(tag)
	if raw == "" {
		return "", &domain.UnsupportedLanguageError{Tag: tag, Allowed: Tags()}
	}
	t, err := xlang.Parse(raw)
	if err != nil {
		return "", &domain.UnsupportedLanguageError{Tag: tag, Allowed: Tags()}
	}
	base, _ := t.Base()
	for _, l := range supported {
		if base.String() == string(l) {
			return l, nil
		}
	}
	return "", &domain.UnsupportedLanguageError{Tag: tag, Allowed: Tags()}
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	for _, s := range supported {
		if l == s {
			return true
		}
	}
	return false
}

func (l Language) String() string { return string(l) }
