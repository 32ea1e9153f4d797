// Package tokenizer splits document content into terms.
package tokenizer

import (
	"context"
	"strings"
	"unicode"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/contentrec/internal/text/markup"
)

// NgramSep joins the stems of a bigram or trigram.
const NgramSep = "_"

// Latin tokenizes space-delimited text into Porter stems plus stem bigrams and trigrams.
type Latin struct{}

// NewLatin creates a Latin tokenizer.
func NewLatin() *Latin { return &Latin{} }

// Tokenize returns unigrams, then bigrams, then trigrams, each in source order.
func (t *Latin) Tokenize(_ context.Context, text string) ([]string, error) {
	clean := cases.Lower(language.Und).String(markup.Strip(text))
	words := Words(clean)
	if len(words) == 0 {
		return []string{}, nil
	}

	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = porterstemmer.StemString(w)
	}

	out := make([]string, 0, 3*len(stems))
	out = append(out, stems...)
	out = appendNgrams(out, stems, 2)
	out = appendNgrams(out, stems, 3)
	return out, nil
}

// Words splits s on every rune that is not a letter or digit.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func appendNgrams(dst, stems []string, n int) []string {
	for i := 0; i+n <= len(stems); i++ {
		dst = append(dst, strings.Join(stems[i:i+n], NgramSep))
	}
	return dst
}
