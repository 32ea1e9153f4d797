package filter

import (
	"strings"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/stopwords"
	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
)

// Latin filters stemmed unigrams and their n-grams.
type Latin struct {
	Base
}

// NewLatin creates a Latin filter over the English stopword list.
func NewLatin(opts options.TokenFilter) *Latin {
	return &Latin{Base: NewBase(opts, stopwords.English())}
}

// FilterNgrams drops an n-gram when any of its parts is a stopword.
// Unigrams get the plain stopword check.
func (f *Latin) FilterNgrams(tokens []string) []string {
	return f.apply(tokens, f.ngramHasStopword)
}

func (f *Latin) ngramHasStopword(t string) bool {
	if !strings.Contains(t, tokenizer.NgramSep) {
		return f.isStopword(t)
	}
	for part := range strings.SplitSeq(t, tokenizer.NgramSep) {
		if f.isStopword(part) {
			return true
		}
	}
	return false
}
