package filter

import (
	"slices"
	"unicode/utf8"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/stopwords"
	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
)

// Morph filters morphemes by part of speech before the base filters.
type Morph struct {
	Base
}

// NewMorph creates a morpheme filter over the Japanese stopword list.
func NewMorph(opts options.TokenFilter) *Morph {
	return &Morph{Base: NewBase(opts, stopwords.Japanese())}
}

// FilterMorphemes keeps allowed parts of speech, resolves their forms and
// then applies stopword and duplicate removal.
func (f *Morph) FilterMorphemes(ms []tokenizer.Morpheme) []string {
	forms := make([]string, 0, len(ms))
	for i := range ms {
		if !slices.Contains(f.opts.AllowedPOS, ms[i].POS) {
			continue
		}
		form := ms[i].Form()
		if utf8.RuneCountInString(form) < f.opts.MinTokenLength || isSingleHiragana(form) {
			continue
		}
		forms = append(forms, form)
	}

	if f.opts.RemoveStopwords {
		forms = keep(forms, func(t string) bool { return !f.isStopword(t) })
	}
	if f.opts.RemoveDuplicates {
		forms = dedupe(forms)
	}
	return forms
}

// isSingleHiragana matches exactly one rune in U+3042..U+3096.
func isSingleHiragana(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && r >= 'あ' && r <= 'ゖ'
}
