// Package filter removes low-signal tokens produced by a tokenizer.
package filter

import (
	"unicode/utf8"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/stopwords"
)

// Base applies the length, stopword and duplicate filters in that order.
type Base struct {
	opts options.TokenFilter
	stop stopwords.Set
}

// NewBase creates a filter over defaults plus opts.CustomStopWords.
func NewBase(opts options.TokenFilter, defaults stopwords.Set) Base {
	return Base{
		opts: opts.Clone(),
		stop: defaults.With(opts.CustomStopWords...),
	}
}

// Filter applies the configured filters to tokens.
func (f *Base) Filter(tokens []string) []string {
	return f.apply(tokens, f.isStopword)
}

// Options returns the filter configuration.
func (f *Base) Options() options.TokenFilter { return f.opts.Clone() }

func (f *Base) apply(tokens []string, drop func(string) bool) []string {
	out := tokens
	if f.opts.MinTokenLength > 1 {
		out = keep(out, func(t string) bool { return utf8.RuneCountInString(t) >= f.opts.MinTokenLength })
	}
	if f.opts.RemoveStopwords {
		out = keep(out, func(t string) bool { return !drop(t) })
	}
	if f.opts.RemoveDuplicates {
		out = dedupe(out)
	}
	if out == nil {
		return []string{}
	}
	return out
}

func (f *Base) isStopword(t string) bool { return f.stop.Contains(t) }

func keep(tokens []string, pred func(string) bool) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// dedupe keeps the first occurrence of every token.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
