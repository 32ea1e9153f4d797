// Package pipeline pairs a tokenizer with its language-specific filter.
package pipeline

import (
	"context"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/filter"
	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
)

// Pipeline turns document content into filtered terms.
type Pipeline interface {
	// Tokenize returns the raw tokenizer output.
	Tokenize(ctx context.Context, text string) ([]string, error)
	// Filter applies the base filters to tokens.
	Filter(tokens []string) []string
	// Process runs the language-specific tokenize and filter path.
	Process(ctx context.Context, text string) ([]string, error)
	Language() language.Language
}

// Option configures New.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	loader *tokenizer.Loader
}

// WithLoader sets the dictionary loader of morphological pipelines.
func WithLoader(l *tokenizer.Loader) Option {
	return optionFunc(func(c *config) { c.loader = l })
}

// New returns a fresh pipeline for lang. Unknown tags yield an UnsupportedLanguageError.
func New(lang language.Language, opts options.TokenFilter, o ...Option) (Pipeline, error) {
	parsed, err := language.Parse(string(lang))
	if err != nil {
		return nil, err
	}

	cfg := config{loader: tokenizer.Shared()}
	for _, opt := range o {
		opt.apply(&cfg)
	}

	switch parsed {
	case language.Japanese:
		return &morph{
			tok:    tokenizer.NewMorphological(cfg.loader),
			filter: filter.NewMorph(opts),
		}, nil
	default:
		return &latin{
			lang:   parsed,
			tok:    tokenizer.NewLatin(),
			filter: filter.NewLatin(opts),
		}, nil
	}
}

type latin struct {
	lang   language.Language
	tok    *tokenizer.Latin
	filter *filter.Latin
}

func (p *latin) Tokenize(ctx context.Context, text string) ([]string, error) {
	return p.tok.Tokenize(ctx, text)
}

func (p *latin) Filter(tokens []string) []string { return p.filter.Filter(tokens) }

func (p *latin) Process(ctx context.Context, text string) ([]string, error) {
	tokens, err := p.tok.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}
	return p.filter.FilterNgrams(tokens), nil
}

func (p *latin) Language() language.Language { return p.lang }

type morph struct {
	tok    *tokenizer.Morphological
	filter *filter.Morph
}

func (p *morph) Tokenize(ctx context.Context, text string) ([]string, error) {
	return p.tok.Tokenize(ctx, text)
}

func (p *morph) Filter(tokens []string) []string { return p.filter.Filter(tokens) }

func (p *morph) Process(ctx context.Context, text string) ([]string, error) {
	ms, err := p.tok.Morphemes(ctx, text)
	if err != nil {
		return nil, err
	}
	return p.filter.FilterMorphemes(ms), nil
}

func (p *morph) Language() language.Language { return language.Japanese }
