package tokenizer

import (
	"context"
	"strings"

	kagome "github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/contentrec/internal/text/markup"
)

// Morpheme is one unit of morphological analysis.
type Morpheme struct {
	POS     string // major part-of-speech category
	Surface string
	Base    string // dictionary form; "*" or empty when unknown
}

// Form returns the base form when known, otherwise the surface form.
func (m Morpheme) Form() string {
	if m.Base != "" && m.Base != "*" {
		return m.Base
	}
	return m.Surface
}

// Morphological tokenizes text without word delimiters using a dictionary analyzer.
type Morphological struct {
	loader *Loader
}

// NewMorphological creates a tokenizer backed by loader. A nil loader means Shared().
func NewMorphological(loader *Loader) *Morphological {
	if loader == nil {
		loader = Shared()
	}
	return &Morphological{loader: loader}
}

// Tokenize returns the resolved form of every morpheme.
func (t *Morphological) Tokenize(ctx context.Context, text string) ([]string, error) {
	ms, err := t.Morphemes(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].Form()
	}
	return out, nil
}

// Morphemes returns the detailed analysis of text.
func (t *Morphological) Morphemes(ctx context.Context, text string) ([]Morpheme, error) {
	tok, err := t.loader.Get(ctx)
	if err != nil {
		return nil, err
	}

	clean := strings.TrimSpace(norm.NFKC.String(markup.Strip(text)))
	if clean == "" {
		return []Morpheme{}, nil
	}

	tokens := tok.Tokenize(clean)
	out := make([]Morpheme, 0, len(tokens))
	for i := range tokens {
		if strings.TrimSpace(tokens[i].Surface) == "" {
			continue
		}
		out = append(out, toMorpheme(&tokens[i]))
	}
	return out, nil
}

func toMorpheme(tk *kagome.Token) Morpheme {
	m := Morpheme{Surface: tk.Surface}
	if pos := tk.POS(); len(pos) > 0 {
		m.POS = pos[0]
	}
	if base, ok := tk.BaseForm(); ok {
		m.Base = base
	}
	return m
}
