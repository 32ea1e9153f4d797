// Package stopwords provides the per-language stopword sets used by token filters.
package stopwords

import (
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	porterstemmer "github.com/blevesearch/go-porterstemmer"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
)

// Set is an immutable stopword set.
type Set map[string]struct{}

// Contains reports whether tok is a stopword.
func (s Set) Contains(tok string) bool {
	_, ok := s[tok]
	return ok
}

// With returns a new set holding s plus words. s is not modified.
func (s Set) With(words ...string) Set {
	out := make(Set, len(s)+len(words))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// Len returns the set size.
func (s Set) Len() int { return len(s) }

// Japanese particles and formal nouns that carry no topical signal.
var japaneseWords = []string{
	"は", "が", "の", "に", "を", "で", "と", "か", "も", "から",
	"まで", "より", "こと", "もの", "ため", "など",
}

var (
	englishOnce sync.Once
	english     Set
	japanese    = Set{}.With(japaneseWords...)
)

// English returns the Snowball English list plus the Porter stem of every entry.
// Latin tokens are stemmed before filtering, so "this" must also match "thi".
func English() Set {
	englishOnce.Do(func() {
		tm := analysis.NewTokenMap()
		// The embedded list is static; a load error would be a build defect.
		if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
			panic("stopwords: load english list: " + err.Error())
		}
		english = make(Set, 2*len(tm))
		for w := range tm {
			english[w] = struct{}{}
			english[porterstemmer.StemString(w)] = struct{}{}
		}
	})
	return english
}

// Japanese returns the default Japanese stopword set.
func Japanese() Set { return japanese }

// For returns the default set of lang. Unknown languages get an empty set.
func For(lang language.Language) Set {
	switch lang {
	case language.English:
		return English()
	case language.Japanese:
		return Japanese()
	}
	return Set{}
}
