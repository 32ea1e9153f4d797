package recommender

import (
	"cmp"
	"math"
	"slices"

	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
)

type term struct {
	text   string
	weight float64
}

// vector is a sparse TF-IDF vector. terms are ordered by weight descending,
// ties by first occurrence in the document.
type vector struct {
	id    string
	terms []term
	index map[string]float64
	norm  float64
}

// vectorize builds one TF-IDF universe over docs and keeps the top maxSize
// terms of every document.
//
// tf(t, d) is the raw count of t in d; idf(t) = 1 + ln(N / (1 + df(t))).
func vectorize(docs []domdoc.Processed, maxSize int) []vector {
	n := float64(len(docs))

	df := make(map[string]int)
	for i := range docs {
		seen := make(map[string]struct{}, len(docs[i].Tokens))
		for _, t := range docs[i].Tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	out := make([]vector, len(docs))
	for i := range docs {
		out[i] = weigh(docs[i].ID, docs[i].Tokens, df, n, maxSize)
	}
	return out
}

func weigh(id string, tokens []string, df map[string]int, n float64, maxSize int) vector {
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	terms := make([]term, len(order))
	for i, t := range order {
		idf := 1 + math.Log(n/float64(1+df[t]))
		terms[i] = term{text: t, weight: float64(counts[t]) * idf}
	}
	slices.SortStableFunc(terms, func(a, b term) int { return cmp.Compare(b.weight, a.weight) })
	if len(terms) > maxSize {
		terms = terms[:maxSize]
	}

	v := vector{id: id, terms: terms, index: make(map[string]float64, len(terms))}
	var sq float64
	for _, t := range terms {
		v.index[t.text] = t.weight
		sq += t.weight * t.weight
	}
	v.norm = math.Sqrt(sq)
	return v
}

// cosine returns the cosine similarity of a and b clamped to [0, 1].
// Zero vectors are similar to nothing.
func cosine(a, b *vector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for _, t := range a.terms {
		if w, ok := b.index[t.text]; ok {
			dot += t.weight * w
		}
	}
	s := dot / (a.norm * b.norm)
	return min(max(s, 0), 1)
}
