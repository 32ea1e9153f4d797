package recommender

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

type hit struct {
	other int
	score float64
}

// rows computes row(i) for every i in [0, n) in parallel.
func rows(ctx context.Context, n int, row func(i int) []hit) ([][]hit, error) {
	out := make([][]hit, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = row(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// similarWithin compares every unordered pair of vs once. A pair above
// minScore lands in both lists with the same score. Lists are filled in
// (i ascending, j ascending) order for j < i.
func similarWithin(ctx context.Context, vs []vector, minScore float64) (similar.Table, int, error) {
	hits, err := rows(ctx, len(vs), func(i int) []hit {
		var row []hit
		for j := range i {
			if s := cosine(&vs[i], &vs[j]); s > minScore {
				row = append(row, hit{other: j, score: s})
			}
		}
		return row
	})
	if err != nil {
		return nil, 0, err
	}

	table := make(similar.Table, len(vs))
	for i := range vs {
		table[vs[i].id] = []similar.Document{}
	}
	for i, row := range hits {
		for _, h := range row {
			a, b := vs[i].id, vs[h.other].id
			table[a] = append(table[a], similar.Document{ID: b, Score: h.score})
			table[b] = append(table[b], similar.Document{ID: a, Score: h.score})
		}
	}
	return table, len(vs) * (len(vs) - 1) / 2, nil
}

// similarAcross compares every source vector with every target vector.
func similarAcross(ctx context.Context, src, dst []vector, minScore float64) (similar.Table, int, error) {
	hits, err := rows(ctx, len(src), func(i int) []hit {
		var row []hit
		for j := range dst {
			if s := cosine(&src[i], &dst[j]); s > minScore {
				row = append(row, hit{other: j, score: s})
			}
		}
		return row
	})
	if err != nil {
		return nil, 0, err
	}

	table := make(similar.Table, len(src)+len(dst))
	for i := range src {
		table[src[i].id] = []similar.Document{}
	}
	for j := range dst {
		table[dst[j].id] = []similar.Document{}
	}
	for i, row := range hits {
		for _, h := range row {
			a, b := src[i].id, dst[h.other].id
			table[a] = append(table[a], similar.Document{ID: b, Score: h.score})
			table[b] = append(table[b], similar.Document{ID: a, Score: h.score})
		}
	}
	return table, len(src) * len(dst), nil
}
