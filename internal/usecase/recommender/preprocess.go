package recommender

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
	"github.com/kailas-cloud/contentrec/internal/text/pipeline"
)

// preprocess runs every document through p concurrently. Output order matches docs.
// The first failure cancels the remaining work.
func preprocess(ctx context.Context, p pipeline.Pipeline, docs []domdoc.Document) ([]domdoc.Processed, error) {
	out := make([]domdoc.Processed, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens, err := p.Process(gctx, docs[i].Content())
			if err != nil {
				return fmt.Errorf("process document %q: %w", docs[i].ID(), err)
			}
			out[i] = domdoc.Processed{ID: docs[i].ID(), Tokens: tokens, Original: &docs[i]}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
