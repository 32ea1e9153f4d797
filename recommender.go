package contentrec

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/corpus"
	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/metrics"
	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
	recuc "github.com/kailas-cloud/contentrec/internal/usecase/recommender"
)

// Recommender trains on document collections and answers ranked
// similarity queries. It is safe for concurrent use; queries observe the
// table of the latest successful training run.
type Recommender struct {
	svc *recuc.Service
}

// dictionaryMetrics attaches the shared dictionary's observer once per process.
var dictionaryMetrics sync.Once

// New creates a Recommender. Invalid options return a *ConfigurationError.
func New(opts ...Option) (*Recommender, error) {
	cfg := &config{opts: options.Default(), logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	svcOpts := []recuc.Option{recuc.WithLogger(cfg.logger)}
	if cfg.metricsReg != nil {
		m, err := metrics.NewRecommender(cfg.metricsReg)
		if err != nil {
			return nil, fmt.Errorf("contentrec: register metrics: %w", err)
		}
		svcOpts = append(svcOpts, recuc.WithMetrics(m))
		dictionaryMetrics.Do(func() { tokenizer.Shared().SetObserver(m) })
	}

	svc, err := recuc.New(cfg.opts, svcOpts...)
	if err != nil {
		return nil, err
	}
	return &Recommender{svc: svc}, nil
}

// Configure validates o and replaces the current options. The trained
// table is kept.
func (r *Recommender) Configure(o Options) error {
	return r.svc.Configure(o)
}

// SetOptions merges p over the default options and applies the result.
func (r *Recommender) SetOptions(p OptionsPatch) error {
	return r.svc.SetOptions(p)
}

// Options returns a copy of the current options.
func (r *Recommender) Options() Options {
	return r.svc.Options()
}

// ValidateDocuments checks a collection without training.
func (r *Recommender) ValidateDocuments(docs []Document) error {
	return r.svc.ValidateDocuments(toDomain(docs))
}

// Train replaces the similarity table with one computed over docs.
// On error the previous table is kept.
func (r *Recommender) Train(ctx context.Context, docs []Document) error {
	_, err := r.svc.Train(ctx, toDomain(docs))
	return err
}

// TrainBidirectional computes similarities between docs and targets only;
// documents are never compared within their own collection.
func (r *Recommender) TrainBidirectional(ctx context.Context, docs, targets []Document) error {
	_, err := r.svc.TrainBidirectional(ctx, toDomain(docs), toDomain(targets))
	return err
}

// SimilarDocuments returns the ranked list of id sliced to [start, start+size).
// A negative size returns the rest of the list. Unknown ids yield an empty slice.
func (r *Recommender) SimilarDocuments(id string, start, size int) []SimilarDocument {
	return r.svc.SimilarDocuments(id, start, size)
}

// Export returns a deep copy of the options and the similarity table.
func (r *Recommender) Export() Model {
	return r.svc.Export()
}

// Import replaces the options and/or the table with the parts present in m.
func (r *Recommender) Import(m Model) error {
	return r.svc.Import(m)
}

// LoadDocuments reads documents from JSON, JSON Lines, YAML or Parquet files.
// Patterns may use "**" to match across directories; files are read in
// lexical order.
func LoadDocuments(patterns ...string) ([]Document, error) {
	docs, _, err := corpus.LoadAll(patterns...)
	if err != nil {
		return nil, err
	}
	out := make([]Document, len(docs))
	for i := range docs {
		d := &docs[i]
		out[i] = Document{ID: d.ID(), Content: d.Content(), Fields: d.Fields()}
	}
	return out, nil
}

func toDomain(docs []Document) []domdoc.Document {
	out := make([]domdoc.Document, len(docs))
	for i, d := range docs {
		out[i] = domdoc.New(d.ID, d.Content, d.Fields)
	}
	return out
}
