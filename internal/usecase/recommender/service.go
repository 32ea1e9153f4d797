// Package recommender trains TF-IDF similarity tables and answers ranked queries.
package recommender

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
	"github.com/kailas-cloud/contentrec/internal/text/pipeline"
)

// Stats summarises one training run.
type Stats struct {
	Mode      string
	Documents int
	Pairs     int
	Entries   int
	Duration  time.Duration
}

// Service is a single recommender: options, the cached pipeline and the
// similarity table of the latest successful training run.
type Service struct {
	logger      *zap.Logger
	metrics     Metrics
	newPipeline PipelineFactory

	mu       sync.RWMutex
	opts     options.Options
	pipeline pipeline.Pipeline
	data     similar.Table
}

// Option configures a Service.
type Option interface {
	apply(*Service)
}

type optionFunc func(*Service)

func (f optionFunc) apply(s *Service) { f(s) }

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(s *Service) {
		if l != nil {
			s.logger = l
		}
	})
}

// WithMetrics sets the training metrics sink.
func WithMetrics(m Metrics) Option {
	return optionFunc(func(s *Service) { s.metrics = m })
}

// WithPipelineFactory replaces the pipeline factory.
func WithPipelineFactory(f PipelineFactory) Option {
	return optionFunc(func(s *Service) {
		if f != nil {
			s.newPipeline = f
		}
	})
}

func defaultPipeline(lang language.Language, filter options.TokenFilter) (pipeline.Pipeline, error) {
	return pipeline.New(lang, filter)
}

// New creates a recommender with validated opts.
func New(opts options.Options, o ...Option) (*Service, error) {
	s := &Service{
		logger:      zap.NewNop(),
		newPipeline: defaultPipeline,
		data:        similar.Table{},
	}
	for _, opt := range o {
		opt.apply(s)
	}
	if err := s.Configure(opts); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure validates opts and replaces the current options. The pipeline is
// rebuilt only when the language or filter settings change.
func (s *Service) Configure(opts options.Options) error {
	norm, err := opts.Normalize()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(norm)
}

// SetOptions merges p over the defaults and applies the result.
func (s *Service) SetOptions(p options.Patch) error {
	opts, err := p.FromDefaults()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(opts)
}

// applyLocked must be called with s.mu held for writing. opts is already normalized.
func (s *Service) applyLocked(opts options.Options) error {
	if s.pipeline == nil || s.opts.PipelineChanged(opts) {
		p, err := s.newPipeline(opts.Language, opts.TokenFilter)
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}
		s.pipeline = p
	}
	s.opts = opts
	return nil
}

// Options returns a copy of the current options.
func (s *Service) Options() options.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Clone()
}

// ValidateDocuments checks a training collection without training.
func (s *Service) ValidateDocuments(docs []domdoc.Document) error {
	return domdoc.Validate(docs)
}

// Train recomputes the similarity table over a single collection.
// On failure the previous table stays in place.
func (s *Service) Train(ctx context.Context, docs []domdoc.Document) (Stats, error) {
	if err := domdoc.Validate(docs); err != nil {
		return Stats{}, err
	}
	opts, p := s.snapshot()
	started := time.Now()

	run, err := s.trainSingle(ctx, opts, p, docs)
	return s.finish(ModeSingle, started, len(docs), nil, run, err)
}

// TrainWith trains a single collection under opts instead of the current
// options. opts, the pipeline and the table are swapped in together only when
// training succeeds.
func (s *Service) TrainWith(ctx context.Context, opts options.Options, docs []domdoc.Document) (Stats, error) {
	next, err := s.stage(opts)
	if err != nil {
		return Stats{}, err
	}
	if err := domdoc.Validate(docs); err != nil {
		return Stats{}, err
	}
	started := time.Now()

	run, err := s.trainSingle(ctx, next.opts, next.pipeline, docs)
	return s.finish(ModeSingle, started, len(docs), next, run, err)
}

// TrainBidirectional computes similarities between docs and targets only.
// Every id of both collections gets a list. Overlapping ids are rejected.
func (s *Service) TrainBidirectional(ctx context.Context, docs, targets []domdoc.Document) (Stats, error) {
	if err := validatePair(docs, targets); err != nil {
		return Stats{}, err
	}
	opts, p := s.snapshot()
	started := time.Now()

	run, err := s.trainAcross(ctx, opts, p, docs, targets)
	return s.finish(ModeBidirectional, started, len(docs)+len(targets), nil, run, err)
}

// TrainBidirectionalWith is TrainBidirectional under opts, with the same
// all-or-nothing swap as TrainWith.
func (s *Service) TrainBidirectionalWith(
	ctx context.Context, opts options.Options, docs, targets []domdoc.Document,
) (Stats, error) {
	next, err := s.stage(opts)
	if err != nil {
		return Stats{}, err
	}
	if err := validatePair(docs, targets); err != nil {
		return Stats{}, err
	}
	started := time.Now()

	run, err := s.trainAcross(ctx, next.opts, next.pipeline, docs, targets)
	return s.finish(ModeBidirectional, started, len(docs)+len(targets), next, run, err)
}

func validatePair(docs, targets []domdoc.Document) error {
	if err := domdoc.Validate(docs); err != nil {
		return err
	}
	if err := domdoc.Validate(targets); err != nil {
		return fmt.Errorf("target documents: %w", err)
	}
	if err := domdoc.ValidateDisjoint(docs, targets); err != nil {
		return fmt.Errorf("target documents: %w", err)
	}
	return nil
}

// settings is a validated option set with its pipeline, not yet applied.
type settings struct {
	opts     options.Options
	pipeline pipeline.Pipeline
}

// stage validates opts and builds the pipeline they need without touching the
// current state.
func (s *Service) stage(opts options.Options) (*settings, error) {
	norm, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	cur, p := s.snapshot()
	if p == nil || cur.PipelineChanged(norm) {
		if p, err = s.newPipeline(norm.Language, norm.TokenFilter); err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
	}
	return &settings{opts: norm, pipeline: p}, nil
}

func (s *Service) snapshot() (options.Options, pipeline.Pipeline) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Clone(), s.pipeline
}

// trained is the outcome of a successful run before it is swapped in.
type trained struct {
	table   similar.Table
	pairs   int
	entries int
}

func (s *Service) trainSingle(
	ctx context.Context, opts options.Options, p pipeline.Pipeline, docs []domdoc.Document,
) (trained, error) {
	t := s.tracer(opts)

	processed, err := preprocess(ctx, p, docs)
	if err != nil {
		return trained{}, fmt.Errorf("preprocess: %w", err)
	}
	t.stage("preprocess", zap.Int("documents", len(processed)))

	vs := vectorize(processed, opts.MaxVectorSize)
	t.stage("vectorize", zap.Int("vectors", len(vs)))

	table, pairs, err := similarWithin(ctx, vs, opts.MinScore)
	if err != nil {
		return trained{}, fmt.Errorf("similarity: %w", err)
	}
	t.stage("similarity", zap.Int("pairs", pairs))

	entries := rank(table, opts.MaxSimilarDocuments)
	t.stage("rank", zap.Int("entries", entries))
	return trained{table: table, pairs: pairs, entries: entries}, nil
}

func (s *Service) trainAcross(
	ctx context.Context, opts options.Options, p pipeline.Pipeline, docs, targets []domdoc.Document,
) (trained, error) {
	t := s.tracer(opts)

	src, err := preprocess(ctx, p, docs)
	if err != nil {
		return trained{}, fmt.Errorf("preprocess documents: %w", err)
	}
	dst, err := preprocess(ctx, p, targets)
	if err != nil {
		return trained{}, fmt.Errorf("preprocess target documents: %w", err)
	}
	t.stage("preprocess", zap.Int("documents", len(src)), zap.Int("targets", len(dst)))

	// Each corpus is its own TF-IDF universe.
	srcVecs := vectorize(src, opts.MaxVectorSize)
	dstVecs := vectorize(dst, opts.MaxVectorSize)
	t.stage("vectorize", zap.Int("vectors", len(srcVecs)+len(dstVecs)))

	table, pairs, err := similarAcross(ctx, srcVecs, dstVecs, opts.MinScore)
	if err != nil {
		return trained{}, fmt.Errorf("similarity: %w", err)
	}
	t.stage("similarity", zap.Int("pairs", pairs))

	entries := rank(table, opts.MaxSimilarDocuments)
	t.stage("rank", zap.Int("entries", entries))
	return trained{table: table, pairs: pairs, entries: entries}, nil
}

// finish records the run. On success the table, and next when non-nil, replace
// the current state.
func (s *Service) finish(
	mode string, started time.Time, documents int, next *settings, run trained, err error,
) (Stats, error) {
	if err != nil {
		took := time.Since(started)
		s.observe(mode, "error", took, documents, 0, 0)
		s.logger.Warn("Training failed",
			zap.String("mode", mode),
			zap.Int("documents", documents),
			zap.Duration("duration", took),
			zap.Error(err),
		)
		return Stats{}, err
	}

	s.mu.Lock()
	if next != nil {
		s.opts = next.opts
		s.pipeline = next.pipeline
	}
	s.data = run.table
	s.mu.Unlock()

	stats := Stats{
		Mode:      mode,
		Documents: documents,
		Pairs:     run.pairs,
		Entries:   run.entries,
		Duration:  time.Since(started),
	}
	s.observe(mode, "ok", stats.Duration, documents, run.pairs, run.entries)
	s.logger.Info("Training completed",
		zap.String("mode", mode),
		zap.Int("documents", documents),
		zap.Int("pairs", run.pairs),
		zap.Int("entries", run.entries),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (s *Service) observe(mode, status string, took time.Duration, documents, pairs, entries int) {
	if s.metrics != nil {
		s.metrics.ObserveTraining(mode, status, took, documents, pairs, entries)
	}
}

// SimilarDocuments returns the ranked list of id sliced to [start, start+size).
// A negative size means no upper bound. Unknown ids yield an empty list.
func (s *Service) SimilarDocuments(id string, start, size int) []similar.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return similar.Slice(s.data[id], start, size)
}

// Export returns a deep copy of the options and the similarity table.
func (s *Service) Export() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts := s.opts.Clone()
	return model.Model{Options: &opts, Data: s.data.Clone()}
}

// Import replaces the options and/or the table with the parts present in m.
// Invalid options leave the recommender untouched.
func (s *Service) Import(m model.Model) error {
	var opts *options.Options
	if m.Options != nil {
		norm, err := m.Options.Normalize()
		if err != nil {
			return err
		}
		opts = &norm
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if opts != nil {
		if err := s.applyLocked(*opts); err != nil {
			return err
		}
	}
	if m.Data != nil {
		s.data = m.Data.Clone()
	}
	return nil
}

// Len returns the number of ids with a similarity list.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
