// Package registry manages named recommenders: an in-memory LRU in front of a
// write-through model repository.
package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/domain"
	domdoc "github.com/kailas-cloud/contentrec/internal/domain/document"
	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
	"github.com/kailas-cloud/contentrec/internal/usecase/recommender"
)

// DefaultMaxCached bounds the in-memory cache when no size is configured.
const DefaultMaxCached = 64

// ModeImport marks a catalogue entry whose table came from an import.
const ModeImport = "import"

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Run summarises a training run of a named model.
type Run struct {
	ID        string        `json:"run_id"`
	Model     string        `json:"model"`
	Mode      string        `json:"mode"`
	Documents int           `json:"documents"`
	Pairs     int           `json:"pairs"`
	Entries   int           `json:"entries"`
	Duration  time.Duration `json:"duration"`
}

// entry is a cached recommender. mu serializes mutations of one model
// together with their persistence.
type entry struct {
	mu   sync.Mutex
	rec  *recommender.Service
	info atomic.Pointer[model.Info]
}

func newEntry(rec *recommender.Service, info model.Info) *entry {
	e := &entry{rec: rec}
	e.info.Store(&info)
	return e
}

func (e *entry) describe() model.Info {
	return *e.info.Load()
}

// Service owns the named recommenders.
type Service struct {
	repo           Repository
	defaults       options.Options
	newRecommender RecommenderFactory
	logger         *zap.Logger
	now            func() time.Time
	newRunID       func() string

	// mu guards cache misses so one name is never loaded twice.
	mu    sync.Mutex
	cache *lru.Cache[string, *entry]
}

// Option configures a Service.
type Option interface {
	apply(*Service)
}

type optionFunc func(*Service)

func (f optionFunc) apply(s *Service) { f(s) }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(s *Service) {
		if l != nil {
			s.logger = l
		}
	})
}

// WithRecommenderFactory replaces the recommender constructor.
func WithRecommenderFactory(f RecommenderFactory) Option {
	return optionFunc(func(s *Service) {
		if f != nil {
			s.newRecommender = f
		}
	})
}

// WithMaxCached bounds the number of recommenders held in memory.
func WithMaxCached(n int) Option {
	return optionFunc(func(s *Service) {
		if n > 0 {
			s.cache, _ = lru.NewWithEvict[string, *entry](n, s.evicted)
		}
	})
}

// WithClock replaces time.Now and the run id generator (for tests).
func WithClock(now func() time.Time, runID func() string) Option {
	return optionFunc(func(s *Service) {
		if now != nil {
			s.now = now
		}
		if runID != nil {
			s.newRunID = runID
		}
	})
}

// New creates a registry. repo may be nil for a memory-only registry, in which
// case evicted models are lost. defaults apply to newly created models.
func New(repo Repository, defaults options.Options, o ...Option) (*Service, error) {
	norm, err := defaults.Normalize()
	if err != nil {
		return nil, fmt.Errorf("default options: %w", err)
	}
	s := &Service{
		repo:     repo,
		defaults: norm,
		newRecommender: func(opts options.Options) (*recommender.Service, error) {
			return recommender.New(opts)
		},
		logger:   zap.NewNop(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	s.cache, _ = lru.NewWithEvict[string, *entry](DefaultMaxCached, s.evicted)
	for _, opt := range o {
		opt.apply(s)
	}
	return s, nil
}

func (s *Service) evicted(name string, _ *entry) {
	s.logger.Debug("Model evicted from cache", zap.String("model", name))
}

// Defaults returns the options applied to newly created models.
func (s *Service) Defaults() options.Options {
	return s.defaults.Clone()
}

// ValidateName checks a model name.
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) {
		return &domain.InvalidInputError{
			Index:  -1,
			Reason: fmt.Sprintf("model name %q must match %s", name, nameRegex.String()),
		}
	}
	return nil
}

// Get returns a model's recommender, loading it from the repository on a cache miss.
func (s *Service) Get(ctx context.Context, name string) (*recommender.Service, error) {
	e, err := s.lookup(ctx, name, false)
	if err != nil {
		return nil, err
	}
	return e.rec, nil
}

// lookup resolves name to a cache entry. With create, a model absent from
// both cache and repository is created with the default options.
func (s *Service) lookup(ctx context.Context, name string, create bool) (*entry, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if e, ok := s.cache.Get(name); ok {
		return e, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache.Get(name); ok {
		return e, nil
	}

	e, err := s.load(ctx, name)
	if errors.Is(err, domain.ErrModelNotFound) && create {
		e, err = s.create(name)
	}
	if err != nil {
		return nil, err
	}
	s.cache.Add(name, e)
	return e, nil
}

func (s *Service) load(ctx context.Context, name string) (*entry, error) {
	if s.repo == nil {
		return nil, domain.ErrModelNotFound
	}
	m, err := s.repo.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	rec, err := s.newRecommender(s.defaults)
	if err != nil {
		return nil, fmt.Errorf("create recommender: %w", err)
	}
	if err := rec.Import(m); err != nil {
		return nil, fmt.Errorf("import model %s: %w", name, err)
	}

	info, err := s.repo.Info(ctx, name)
	if err != nil {
		info = model.Describe(name, m)
	}
	s.logger.Debug("Model loaded", zap.String("model", name), zap.Int("documents", m.Documents()))
	return newEntry(rec, info), nil
}

func (s *Service) create(name string) (*entry, error) {
	rec, err := s.newRecommender(s.defaults)
	if err != nil {
		return nil, fmt.Errorf("create recommender: %w", err)
	}
	info := model.Describe(name, rec.Export())
	info.UpdatedAt = s.now()
	return newEntry(rec, info), nil
}

// Train trains name over a single collection, creating the model on first use.
// patch, when non-nil, is merged over the model's current options first.
func (s *Service) Train(ctx context.Context, name string, patch *options.Patch, docs []domdoc.Document) (Run, error) {
	return s.train(ctx, name, patch, func(rec *recommender.Service, opts *options.Options) (recommender.Stats, error) {
		if opts != nil {
			return rec.TrainWith(ctx, *opts, docs)
		}
		return rec.Train(ctx, docs)
	})
}

// TrainBidirectional trains name across docs and targets.
func (s *Service) TrainBidirectional(
	ctx context.Context, name string, patch *options.Patch, docs, targets []domdoc.Document,
) (Run, error) {
	return s.train(ctx, name, patch, func(rec *recommender.Service, opts *options.Options) (recommender.Stats, error) {
		if opts != nil {
			return rec.TrainBidirectionalWith(ctx, *opts, docs, targets)
		}
		return rec.TrainBidirectional(ctx, docs, targets)
	})
}

func (s *Service) train(
	ctx context.Context, name string, patch *options.Patch,
	fn func(*recommender.Service, *options.Options) (recommender.Stats, error),
) (Run, error) {
	e, err := s.lookup(ctx, name, true)
	if err != nil {
		return Run{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The patched options only take effect if training succeeds.
	var opts *options.Options
	if patch != nil {
		merged, err := patch.Apply(e.rec.Options())
		if err != nil {
			return Run{}, err
		}
		opts = &merged
	}

	run := Run{ID: s.newRunID(), Model: name}
	log := s.logger.With(zap.String("run_id", run.ID), zap.String("model", name))

	stats, err := fn(e.rec, opts)
	if err != nil {
		log.Warn("Model training failed", zap.Error(err))
		return Run{}, fmt.Errorf("train model %s: %w", name, err)
	}
	run.Mode = stats.Mode
	run.Documents = stats.Documents
	run.Pairs = stats.Pairs
	run.Entries = stats.Entries
	run.Duration = stats.Duration

	if err := s.persistLocked(ctx, name, e, run.Mode, run.ID); err != nil {
		return run, err
	}
	log.Info("Model trained",
		zap.String("mode", run.Mode),
		zap.Int("documents", run.Documents),
		zap.Int("entries", run.Entries),
		zap.Duration("duration", run.Duration),
	)
	return run, nil
}

// persistLocked refreshes the catalogue entry and writes the model through.
// e.mu must be held.
func (s *Service) persistLocked(ctx context.Context, name string, e *entry, mode, runID string) error {
	exp := e.rec.Export()
	info := model.Describe(name, exp)
	info.Mode = mode
	info.RunID = runID
	info.UpdatedAt = s.now()
	e.info.Store(&info)

	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, info, exp); err != nil {
		return fmt.Errorf("persist model %s: %w", name, err)
	}
	return nil
}

// SetOptions merges patch over the registry defaults and applies the result.
// The similarity table is kept.
func (s *Service) SetOptions(ctx context.Context, name string, patch options.Patch) (options.Options, error) {
	e, err := s.lookup(ctx, name, true)
	if err != nil {
		return options.Options{}, err
	}
	opts, err := patch.Apply(s.defaults)
	if err != nil {
		return options.Options{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rec.Configure(opts); err != nil {
		return options.Options{}, err
	}
	prev := e.describe()
	if err := s.persistLocked(ctx, name, e, prev.Mode, prev.RunID); err != nil {
		return e.rec.Options(), err
	}
	return e.rec.Options(), nil
}

// Import replaces the parts of name present in m, creating the model if needed.
func (s *Service) Import(ctx context.Context, name string, m model.Model) (model.Info, error) {
	e, err := s.lookup(ctx, name, true)
	if err != nil {
		return model.Info{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rec.Import(m); err != nil {
		return model.Info{}, err
	}
	if err := s.persistLocked(ctx, name, e, ModeImport, ""); err != nil {
		return e.describe(), err
	}
	return e.describe(), nil
}

// Export returns a deep copy of a model.
func (s *Service) Export(ctx context.Context, name string) (model.Model, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return model.Model{}, err
	}
	return rec.Export(), nil
}

// Info returns the catalogue entry of a model.
func (s *Service) Info(ctx context.Context, name string) (model.Info, error) {
	e, err := s.lookup(ctx, name, false)
	if err != nil {
		return model.Info{}, err
	}
	return e.describe(), nil
}

// Similar returns the ranked list of id in model name.
func (s *Service) Similar(ctx context.Context, name, id string, start, size int) ([]similar.Document, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec.SimilarDocuments(id, start, size), nil
}

// Delete removes a model from the cache and the repository.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cached := s.cache.Remove(name)

	if s.repo == nil {
		if !cached {
			return domain.ErrModelNotFound
		}
		return nil
	}
	err := s.repo.Delete(ctx, name)
	if errors.Is(err, domain.ErrModelNotFound) && cached {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	return nil
}

// List returns the catalogue of models whose name matches pattern (all when
// pattern is empty), sorted by name. Cached entries take precedence.
func (s *Service) List(ctx context.Context, pattern string) ([]model.Info, error) {
	var g glob.Glob
	if pattern != "" {
		var err error
		if g, err = glob.Compile(pattern); err != nil {
			return nil, &domain.InvalidInputError{Index: -1, Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
		}
	}

	byName := make(map[string]model.Info)
	if s.repo != nil {
		stored, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		for _, info := range stored {
			byName[info.Name] = info
		}
	}
	for _, name := range s.cache.Keys() {
		e, ok := s.cache.Peek(name)
		if !ok {
			continue
		}
		byName[name] = e.describe()
	}

	out := make([]model.Info, 0, len(byName))
	for name, info := range byName {
		if g != nil && !g.Match(name) {
			continue
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Cached returns the number of recommenders held in memory.
func (s *Service) Cached() int {
	return s.cache.Len()
}
