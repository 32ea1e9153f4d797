package contentrec

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
)

// Option configures a Recommender.
type Option interface {
	apply(*config)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	opts       options.Options
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithOptions replaces the whole configuration. Later options still apply on top.
func WithOptions(o Options) Option {
	return optionFunc(func(c *config) { c.opts = o.Clone() })
}

// WithMaxVectorSize caps the number of terms kept per document vector.
func WithMaxVectorSize(n int) Option {
	return optionFunc(func(c *config) { c.opts.MaxVectorSize = n })
}

// WithMaxSimilarDocuments caps each ranked list.
func WithMaxSimilarDocuments(n int) Option {
	return optionFunc(func(c *config) { c.opts.MaxSimilarDocuments = n })
}

// WithMinScore drops pairs whose similarity is not above score.
func WithMinScore(score float64) Option {
	return optionFunc(func(c *config) { c.opts.MinScore = score })
}

// WithLanguage selects the text pipeline.
func WithLanguage(lang Language) Option {
	return optionFunc(func(c *config) { c.opts.Language = lang })
}

// WithTokenFilter replaces the token filter settings.
func WithTokenFilter(f TokenFilter) Option {
	return optionFunc(func(c *config) { c.opts.TokenFilter = f.Clone() })
}

// WithDebug logs per-stage timings of every training run at debug level.
func WithDebug(debug bool) Option {
	return optionFunc(func(c *config) { c.opts.Debug = debug })
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *config) { c.logger = l })
}

// WithPrometheus registers training and dictionary metrics on reg.
// Without it no metrics are collected. The Japanese dictionary is shared by
// the whole process, so its metrics go to the registerer of the first
// Recommender created with this option.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *config) { c.metricsReg = reg })
}
