package recommender

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/domain/options"
)

// tracer logs per-stage timings when the debug option is on.
type tracer struct {
	logger *zap.Logger
	last   time.Time
}

func (s *Service) tracer(opts options.Options) *tracer {
	if !opts.Debug {
		return &tracer{}
	}
	return &tracer{logger: s.logger, last: time.Now()}
}

func (t *tracer) stage(name string, fields ...zap.Field) {
	if t.logger == nil {
		return
	}
	now := time.Now()
	fields = append(fields, zap.String("stage", name), zap.Duration("took", now.Sub(t.last)))
	t.last = now
	t.logger.Info("Training stage", fields...)
}
