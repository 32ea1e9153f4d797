package recommender

import (
	"time"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/text/pipeline"
)

// PipelineFactory builds the text pipeline for a language and filter configuration.
type PipelineFactory func(lang language.Language, filter options.TokenFilter) (pipeline.Pipeline, error)

// Metrics receives per-run training statistics.
type Metrics interface {
	ObserveTraining(mode, status string, took time.Duration, documents, pairs, entries int)
}

// Training modes as reported to Metrics and Stats.
const (
	ModeSingle        = "single"
	ModeBidirectional = "bidirectional"
)
