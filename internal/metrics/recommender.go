package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommender records training runs and dictionary initialisation.
// A nil *Recommender is a valid no-op.
type Recommender struct {
	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	documents    *prometheus.CounterVec
	pairs        *prometheus.CounterVec
	entries      *prometheus.CounterVec
	dictInit     *prometheus.CounterVec
	dictDuration prometheus.Histogram
}

// NewRecommender creates the training collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewRecommender(reg prometheus.Registerer) (*Recommender, error) {
	m := &Recommender{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_runs_total",
			Help:      "Training runs by mode and status",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Training run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"mode"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_documents_total",
			Help:      "Documents processed by training runs",
		}, []string{"mode"}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_pairs_compared_total",
			Help:      "Document pairs compared by training runs",
		}, []string{"mode"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_similarity_entries_total",
			Help:      "Similarity entries kept after ranking",
		}, []string{"mode"}),
		dictInit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_init_total",
			Help:      "Morphological dictionary builds by status",
		}, []string{"status"}),
		dictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dictionary_init_duration_seconds",
			Help:      "Morphological dictionary build duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	for _, c := range []**prometheus.CounterVec{&m.runs, &m.documents, &m.pairs, &m.entries, &m.dictInit} {
		if err := registerOrReuse(reg, c); err != nil {
			return nil, err
		}
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.dictDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveTraining records one finished training run.
func (m *Recommender) ObserveTraining(mode, status string, took time.Duration, documents, pairs, entries int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(mode, status).Inc()
	m.duration.WithLabelValues(mode).Observe(took.Seconds())
	m.documents.WithLabelValues(mode).Add(float64(documents))
	m.pairs.WithLabelValues(mode).Add(float64(pairs))
	m.entries.WithLabelValues(mode).Add(float64(entries))
}

// ObserveDictionaryInit records one dictionary build.
func (m *Recommender) ObserveDictionaryInit(err error, took time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dictInit.WithLabelValues(status).Inc()
	m.dictDuration.Observe(took.Seconds())
}
