// Package chi exposes the model registry over HTTP.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/domain"
	healthuc "github.com/kailas-cloud/contentrec/internal/usecase/health"
	registryuc "github.com/kailas-cloud/contentrec/internal/usecase/registry"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 64 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the model registry API.
type Server struct {
	registry      *registryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	metrics       http.Handler
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option interface {
	apply(*Server)
}

type optionFunc func(*Server)

func (f optionFunc) apply(s *Server) { f(s) }

// WithMaxBodyBytes limits request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return optionFunc(func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	})
}

// WithMetricsHandler replaces the /metrics handler.
func WithMetricsHandler(h http.Handler) Option {
	return optionFunc(func(s *Server) {
		if h != nil {
			s.metrics = h
		}
	})
}

// NewServer creates an HTTP API server.
func NewServer(
	registry *registryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		registry:     registry,
		health:       health,
		logger:       logger,
		metrics:      promhttp.Handler(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, o := range opts {
		o.apply(s)
	}
	s.errorHandlers = []errorHandler{
		bodyTooLargeHandler,
		sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, codeConfiguration),
		sentinelHandler(domain.ErrUnsupportedLanguage, http.StatusBadRequest, codeUnsupportedLanguage),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput),
		sentinelHandler(domain.ErrModelNotFound, http.StatusNotFound, codeModelNotFound),
		sentinelHandler(domain.ErrInitialization, http.StatusServiceUnavailable, codeInitialization),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.ListModels)
		r.Route("/{model}", func(r chi.Router) {
			r.Use(modelLogger)
			r.Get("/", s.GetModel)
			r.Delete("/", s.DeleteModel)
			r.Post("/train", s.Train)
			r.Post("/train-bidirectional", s.TrainBidirectional)
			r.Get("/documents/{id}/similar", s.SimilarDocuments)
			r.Get("/export", s.ExportModel)
			r.Put("/import", s.ImportModel)
			r.Patch("/options", s.PatchOptions)
		})
	})
}

// Handler returns a router with the API routes and JSON 404/405 responses.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	s.Register(r)
	return r
}
