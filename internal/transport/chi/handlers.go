package chi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/contentrec/internal/corpus"
	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	healthuc "github.com/kailas-cloud/contentrec/internal/usecase/health"
)

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	infos, err := s.registry.List(r.Context(), r.URL.Query().Get("match"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Models: infos})
}

// GetModel handles GET /models/{model}.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	info, err := s.registry.Info(r.Context(), chi.URLParam(r, "model"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DeleteModel handles DELETE /models/{model}.
func (s *Server) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.Context(), chi.URLParam(r, "model")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Train handles POST /models/{model}/train.
func (s *Server) Train(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if !s.decode(w, r, &req) {
		return
	}
	docs, err := corpus.ToDocuments(req.Documents)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	run, err := s.registry.Train(r.Context(), chi.URLParam(r, "model"), req.Options, docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runToResponse(run))
}

// TrainBidirectional handles POST /models/{model}/train-bidirectional.
func (s *Server) TrainBidirectional(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if !s.decode(w, r, &req) {
		return
	}
	docs, err := corpus.ToDocuments(req.Documents)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	targets, err := corpus.ToDocuments(req.TargetDocuments)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	run, err := s.registry.TrainBidirectional(r.Context(), chi.URLParam(r, "model"), req.Options, docs, targets)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runToResponse(run))
}

// SimilarDocuments handles GET /models/{model}/documents/{id}/similar.
func (s *Server) SimilarDocuments(w http.ResponseWriter, r *http.Request) {
	start, ok := queryInt(w, r, "start", 0)
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size", -1)
	if !ok {
		return
	}

	name, id := chi.URLParam(r, "model"), chi.URLParam(r, "id")
	items, err := s.registry.Similar(r.Context(), name, id, start, size)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, similarResponse{Model: name, ID: id, Start: start, Items: items})
}

// ExportModel handles GET /models/{model}/export. ?format=yaml switches the encoding.
func (s *Server) ExportModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.registry.Export(r.Context(), chi.URLParam(r, "model"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		enc := yaml.NewEncoder(w)
		_ = enc.Encode(m)
		_ = enc.Close()
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ImportModel handles PUT /models/{model}/import.
func (s *Server) ImportModel(w http.ResponseWriter, r *http.Request) {
	var m model.Model
	if !s.decode(w, r, &m) {
		return
	}
	info, err := s.registry.Import(r.Context(), chi.URLParam(r, "model"), m)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// PatchOptions handles PATCH /models/{model}/options.
func (s *Server) PatchOptions(w http.ResponseWriter, r *http.Request) {
	var p options.Patch
	if !s.decode(w, r, &p) {
		return
	}
	opts, err := s.registry.SetOptions(r.Context(), chi.URLParam(r, "model"), p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter "+key+" must be an integer")
		return 0, false
	}
	return v, true
}
