package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/contentrec/internal/logger"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest          = "bad_request"
	codeConfiguration       = "invalid_configuration"
	codeInvalidInput        = "invalid_input"
	codeUnsupportedLanguage = "unsupported_language"
	codeModelNotFound       = "model_not_found"
	codeNotFound            = "not_found"
	codeInitialization      = "initialization_failed"
	codeBodyTooLarge        = "body_too_large"
	codeUnauthorized        = "unauthorized"
	codeInternal            = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Domain errors carry no internals, so their text is returned as is.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func bodyTooLargeHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, codeBodyTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// decode reads a JSON body into v, bounded by the server's body limit.
// It writes the error response itself and reports whether decoding succeeded.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.UseNumber()
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	if bodyTooLargeHandler(w, err) {
		return false
	}
	if errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body is empty")
		return false
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
	return false
}
