package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/contentrec/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := JSONRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/models", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var inner *zap.Logger
	h := chiMiddleware.RequestID(WideEventMiddleware(zap.New(core))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner = logpkg.FromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/models", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if inner == nil {
		t.Fatal("request logger not in context")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d access log lines, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/models" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestModelLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(WideEventMiddleware(zap.New(core)))
	r.Route("/models/{model}", func(r chi.Router) {
		r.Use(modelLogger)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			logpkg.FromContext(r.Context()).Info("handled")
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/models/news/", http.NoBody))

	entries := logs.FilterMessage("handled").All()
	if len(entries) != 1 || entries[0].ContextMap()["model"] != "news" {
		t.Errorf("handler log = %v", entries)
	}
}
