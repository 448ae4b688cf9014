package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/fedvid/fedvid/internal/logger"
)

func TestRequestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLoggerMiddleware(base))
	r.Get("/v1/test", func(w http.ResponseWriter, req *http.Request) {
		logpkg.FromContext(req.Context(), nil).Info("handler line")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID response header not set")
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("%d log entries, want handler line + canonical line", len(entries))
	}

	handlerLine := entries[0]
	if handlerLine.Message != "handler line" {
		t.Errorf("first entry = %q", handlerLine.Message)
	}
	handlerID, ok := handlerLine.ContextMap()["request_id"].(string)
	if !ok || handlerID == "" {
		t.Error("handler log line missing request_id")
	}

	canonical := entries[1]
	if canonical.Message != "http_request" {
		t.Errorf("second entry = %q", canonical.Message)
	}
	fields := canonical.ContextMap()
	if fields["request_id"] != handlerID {
		t.Errorf("request_id mismatch: canonical %v, handler %v", fields["request_id"], handlerID)
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v, want %d", fields["status"], http.StatusTeapot)
	}
	if fields["path"] != "/v1/test" {
		t.Errorf("path = %v", fields["path"])
	}
}

func TestRequestLoggerMiddleware_FallbackWithoutMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	// Without the middleware, handlers fall back to their base logger.
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context(), base).Info("fallback line")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() != 1 || logs.All()[0].Message != "fallback line" {
		t.Errorf("fallback logger not used: %d entries", logs.Len())
	}
}
