package errors_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/dalemusser/ecotrack/internal/app/features/errors"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecoverer_PanicBecomes500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := apperrors.NewHandler(zap.New(core))

	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("database exploded: secret-host:27017")
	})

	rec := testutil.NewRecorder()
	h.Recoverer(boom).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/profile", nil))

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertError(t, "Something went wrong!")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if _, ok := entry.ContextMap()["stack"]; !ok {
		t.Error("expected stack to be logged")
	}
}

func TestRecoverer_PassesThrough(t *testing.T) {
	h := apperrors.NewHandler(zap.NewNop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := testutil.NewRecorder()
	h.Recoverer(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	rec.AssertStatus(t, http.StatusTeapot)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := apperrors.NewHandler(zap.NewNop())

	rec := testutil.NewRecorder()
	h.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertError(t, "Not found")

	rec = testutil.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest("DELETE", "/api/v1/profile", nil))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
	rec.AssertError(t, "Method not allowed")
}
