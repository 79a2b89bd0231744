// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
	"runtime/debug"

	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// internalMessage is the only detail a client sees for an unexpected failure.
const internalMessage = "Something went wrong!"

// Handler is the errors feature handler. No DB needed.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound answers unknown routes with 404 JSON.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Internal writes the generic 500 body. Handlers call it after logging the
// underlying error themselves.
func Internal(w http.ResponseWriter) {
	httpjson.Error(w, http.StatusInternalServerError, internalMessage)
}

// Recoverer turns a panic in any downstream handler into a logged stack
// trace and a generic 500 response.
func (h *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.Log.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.ByteString("stack", debug.Stack()),
			)
			if r.Header.Get("Connection") != "Upgrade" {
				Internal(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
