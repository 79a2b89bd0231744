// internal/app/features/goals/routes.go
package goals

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/v1/sustainability-goals behind the bearer middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGoals)
	r.Post("/", h.HandleSetGoals)
	r.Put("/", h.HandleReplaceGoals)
	return r
}
