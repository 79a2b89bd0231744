// internal/app/features/ecotips/routes.go
package ecotips

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/v1/eco-friendly-practices behind the bearer middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeTips)
	r.Post("/", h.HandleShareTip)
	return r
}
