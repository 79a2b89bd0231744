// internal/app/features/carbonfootprint/routes.go
package carbonfootprint

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/v1/carbon-footprint behind the bearer middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleTrack)
	return r
}
