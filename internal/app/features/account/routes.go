// internal/app/features/account/routes.go
package account

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/v1/auth. None of these routes require a token.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Post("/reset-password", h.HandleResetPassword)
	return r
}
