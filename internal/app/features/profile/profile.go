// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/auth"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/inputval"
	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.uber.org/zap"
)

const (
	msgUserNotFound = "User not found"
	msgEmailInUse   = "Email already in use"
	msgInternal     = "Something went wrong!"
)

type profileResponse struct {
	Email               string        `json:"email"`
	CarbonFootprint     float64       `json:"carbonFootprint"`
	SustainabilityGoals []models.Goal `json:"sustainabilityGoals"`
}

type updateRequest struct {
	Email string `json:"email"`
}

// ServeProfile returns the caller's email, aggregate footprint and goals.
// GET /api/v1/profile
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profile.get")
	defer cancel()

	u, err := h.Users.GetByID(ctx, cur.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.Log.Error("profile: load user failed", zap.String("user_id", cur.ID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}
	u.EnsureCollections()

	httpjson.Write(w, http.StatusOK, profileResponse{
		Email:               u.Email,
		CarbonFootprint:     u.TotalFootprint(),
		SustainabilityGoals: u.SustainabilityGoals,
	})
}

// HandleUpdateProfile changes the caller's email. Nothing else on the
// profile is writable here.
// PUT /api/v1/profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalize.Email(req.Email)
	if email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if !inputval.IsValidEmail(email) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profile.update")
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, email, cur.ID)
	if err != nil {
		h.Log.Error("profile: email check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if taken {
		httpjson.Error(w, http.StatusBadRequest, msgEmailInUse)
		return
	}

	if err := h.Users.UpdateEmail(ctx, cur.ID, email); err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail):
			// Lost a race with another account claiming the same address.
			httpjson.Error(w, http.StatusBadRequest, msgEmailInUse)
		case errors.Is(err, userstore.ErrNotFound):
			httpjson.Error(w, http.StatusNotFound, msgUserNotFound)
		default:
			h.Log.Error("profile: update email failed", zap.String("user_id", cur.ID.Hex()), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	httpjson.Message(w, http.StatusOK, "Profile updated successfully")
}
