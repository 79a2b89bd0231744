// internal/app/features/goals/goals.go
package goals

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/auth"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

type goalsRequest struct {
	Goals []models.Goal `json:"goals"`
}

type goalsResponse struct {
	Goals []models.Goal `json:"goals"`
}

// ServeGoals returns the caller's goals as loaded by the auth middleware.
// GET /api/v1/sustainability-goals
func (h *Handler) ServeGoals(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	goals := cur.SustainabilityGoals
	if goals == nil {
		goals = []models.Goal{}
	}
	httpjson.Write(w, http.StatusOK, goalsResponse{Goals: goals})
}

// HandleSetGoals replaces the goal list with one goal per submitted item.
// Only the goal text is kept; progress starts at 0 and every other
// submitted field is dropped.
// POST /api/v1/sustainability-goals
func (h *Handler) HandleSetGoals(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req goalsRequest
	if err := httpjson.Decode(w, r, &req); err != nil || req.Goals == nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	fresh := make([]models.Goal, 0, len(req.Goals))
	for _, g := range req.Goals {
		fresh = append(fresh, models.Goal{Goal: g.Goal, Progress: 0})
	}
	if err := models.ValidateGoals(fresh); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if !h.save(w, r.Context(), cur.ID, fresh) {
		return
	}
	httpjson.Message(w, http.StatusOK, "Sustainability goals set successfully")
}

// HandleReplaceGoals stores the submitted goals verbatim once they pass
// entity validation.
// PUT /api/v1/sustainability-goals
func (h *Handler) HandleReplaceGoals(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req goalsRequest
	if err := httpjson.Decode(w, r, &req); err != nil || req.Goals == nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := models.ValidateGoals(req.Goals); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if !h.save(w, r.Context(), cur.ID, req.Goals) {
		return
	}
	httpjson.Message(w, http.StatusOK, "Sustainability goals updated successfully")
}

// save writes goals and reports whether it succeeded; on failure the
// response has already been written.
func (h *Handler) save(w http.ResponseWriter, parent context.Context, id primitive.ObjectID, goals []models.Goal) bool {
	ctx, cancel := timeouts.WithTimeout(parent, timeouts.Short(), h.Log, "goals.save")
	defer cancel()

	if err := h.Users.SetGoals(ctx, id, goals); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return false
		}
		h.Log.Error("goals: save failed", zap.String("user_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Something went wrong!")
		return false
	}
	return true
}
