// internal/app/features/ecotips/ecotips.go
package ecotips

import (
	"net/http"

	"github.com/dalemusser/ecotrack/internal/app/system/auth"
	"github.com/dalemusser/ecotrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.uber.org/zap"
)

type tipsResponse struct {
	Practices []models.EcoTip `json:"practices"`
}

type shareRequest struct {
	Tip string `json:"tip"`
}

// ServeTips lists every user's tips, newest first.
// GET /api/v1/eco-friendly-practices
func (h *Handler) ServeTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ecotips.list")
	defer cancel()

	tips, err := h.Tips.ListNewest(ctx)
	if err != nil {
		h.Log.Error("eco-tips: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if tips == nil {
		tips = []models.EcoTip{}
	}
	httpjson.Write(w, http.StatusOK, tipsResponse{Practices: tips})
}

// HandleShareTip posts a tip attributed to the caller. Markup is stripped
// before storage; a tip that is empty afterwards is rejected.
// POST /api/v1/eco-friendly-practices
func (h *Handler) HandleShareTip(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req shareRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := normalize.Tip(htmlsanitize.PlainText(req.Tip))
	if text == "" {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "ecotips.create")
	defer cancel()

	tip, err := h.Tips.Create(ctx, models.EcoTip{Tip: text, UserID: cur.ID})
	if err != nil {
		h.Log.Error("eco-tips: create failed", zap.String("user_id", cur.ID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	h.Log.Debug("eco tip shared", zap.String("tip_id", tip.ID.Hex()), zap.String("user_id", cur.ID.Hex()))
	httpjson.Message(w, http.StatusCreated, "Tip shared successfully")
}
