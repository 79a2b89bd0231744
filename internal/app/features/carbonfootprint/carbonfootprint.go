// internal/app/features/carbonfootprint/carbonfootprint.go
package carbonfootprint

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/auth"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

// Components are pointers so a missing field is distinguishable from zero.
// Date is raw so it can be either a string or epoch milliseconds.
type trackRequest struct {
	Date              json.RawMessage `json:"date"`
	Transportation    *float64 `json:"transportation"`
	EnergyConsumption *float64 `json:"energyConsumption"`
	WasteDisposal     *float64 `json:"wasteDisposal"`
}

type trackResponse struct {
	Message string             `json:"message"`
	Entry   models.CarbonEntry `json:"entry"`
}

// dateLayouts are tried in order. Inputs without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts an ISO-8601 date or timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDateField reads the request's date: a string for ParseDate, or a
// number of milliseconds since the Unix epoch.
func parseDateField(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		return ParseDate(s)
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil || math.IsInf(ms, 0) || math.Abs(ms) > 8.64e15 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// HandleTrack appends one day's entry to the caller's footprint log. The
// total is always computed here from the three components.
// POST /api/v1/carbon-footprint
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	cur, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req trackRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	date, ok := parseDateField(req.Date)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Invalid date format")
		return
	}

	missing := req.Transportation == nil || req.EnergyConsumption == nil || req.WasteDisposal == nil
	entry, err := models.NewCarbonEntry(date,
		valueOf(req.Transportation), valueOf(req.EnergyConsumption), valueOf(req.WasteDisposal),
		h.now())
	switch {
	case errors.Is(err, models.ErrFutureDate):
		httpjson.Error(w, http.StatusBadRequest, "Cannot track carbon footprint for future dates")
		return
	case err != nil || missing:
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "carbonfootprint.append")
	defer cancel()

	if err := h.Users.AppendCarbonEntry(ctx, cur.ID, entry); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("carbon-footprint: append failed", zap.String("user_id", cur.ID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	httpjson.Write(w, http.StatusOK, trackResponse{
		Message: "Carbon footprint tracked successfully",
		Entry:   entry,
	})
}

func valueOf(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
