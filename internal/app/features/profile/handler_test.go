package profile_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/features/profile"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, users ...*models.User) (*profile.Handler, *testutil.FakeUsers) {
	t.Helper()
	store := testutil.NewFakeUsers(users...)
	return profile.NewHandler(store, zap.NewNop()), store
}

func TestServeProfile(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	now := time.Now()
	e1, _ := models.NewCarbonEntry(now, 2, 3, 1, now)
	e2, _ := models.NewCarbonEntry(now, 0.5, 0, 0, now)
	u.CarbonEntries = []models.CarbonEntry{e1, e2}
	u.SustainabilityGoals = []models.Goal{{Goal: "bike more"}}

	h, _ := newTestHandler(t, u)
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodGet, "/", nil), u)
	rec := testutil.NewRecorder()
	profile.Routes(h).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body map[string]any
	rec.DecodeJSON(t, &body)
	if body["email"] != "a@x.com" {
		t.Errorf("email = %v", body["email"])
	}
	if body["carbonFootprint"] != 6.5 {
		t.Errorf("carbonFootprint = %v, want 6.5", body["carbonFootprint"])
	}
	goals, _ := body["sustainabilityGoals"].([]any)
	if len(goals) != 1 {
		t.Errorf("goals = %v", body["sustainabilityGoals"])
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password field must not be returned")
	}
	if len(body) != 3 {
		t.Errorf("unexpected fields in %v", body)
	}
}

func TestServeProfile_EmptyGoalsAreArray(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	u.SustainabilityGoals = nil
	h, _ := newTestHandler(t, u)

	rec := testutil.NewRecorder()
	profile.Routes(h).ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodGet, "/", nil), u))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"sustainabilityGoals":[]`)
}

func TestServeProfile_UserVanished(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	profile.Routes(h).ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodGet, "/", nil), u))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertError(t, "User not found")
}

func TestServeProfile_StoreError(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	h, store := newTestHandler(t, u)
	store.Err = errors.New("boom")

	rec := testutil.NewRecorder()
	profile.Routes(h).ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodGet, "/", nil), u))
	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestUpdateProfile(t *testing.T) {
	a := testutil.SavedIndividual(t, "a@x.com")
	b := testutil.SavedIndividual(t, "b@x.com")

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"missing", map[string]any{}, http.StatusBadRequest, "Email is required"},
		{"blank", map[string]any{"email": "   "}, http.StatusBadRequest, "Email is required"},
		{"bad format", map[string]any{"email": "a@b"}, http.StatusBadRequest, "Invalid email format"},
		{"taken", map[string]any{"email": "B@x.com"}, http.StatusBadRequest, "Email already in use"},
		{"malformed", `{"email":`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, a, b)
			rec := testutil.NewRecorder()
			req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/", tt.body), a)
			profile.Routes(h).ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.wantStatus)
			rec.AssertError(t, tt.wantError)
		})
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	a := testutil.SavedIndividual(t, "a@x.com")
	h, store := newTestHandler(t, a)

	for _, email := range []string{"new@x.com", "a@x.com"} {
		rec := testutil.NewRecorder()
		req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/", map[string]any{"email": email}), a)
		profile.Routes(h).ServeHTTP(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertMessage(t, "Profile updated successfully")

		got, _ := store.Get(a.ID)
		if got.Email != email {
			t.Errorf("email = %q, want %q", got.Email, email)
		}
	}
}
