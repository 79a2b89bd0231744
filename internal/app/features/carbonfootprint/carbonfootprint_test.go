package carbonfootprint_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/features/carbonfootprint"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func post(t *testing.T, store *testutil.FakeUsers, u *models.User, body any) *testutil.ResponseRecorder {
	t.Helper()
	h := carbonfootprint.NewHandler(store, zap.NewNop())
	rec := testutil.NewRecorder()
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", body), u)
	carbonfootprint.Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestTrack_ComputesTotal(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	store := testutil.NewFakeUsers(u)
	today := time.Now().UTC().Format("2006-01-02")

	rec := post(t, store, u, map[string]any{
		"date": today, "transportation": 2, "energyConsumption": 3, "wasteDisposal": 1,
	})
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Message string             `json:"message"`
		Entry   models.CarbonEntry `json:"entry"`
	}
	rec.DecodeJSON(t, &body)
	if body.Message != "Carbon footprint tracked successfully" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Entry.TotalFootprint != 6 {
		t.Errorf("totalFootprint = %v, want 6", body.Entry.TotalFootprint)
	}

	got, _ := store.Get(u.ID)
	if len(got.CarbonEntries) != 1 || got.TotalFootprint() != 6 {
		t.Errorf("stored entries = %+v", got.CarbonEntries)
	}
}

func TestTrack_TotalIsExactSum(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	store := testutil.NewFakeUsers(u)

	cases := [][3]float64{{0, 0, 0}, {0.1, 0.2, 0.3}, {1e6, 2.5, 1e-3}}
	for _, c := range cases {
		rec := post(t, store, u, map[string]any{
			"date": "2024-01-15", "transportation": c[0], "energyConsumption": c[1], "wasteDisposal": c[2],
		})
		rec.AssertStatus(t, http.StatusOK)
		var body struct {
			Entry models.CarbonEntry `json:"entry"`
		}
		rec.DecodeJSON(t, &body)
		if want := c[0] + c[1] + c[2]; body.Entry.TotalFootprint != want {
			t.Errorf("%v: total = %v, want %v", c, body.Entry.TotalFootprint, want)
		}
	}
}

func TestTrack_TruncatesToUTCDay(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	store := testutil.NewFakeUsers(u)

	rec := post(t, store, u, map[string]any{
		"date": "2024-03-10T22:30:00-05:00", "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1,
	})
	rec.AssertStatus(t, http.StatusOK)

	got, _ := store.Get(u.ID)
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.CarbonEntries[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", got.CarbonEntries[0].Date, want)
	}
}

func TestTrack_FutureDate(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	store := testutil.NewFakeUsers(u)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	rec := post(t, store, u, map[string]any{
		"date": tomorrow, "transportation": 2, "energyConsumption": 3, "wasteDisposal": 1,
	})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, "Cannot track carbon footprint for future dates")

	if got, _ := store.Get(u.ID); len(got.CarbonEntries) != 0 {
		t.Error("future entry must not be stored")
	}
}

func TestTrack_LaterTodayIsAccepted(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	store := testutil.NewFakeUsers(u)
	endOfToday := models.DayUTC(time.Now()).Add(23*time.Hour + 59*time.Minute).Format(time.RFC3339)

	rec := post(t, store, u, map[string]any{
		"date": endOfToday, "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1,
	})
	rec.AssertStatus(t, http.StatusOK)
}

func TestTrack_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"no date", map[string]any{"transportation": 1, "energyConsumption": 1, "wasteDisposal": 1}, "Invalid date format"},
		{"boolean date", map[string]any{"date": true, "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1}, "Invalid date format"},
		{"garbage date", map[string]any{"date": "yesterday-ish", "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1}, "Invalid date format"},
		{"missing component", map[string]any{"date": "2024-01-01", "transportation": 1, "energyConsumption": 1}, "Invalid request body"},
		{"negative component", map[string]any{"date": "2024-01-01", "transportation": -1, "energyConsumption": 1, "wasteDisposal": 1}, "Invalid request body"},
		{"string component", map[string]any{"date": "2024-01-01", "transportation": "1", "energyConsumption": 1, "wasteDisposal": 1}, "Invalid request body"},
		{"malformed json", `{"date":`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testutil.SavedIndividual(t, "a@x.com")
			rec := post(t, testutil.NewFakeUsers(u), u, tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertError(t, tt.want)
		})
	}
}

func TestTrack_StoreErrors(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	body := map[string]any{"date": "2024-01-01", "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1}

	rec := post(t, testutil.NewFakeUsers(), u, body)
	rec.AssertStatus(t, http.StatusNotFound)

	failing := testutil.NewFakeUsers(u)
	failing.Err = errors.New("boom")
	rec = post(t, failing, u, body)
	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertError(t, "Something went wrong!")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:20:30Z", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), true},
		{"2024-05-01T10:20:30.123Z", time.Date(2024, 5, 1, 10, 20, 30, 123e6, time.UTC), true},
		{"2024-05-01T10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), true},
		{"2024-05-01T10:20", time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"05/01/2024", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := carbonfootprint.ParseDate(tt.in)
		if ok != tt.ok || (ok && !got.Equal(tt.want)) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTrack_AcceptsMinutePrecisionAndEpochMillis(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	for name, date := range map[string]any{
		"no seconds":   "2024-05-10T10:00",
		"epoch millis": day.Add(10 * time.Hour).UnixMilli(),
	} {
		t.Run(name, func(t *testing.T) {
			u := testutil.SavedIndividual(t, "a@x.com")
			rec := post(t, testutil.NewFakeUsers(u), u, map[string]any{
				"date": date, "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1,
			})
			rec.AssertStatus(t, http.StatusOK)

			var body struct {
				Entry models.CarbonEntry `json:"entry"`
			}
			rec.DecodeJSON(t, &body)
			if !body.Entry.Date.Equal(day) {
				t.Errorf("date = %v, want %v", body.Entry.Date, day)
			}
		})
	}
}

// slowStore holds every append until the request context ends.
type slowStore struct{}

func (slowStore) AppendCarbonEntry(ctx context.Context, _ primitive.ObjectID, _ models.CarbonEntry) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestTrack_LogsDeadline(t *testing.T) {
	timeouts.Configure(timeouts.Config{Short: 5 * time.Millisecond})
	t.Cleanup(timeouts.Reset)

	core, logs := observer.New(zap.WarnLevel)
	h := carbonfootprint.NewHandler(slowStore{}, zap.New(core))
	u := testutil.SavedIndividual(t, "a@x.com")
	rec := testutil.NewRecorder()
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"date": "2024-01-01", "transportation": 1, "energyConsumption": 1, "wasteDisposal": 1,
	}), u)
	carbonfootprint.Routes(h).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 || entries[0].ContextMap()["operation"] != "carbonfootprint.append" {
		t.Errorf("timeout log = %+v", entries)
	}
}
