package ecotips_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/features/ecotips"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.uber.org/zap"
)

func serve(t *testing.T, tips *testutil.FakeTips, u *models.User, method string, body any) *testutil.ResponseRecorder {
	t.Helper()
	h := ecotips.NewHandler(tips, zap.NewNop())
	rec := testutil.NewRecorder()
	req := testutil.WithUser(testutil.NewJSONRequest(t, method, "/", body), u)
	ecotips.Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestShareTip_TwoUsersNewestFirst(t *testing.T) {
	alice := testutil.SavedIndividual(t, "alice@x.com")
	bob := testutil.SavedIndividual(t, "bob@x.com")
	tips := testutil.NewFakeTips()

	rec := serve(t, tips, alice, http.MethodPost, map[string]any{"tip": "Turn off lights"})
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertMessage(t, "Tip shared successfully")

	time.Sleep(2 * time.Millisecond)
	serve(t, tips, bob, http.MethodPost, map[string]any{"tip": "Compost scraps"}).AssertStatus(t, http.StatusCreated)

	rec = serve(t, tips, alice, http.MethodGet, nil)
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Practices []models.EcoTip `json:"practices"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Practices) != 2 {
		t.Fatalf("practices = %+v", body.Practices)
	}
	if body.Practices[0].Tip != "Compost scraps" || body.Practices[0].UserID != bob.ID {
		t.Errorf("first = %+v, want bob's tip", body.Practices[0])
	}
	if body.Practices[1].UserID != alice.ID {
		t.Errorf("second = %+v, want alice's tip", body.Practices[1])
	}
}

func TestShareTip_StripsMarkup(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	tips := testutil.NewFakeTips()

	rec := serve(t, tips, u, http.MethodPost, map[string]any{"tip": `  <b>Reuse</b> bags<script>alert(1)</script> `})
	rec.AssertStatus(t, http.StatusCreated)

	list, _ := tips.ListNewest(t.Context())
	if len(list) != 1 || list[0].Tip != "Reuse bags" {
		t.Errorf("stored = %+v", list)
	}
}

func TestShareTip_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing", map[string]any{}},
		{"blank", map[string]any{"tip": "   "}},
		{"only markup", map[string]any{"tip": "<script>x</script>"}},
		{"not a string", map[string]any{"tip": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testutil.SavedIndividual(t, "a@x.com")
			rec := serve(t, testutil.NewFakeTips(), u, http.MethodPost, tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertError(t, "Invalid request body")
		})
	}
}

func TestServeTips_EmptyIsArray(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	rec := serve(t, testutil.NewFakeTips(), u, http.MethodGet, nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"practices":[]`)
}

func TestServeTips_StoreFailure(t *testing.T) {
	u := testutil.SavedIndividual(t, "a@x.com")
	tips := testutil.NewFakeTips()
	tips.Err = errors.New("boom")

	rec := serve(t, tips, u, http.MethodGet, nil)
	rec.AssertStatus(t, http.StatusInternalServerError)
}
