package metricsstore_test

import (
	"context"
	"testing"

	ecotipstore "github.com/dalemusser/ecotrack/internal/app/store/ecotips"
	metricsstore "github.com/dalemusser/ecotrack/internal/app/store/metrics"
	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFetchCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchCounts(ctx, db, zap.NewNop())
	if counts != (metricsstore.Counts{}) {
		t.Errorf("counts = %+v, want zero", counts)
	}
}

func TestFetchCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	mustCreate := func(u models.User) models.User {
		t.Helper()
		created, err := users.Create(ctx, u)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return created
	}
	a := mustCreate(testutil.NewIndividual(t, "a@x.com"))
	mustCreate(testutil.NewIndividual(t, "b@x.com"))
	mustCreate(testutil.NewBusiness(t, "c@x.com", "Acme", 10))
	mustCreate(testutil.NewFamily(t, "d@x.com", models.FamilyMember{Name: "Ann", Role: "parent"}))

	if _, err := ecotipstore.New(db).Create(ctx, models.EcoTip{Tip: "Bike", UserID: a.ID}); err != nil {
		t.Fatalf("tip Create: %v", err)
	}

	counts := metricsstore.FetchCounts(ctx, db, zap.NewNop())
	want := metricsstore.Counts{Individuals: 2, Families: 1, Businesses: 1, EcoTips: 1}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
	if counts.Users() != 4 {
		t.Errorf("Users() = %d, want 4", counts.Users())
	}
}

func TestFetchCounts_LogsFailedCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	core, logs := observer.New(zap.WarnLevel)
	counts := metricsstore.FetchCounts(ctx, db, zap.New(core))
	if counts != (metricsstore.Counts{}) {
		t.Errorf("counts = %+v, want zero", counts)
	}
	if got := logs.FilterMessage("metrics: user count failed").Len(); got != 3 {
		t.Errorf("user count warnings = %d, want 3", got)
	}
	if got := logs.FilterMessage("metrics: eco tip count failed").Len(); got != 1 {
		t.Errorf("tip count warnings = %d, want 1", got)
	}
}
