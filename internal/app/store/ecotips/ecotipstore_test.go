package ecotipstore_test

import (
	"testing"
	"time"

	ecotipstore "github.com/dalemusser/ecotrack/internal/app/store/ecotips"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/dalemusser/ecotrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ecotipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	tip, err := store.Create(ctx, models.EcoTip{Tip: "Cycle to work", UserID: author})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tip.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if tip.UserID != author {
		t.Errorf("UserID = %v, want %v", tip.UserID, author)
	}
	if tip.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_ListNewest_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ecotipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tips, err := store.ListNewest(ctx)
	if err != nil {
		t.Fatalf("ListNewest failed: %v", err)
	}
	if tips == nil || len(tips) != 0 {
		t.Errorf("tips = %#v, want empty non-nil slice", tips)
	}
}

func TestStore_ListNewest_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ecotipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, _ := store.Create(ctx, models.EcoTip{Tip: "first", UserID: primitive.NewObjectID()})
	time.Sleep(5 * time.Millisecond)
	second, _ := store.Create(ctx, models.EcoTip{Tip: "second", UserID: primitive.NewObjectID()})

	tips, err := store.ListNewest(ctx)
	if err != nil {
		t.Fatalf("ListNewest failed: %v", err)
	}
	if len(tips) != 2 {
		t.Fatalf("len = %d, want 2", len(tips))
	}
	if tips[0].ID != second.ID || tips[1].ID != first.ID {
		t.Errorf("order = [%s, %s], want newest first", tips[0].Tip, tips[1].Tip)
	}
}
