package threadstore_test

import (
	"errors"
	"testing"

	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	"github.com/teamonehq/teamone/internal/domain/models"
	"github.com/teamonehq/teamone/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_PersonalPairUniqueIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	first, err := store.Create(ctx, models.Thread{
		Type:    models.ThreadTypePersonal,
		Members: []primitive.ObjectID{a, b},
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Same pair in reverse order must hit the unique member_key index.
	_, err = store.Create(ctx, models.Thread{
		Type:    models.ThreadTypePersonal,
		Members: []primitive.ObjectID{b, a},
	})
	if !errors.Is(err, threadstore.ErrDuplicatePair) {
		t.Fatalf("second create: got %v, want ErrDuplicatePair", err)
	}

	// Workspace threads carry no member key, so the sparse index must not
	// collapse them onto each other.
	wsID := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, models.Thread{
			Type:        models.ThreadTypeWorkspace,
			WorkspaceID: &wsID,
			Title:       "General",
			IsPublic:    true,
			CreatedBy:   a,
		}); err != nil {
			t.Fatalf("workspace thread create %d failed: %v", i, err)
		}
	}

	got, err := store.GetPersonalPair(ctx, b, a)
	if err != nil {
		t.Fatalf("GetPersonalPair failed: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("GetPersonalPair: got %s, want %s", got.ID.Hex(), first.ID.Hex())
	}
}

func TestGetPersonalPair_OrderIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	th, err := store.Create(ctx, models.Thread{
		Type:    models.ThreadTypePersonal,
		Members: []primitive.ObjectID{a, b},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	forward, err := store.GetPersonalPair(ctx, a, b)
	if err != nil {
		t.Fatalf("forward lookup failed: %v", err)
	}
	reverse, err := store.GetPersonalPair(ctx, b, a)
	if err != nil {
		t.Fatalf("reverse lookup failed: %v", err)
	}
	if forward.ID != th.ID || reverse.ID != th.ID {
		t.Errorf("lookups disagree: forward %s reverse %s want %s",
			forward.ID.Hex(), reverse.ID.Hex(), th.ID.Hex())
	}

	if _, err := store.GetPersonalPair(ctx, a, primitive.NewObjectID()); !errors.Is(err, threadstore.ErrNotFound) {
		t.Errorf("unknown pair: got %v, want ErrNotFound", err)
	}
}
