package sqlite

import (
	"context"
	"reflect"
	"testing"

	"github.com/tabrown76/Capstone2Backend/internal/model"
)

// listOwner creates a user to hold lists — shopping_lists has a foreign key
// on user_id, so every list test needs a real user row.
func listOwner(t *testing.T, db *DB) *model.User {
	t.Helper()
	return createTestUser(t, db.Users(), "listowner")
}

func TestShoppingListGet_NoRow(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)

	// A user with no list yet gets an empty array, not an error.
	list, err := db.ShoppingLists().Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if list == nil {
		t.Fatal("Get() returned nil, want empty slice")
	}
	if len(list) != 0 {
		t.Errorf("Get() = %v, want empty", list)
	}
}

// =========================================================================
// MERGE TESTS
// =========================================================================

func TestShoppingListMergeAppend_FirstAdd(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	got, err := s.MergeAppend(context.Background(), owner.ID, []string{"flour", "eggs"})
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	want := []string{"flour", "eggs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAppend() = %v, want %v", got, want)
	}

	// The returned list and the stored list must agree.
	stored, err := s.Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored list = %v, want %v", stored, want)
	}
}

func TestShoppingListMergeAppend_UnionOrder(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	if _, err := s.MergeAppend(context.Background(), owner.ID, []string{"flour", "eggs"}); err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}

	// Stored elements keep their positions; only the unseen ones append,
	// in arrival order.
	got, err := s.MergeAppend(context.Background(), owner.ID, []string{"milk", "eggs", "butter"})
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	want := []string{"flour", "eggs", "milk", "butter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAppend() = %v, want %v", got, want)
	}
}

func TestShoppingListMergeAppend_AfterReplace(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	if err := s.Replace(context.Background(), owner.ID, []string{"i1"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := s.MergeAppend(context.Background(), owner.ID, []string{"i1", "i2"})
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	want := []string{"i1", "i2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAppend() = %v, want %v", got, want)
	}
}

func TestShoppingListMergeAppend_Idempotent(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	items := []string{"rice", "beans"}
	first, err := s.MergeAppend(context.Background(), owner.ID, items)
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	second, err := s.MergeAppend(context.Background(), owner.ID, items)
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}

	// Merging the same items again changes nothing.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second merge = %v, want %v", second, first)
	}
}

func TestShoppingListMergeAppend_InputDuplicatesAgainstEmptyStore(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	// Containment is checked against the STORED array only — duplicates
	// within a single request survive when the store has no list yet.
	got, err := s.MergeAppend(context.Background(), owner.ID, []string{"salt", "salt"})
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	want := []string{"salt", "salt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAppend() = %v, want %v", got, want)
	}
}

func TestShoppingListMergeAppend_EmptyInput(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	if _, err := s.MergeAppend(context.Background(), owner.ID, []string{"tea"}); err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}

	got, err := s.MergeAppend(context.Background(), owner.ID, nil)
	if err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}
	want := []string{"tea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAppend(nil) = %v, want %v", got, want)
	}
}

// =========================================================================
// REPLACE TESTS
// =========================================================================

func TestShoppingListReplace_Overwrites(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	if _, err := s.MergeAppend(context.Background(), owner.ID, []string{"flour", "eggs", "milk"}); err != nil {
		t.Fatalf("MergeAppend() error = %v", err)
	}

	// Replace is wholesale — no merge, previous contents are gone.
	if err := s.Replace(context.Background(), owner.ID, []string{"coffee"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := s.Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := []string{"coffee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() after replace = %v, want %v", got, want)
	}
}

func TestShoppingListReplace_FirstWrite(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	if err := s.Replace(context.Background(), owner.ID, []string{"bread", "jam"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := s.Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := []string{"bread", "jam"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}
}

func TestShoppingListReplace_KeepsDuplicatesAndEmpty(t *testing.T) {
	db := newTestDB(t)
	owner := listOwner(t, db)
	s := db.ShoppingLists()

	// Replace means exactly the given sequence, duplicates included.
	if err := s.Replace(context.Background(), owner.ID, []string{"salt", "salt"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, _ := s.Get(context.Background(), owner.ID)
	if !reflect.DeepEqual(got, []string{"salt", "salt"}) {
		t.Errorf("Get() = %v, want [salt salt]", got)
	}

	// Replacing with an empty list clears it.
	if err := s.Replace(context.Background(), owner.ID, []string{}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, _ = s.Get(context.Background(), owner.ID)
	if len(got) != 0 {
		t.Errorf("Get() after empty replace = %v, want empty", got)
	}
}
