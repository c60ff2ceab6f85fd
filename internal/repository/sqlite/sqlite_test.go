package sqlite

import (
	"context"
	"testing"

	"github.com/tabrown76/Capstone2Backend/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Benefits:
// - Fast: no disk I/O
// - Isolated: each test gets its own database
// - Clean: automatically destroyed when the connection closes
//
// newTestDB is a "test helper" — a function used only in tests to reduce
// boilerplate. The `t.Helper()` call tells Go's test framework to report
// errors at the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup registers a function to run when the test finishes.
	// This is like defer, but scoped to the test — even works in subtests.
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a password-style user and fails the test on error.
func createTestUser(t *testing.T, u *UserDB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$04$fakehashforstoragetests",
		FirstName:    "Test",
		LastName:     "User",
		Email:        username + "@example.com",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestRecipe creates a recipe row and fails the test on error.
func createTestRecipe(t *testing.T, r *RecipeDB, id, label string) *model.Recipe {
	t.Helper()
	recipe, err := r.Create(context.Background(), &model.Recipe{
		ID:          id,
		Label:       label,
		Image:       "https://example.com/" + id + ".jpg",
		Ingredients: []string{"salt", "water"},
		URL:         "https://example.com/recipes/" + id,
	})
	if err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}
