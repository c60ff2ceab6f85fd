// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in repository/sqlite; tests
// inject in-memory mocks.
package repository

import (
	"context"

	"github.com/tabrown76/Capstone2Backend/internal/model"
)

// UpdateField is one logical-field/value pair of a sparse partial update.
//
// WHY A SLICE OF PAIRS AND NOT A MAP?
// The partial-update contract promises placeholder numbering in the order
// the caller supplied the fields. Go maps iterate in random order, so the
// caller hands over an ordered slice instead.
type UpdateField struct {
	Name  string
	Value any
}

type UserRepository interface {
	// Create inserts a new user and sets user.ID from the store.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername returns the user INCLUDING the password hash — it
	// exists for the authentication path only.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	// Update applies a sparse partial update (any subset of first_name,
	// last_name, email, password) and returns the resulting row.
	Update(ctx context.Context, id int64, fields []UpdateField) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type ShoppingListRepository interface {
	// Get returns the user's stored ingredient array, or an empty slice if
	// the user has no list yet. Absence is a valid state, not an error.
	Get(ctx context.Context, userID int64) ([]string, error)
	// MergeAppend upserts the user's list with set-union semantics against
	// the STORED array and returns the resulting full list.
	MergeAppend(ctx context.Context, userID int64, ingredients []string) ([]string, error)
	// Replace upserts the user's list to exactly the given sequence.
	Replace(ctx context.Context, userID int64, ingredients []string) error
}

type RecipeRepository interface {
	// Create inserts the recipe if its key is unseen and returns the
	// canonical stored row either way.
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	// AddToUser associates a recipe with a user; idempotent.
	AddToUser(ctx context.Context, userID int64, recipeID string) error
	// RemoveFromUser deletes the association; ErrNotFound if absent.
	RemoveFromUser(ctx context.Context, userID int64, recipeID string) error
	ListForUser(ctx context.Context, userID int64) ([]model.Recipe, error)
}
