package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// compile-time check that *RecipeDB implements the interface
var _ repository.RecipeRepository = (*RecipeDB)(nil)

// RecipeDB is the recipe and recipe↔user association store.
// Obtain one via DB.Recipes().
type RecipeDB struct {
	conn *sql.DB
}

// Create inserts the recipe if its external key is unseen.
//
// Recipes are immutable once stored: ON CONFLICT DO NOTHING means a second
// create with the same key leaves the stored row untouched, and we return
// the canonical stored row (idempotent create) rather than echoing the
// caller's input back.
func (r *RecipeDB) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	encoded, err := encodeIngredients(recipe.Ingredients)
	if err != nil {
		return nil, err
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO recipes (recipe_id, label, image, ingredients, url)
		 VALUES (?1, ?2, ?3, ?4, ?5)
		 ON CONFLICT(recipe_id) DO NOTHING`,
		recipe.ID, recipe.Label, recipe.Image, encoded, recipe.URL,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting recipe %q: %w", recipe.ID, err)
	}

	return r.GetByID(ctx, recipe.ID)
}

// GetByID retrieves a recipe by its external string key.
// Returns apperror.ErrNotFound if no row exists.
func (r *RecipeDB) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var (
		recipe model.Recipe
		raw    string
	)

	err := r.conn.QueryRowContext(ctx,
		`SELECT recipe_id, label, image, ingredients, url FROM recipes WHERE recipe_id = ?1`,
		id,
	).Scan(&recipe.ID, &recipe.Label, &recipe.Image, &raw, &recipe.URL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("sqlite: getting recipe %q: %w", id, err)
	}

	recipe.Ingredients, err = decodeIngredients(raw)
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// AddToUser associates a recipe with a user.
//
// IDEMPOTENT BY QUERY DISCIPLINE:
// The join table has no UNIQUE constraint on the pair, so we look before we
// leap — re-associating an already-associated recipe is a no-op, never a
// duplicate row.
func (r *RecipeDB) AddToUser(ctx context.Context, userID int64, recipeID string) error {
	var exists int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes_users WHERE user_id = ?1 AND recipe_id = ?2`,
		userID, recipeID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking association (user=%d, recipe=%q): %w", userID, recipeID, err)
	}
	if exists > 0 {
		return nil
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO recipes_users (user_id, recipe_id) VALUES (?1, ?2)`,
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: associating recipe %q with user %d: %w", recipeID, userID, err)
	}

	return nil
}

// RemoveFromUser deletes the association between a user and a recipe.
// Returns apperror.ErrNotFound if there was none. The recipe row itself is
// never deleted — other users may hold it.
func (r *RecipeDB) RemoveFromUser(ctx context.Context, userID int64, recipeID string) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM recipes_users WHERE user_id = ?1 AND recipe_id = ?2`,
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing recipe %q from user %d: %w", recipeID, userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading delete result (user=%d, recipe=%q): %w", userID, recipeID, err)
	}
	if affected == 0 {
		return apperror.NotFound("recipe", recipeID+" for user "+strconv.FormatInt(userID, 10))
	}

	return nil
}

// ListForUser returns the recipes associated with a user, in association
// order (rowid order of the join table).
func (r *RecipeDB) ListForUser(ctx context.Context, userID int64) ([]model.Recipe, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT r.recipe_id, r.label, r.image, r.ingredients, r.url
		 FROM recipes r
		 JOIN recipes_users ru ON ru.recipe_id = r.recipe_id
		 WHERE ru.user_id = ?1
		 ORDER BY ru.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recipes for user %d: %w", userID, err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		var (
			recipe model.Recipe
			raw    string
		)
		if err := rows.Scan(&recipe.ID, &recipe.Label, &recipe.Image, &raw, &recipe.URL); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe for user %d: %w", userID, err)
		}
		recipe.Ingredients, err = decodeIngredients(raw)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recipes for user %d: %w", userID, err)
	}

	return recipes, nil
}
