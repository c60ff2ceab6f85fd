package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// compile-time check that *ShoppingListDB implements the interface
var _ repository.ShoppingListRepository = (*ShoppingListDB)(nil)

// ShoppingListDB is the shopping-list store. Obtain one via DB.ShoppingLists().
//
// Each user has at most one list row (UNIQUE on user_id); the ingredient
// array is stored as a JSON text column since SQLite has no array type.
type ShoppingListDB struct {
	conn *sql.DB
}

// Get returns the user's stored ingredient array.
//
// A user who has never added anything has no row — that is a valid state,
// so Get returns an empty slice rather than a not-found error.
func (s *ShoppingListDB) Get(ctx context.Context, userID int64) ([]string, error) {
	var raw string
	err := s.conn.QueryRowContext(ctx,
		`SELECT ingredients FROM shopping_lists WHERE user_id = ?1`, userID,
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return []string{}, nil
		}
		return nil, fmt.Errorf("sqlite: getting shopping list for user %d: %w", userID, err)
	}

	return decodeIngredients(raw)
}

// MergeAppend upserts the user's list with set-union semantics.
//
// MERGE POLICY:
//   - no row yet → the list becomes exactly `ingredients`
//   - row exists → append only the elements NOT already present in the
//     STORED array, preserving stored order first, then arrival order
//   - duplicates WITHIN `ingredients` are deliberately not deduplicated
//     against each other — the containment check runs against the stored
//     array only, matching the original array-containment behaviour
//
// The read and the upsert run in one transaction, and the write itself is
// an atomic INSERT ... ON CONFLICT upsert, so two concurrent merges cannot
// lose each other's check-then-insert.
func (s *ShoppingListDB) MergeAppend(ctx context.Context, userID int64, ingredients []string) ([]string, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning merge for user %d: %w", userID, err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	merged := slices.Clone(ingredients)

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT ingredients FROM shopping_lists WHERE user_id = ?1`, userID,
	).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// first add — the new elements become the whole list
	case err != nil:
		return nil, fmt.Errorf("sqlite: reading shopping list for user %d: %w", userID, err)
	default:
		existing, decErr := decodeIngredients(raw)
		if decErr != nil {
			return nil, decErr
		}
		merged = existing
		for _, item := range ingredients {
			if !slices.Contains(existing, item) {
				merged = append(merged, item)
			}
		}
	}

	encoded, err := encodeIngredients(merged)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, ingredients) VALUES (?1, ?2)
		 ON CONFLICT(user_id) DO UPDATE SET ingredients = excluded.ingredients`,
		userID, encoded,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting shopping list for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing merge for user %d: %w", userID, err)
	}

	return merged, nil
}

// Replace upserts the user's list to exactly the given sequence — no
// deduplication, no merge. The previous contents are gone.
func (s *ShoppingListDB) Replace(ctx context.Context, userID int64, ingredients []string) error {
	encoded, err := encodeIngredients(ingredients)
	if err != nil {
		return err
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, ingredients) VALUES (?1, ?2)
		 ON CONFLICT(user_id) DO UPDATE SET ingredients = excluded.ingredients`,
		userID, encoded,
	)
	if err != nil {
		return fmt.Errorf("sqlite: replacing shopping list for user %d: %w", userID, err)
	}

	return nil
}

// encodeIngredients serializes an ingredient array for the JSON text column.
// nil normalizes to "[]" so the column never stores JSON null.
func encodeIngredients(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding ingredients: %w", err)
	}
	return string(b), nil
}

func decodeIngredients(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("sqlite: decoding ingredients: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
