package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// ShoppingService owns the shopping-list policy: get-or-empty reads,
// merge-append with set semantics, and full replacement.
//
// It also holds the user repository — merge-append must distinguish "user
// has no list yet" (fine, create one) from "user does not exist" (reject).
type ShoppingService struct {
	lists  repository.ShoppingListRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewShoppingService(lists repository.ShoppingListRepository, users repository.UserRepository, logger *slog.Logger) *ShoppingService {
	return &ShoppingService{
		lists:  lists,
		users:  users,
		logger: logger,
	}
}

// Get returns the user's ingredient list — empty for a user who has added
// nothing, never a not-found error.
func (s *ShoppingService) Get(ctx context.Context, userID int64) ([]string, error) {
	return s.lists.Get(ctx, userID)
}

// MergeAppend adds the given ingredients with set-union semantics and
// returns the resulting full list.
//
// The user must exist; a missing user is a bad request (the id came from a
// validated, owner-checked path, so in practice this only fires for a user
// deleted mid-session).
func (s *ShoppingService) MergeAppend(ctx context.Context, userID int64, ingredients []string) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.lists.MergeAppend(ctx, userID, ingredients)
	if err != nil {
		return nil, fmt.Errorf("service/shopping: merging list for user %d: %w", userID, err)
	}

	s.logger.Info("shopping list merged",
		slog.Int64("userID", userID),
		slog.Int("added", len(ingredients)),
		slog.Int("total", len(list)),
	)

	return list, nil
}

// Replace overwrites the user's list with exactly the given sequence.
//
// Unlike MergeAppend it does NOT return the new list — the stored contents
// are exactly what the caller sent, so callers that want them re-fetch.
func (s *ShoppingService) Replace(ctx context.Context, userID int64, ingredients []string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	if err := s.lists.Replace(ctx, userID, ingredients); err != nil {
		return fmt.Errorf("service/shopping: replacing list for user %d: %w", userID, err)
	}

	s.logger.Info("shopping list replaced",
		slog.Int64("userID", userID),
		slog.Int("total", len(ingredients)),
	)

	return nil
}

func (s *ShoppingService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("userId",
				"no user with id "+strconv.FormatInt(userID, 10))
		}
		return fmt.Errorf("service/shopping: checking user %d: %w", userID, err)
	}
	return nil
}
