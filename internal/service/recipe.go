package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// checkURLTimeout bounds the outbound reachability probe so a dead host
// can't hold a request open indefinitely.
const checkURLTimeout = 10 * time.Second

// RecipeService orchestrates recipe creation, user↔recipe associations,
// and the image-URL reachability probe.
type RecipeService struct {
	recipes repository.RecipeRepository
	client  *http.Client
	logger  *slog.Logger
}

func NewRecipeService(recipes repository.RecipeRepository, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		client:  &http.Client{Timeout: checkURLTimeout},
		logger:  logger,
	}
}

// CreateForUser stores the recipe (first reference wins — recipes are
// immutable) and associates it with the user. Both halves are idempotent,
// so re-saving an already-saved recipe returns the canonical stored row.
func (s *RecipeService) CreateForUser(ctx context.Context, userID int64, recipe *model.Recipe) (*model.Recipe, error) {
	if recipe.ID == "" {
		return nil, apperror.ValidationFailed("recipeId", "recipe id is required")
	}

	stored, err := s.recipes.Create(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("service/recipe: creating %q: %w", recipe.ID, err)
	}

	if err := s.recipes.AddToUser(ctx, userID, stored.ID); err != nil {
		return nil, fmt.Errorf("service/recipe: associating %q with user %d: %w", stored.ID, userID, err)
	}

	s.logger.Info("recipe saved",
		slog.String("recipeID", stored.ID),
		slog.Int64("userID", userID),
	)

	return stored, nil
}

// Get returns a single recipe by its external key.
func (s *RecipeService) Get(ctx context.Context, recipeID string) (*model.Recipe, error) {
	return s.recipes.GetByID(ctx, recipeID)
}

// ListForUser returns all recipes the user has saved.
func (s *RecipeService) ListForUser(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.recipes.ListForUser(ctx, userID)
}

// RemoveFromUser drops the association only — the recipe row stays for
// other users who saved it.
func (s *RecipeService) RemoveFromUser(ctx context.Context, userID int64, recipeID string) error {
	if err := s.recipes.RemoveFromUser(ctx, userID, recipeID); err != nil {
		return err
	}

	s.logger.Info("recipe removed",
		slog.String("recipeID", recipeID),
		slog.Int64("userID", userID),
	)

	return nil
}

// CheckURL probes whether a recipe image URL is still reachable.
//
// HEAD first (cheap, no body); some image hosts reject HEAD, so any
// non-2xx/3xx answer falls back to a GET whose body we discard. Reachable
// means "the host answered with a non-server-error status".
func (s *RecipeService) CheckURL(ctx context.Context, url string) bool {
	reachable := s.probe(ctx, http.MethodHead, url)
	if !reachable {
		reachable = s.probe(ctx, http.MethodGet, url)
	}

	if !reachable {
		s.logger.Warn("recipe url unreachable", slog.String("url", url))
	}

	return reachable
}

func (s *RecipeService) probe(ctx context.Context, method, url string) bool {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusNotFound
}
