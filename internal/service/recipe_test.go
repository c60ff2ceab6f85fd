package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/model"
)

// mockRecipeRepo keeps recipes and associations in memory. First write
// wins for a recipe id, matching the store's immutable-create behaviour.
type mockRecipeRepo struct {
	recipes map[string]*model.Recipe
	links   map[int64][]string // userID → recipe ids, association order
}

func newMockRecipeRepo() *mockRecipeRepo {
	return &mockRecipeRepo{
		recipes: make(map[string]*model.Recipe),
		links:   make(map[int64][]string),
	}
}

func (m *mockRecipeRepo) Create(_ context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if stored, ok := m.recipes[recipe.ID]; ok {
		result := *stored
		return &result, nil
	}
	stored := *recipe
	m.recipes[recipe.ID] = &stored
	result := stored
	return &result, nil
}

func (m *mockRecipeRepo) GetByID(_ context.Context, id string) (*model.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, apperror.NotFound("recipe", id)
	}
	result := *recipe
	return &result, nil
}

func (m *mockRecipeRepo) AddToUser(_ context.Context, userID int64, recipeID string) error {
	for _, id := range m.links[userID] {
		if id == recipeID {
			return nil
		}
	}
	m.links[userID] = append(m.links[userID], recipeID)
	return nil
}

func (m *mockRecipeRepo) RemoveFromUser(_ context.Context, userID int64, recipeID string) error {
	ids := m.links[userID]
	for i, id := range ids {
		if id == recipeID {
			m.links[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("recipe", recipeID)
}

func (m *mockRecipeRepo) ListForUser(_ context.Context, userID int64) ([]model.Recipe, error) {
	result := []model.Recipe{}
	for _, id := range m.links[userID] {
		result = append(result, *m.recipes[id])
	}
	return result, nil
}

func newTestRecipeService(t *testing.T) (*RecipeService, *mockRecipeRepo) {
	t.Helper()
	repo := newMockRecipeRepo()
	return NewRecipeService(repo, testLogger()), repo
}

// =========================================================================
// SAVE / LIST TESTS
// =========================================================================

func TestCreateForUser(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	stored, err := svc.CreateForUser(context.Background(), 1, &model.Recipe{
		ID:    "rec-1",
		Label: "Pancakes",
	})
	if err != nil {
		t.Fatalf("CreateForUser() error = %v", err)
	}
	if stored.ID != "rec-1" {
		t.Errorf("ID = %q, want %q", stored.ID, "rec-1")
	}

	list, err := svc.ListForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "rec-1" {
		t.Errorf("ListForUser() = %v, want the saved recipe", list)
	}
}

func TestCreateForUser_ResaveReturnsCanonicalRow(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	if _, err := svc.CreateForUser(context.Background(), 1, &model.Recipe{
		ID:    "rec-1",
		Label: "Original",
	}); err != nil {
		t.Fatalf("CreateForUser() error = %v", err)
	}

	// Re-saving the same recipe (even from another user, with drifted
	// data) keeps the first stored row.
	stored, err := svc.CreateForUser(context.Background(), 2, &model.Recipe{
		ID:    "rec-1",
		Label: "Drifted",
	})
	if err != nil {
		t.Fatalf("CreateForUser() error = %v", err)
	}
	if stored.Label != "Original" {
		t.Errorf("Label = %q, want the stored %q", stored.Label, "Original")
	}
}

func TestCreateForUser_MissingID(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	_, err := svc.CreateForUser(context.Background(), 1, &model.Recipe{Label: "No Key"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestRemoveFromUser_KeepsRecipeRow(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	if _, err := svc.CreateForUser(context.Background(), 1, &model.Recipe{ID: "rec-1"}); err != nil {
		t.Fatalf("CreateForUser() error = %v", err)
	}
	if _, err := svc.CreateForUser(context.Background(), 2, &model.Recipe{ID: "rec-1"}); err != nil {
		t.Fatalf("CreateForUser() error = %v", err)
	}

	if err := svc.RemoveFromUser(context.Background(), 1, "rec-1"); err != nil {
		t.Fatalf("RemoveFromUser() error = %v", err)
	}

	// User 2 still has it, and the row survives.
	list, _ := svc.ListForUser(context.Background(), 2)
	if len(list) != 1 {
		t.Errorf("other user's list = %d recipes, want 1", len(list))
	}
	if _, err := svc.Get(context.Background(), "rec-1"); err != nil {
		t.Errorf("Get() after removal error = %v", err)
	}

	if err := svc.RemoveFromUser(context.Background(), 1, "rec-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second RemoveFromUser() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// URL PROBE TESTS
// =========================================================================

func TestCheckURL(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name:    "host answers ok",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			want:    true,
		},
		{
			name: "host chokes on HEAD but serves GET",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			want: true,
		},
		{
			name:    "image gone",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			want:    false,
		},
		{
			name:    "host erroring",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			svc, _ := newTestRecipeService(t)
			if got := svc.CheckURL(context.Background(), srv.URL); got != tt.want {
				t.Errorf("CheckURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckURL_DeadHost(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	// A closed server — the dial itself fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if svc.CheckURL(context.Background(), url) {
		t.Error("CheckURL() = true for a dead host, want false")
	}
}
