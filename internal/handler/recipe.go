package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/schema"
	"github.com/tabrown76/Capstone2Backend/internal/service"
)

// RecipeHandler serves the owner-only recipe endpoints plus the public
// image-URL reachability check.
type RecipeHandler struct {
	recipes   *service.RecipeService
	validator *schema.Validator
	logger    *slog.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, validator *schema.Validator, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		validator: validator,
		logger:    logger,
	}
}

// HandleList returns every recipe the owner has saved.
//
// HTTP: GET /recipes/{userID} → 200 {recipes: [...]}
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	recipes, err := h.recipes.ListForUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

// HandleGet returns one recipe by its external key.
//
// HTTP: GET /recipes/{userID}/{recipeID} → 200 {recipe}
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipes.Get(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

// HandleCreate stores a recipe (first reference wins) and associates it
// with the owner. Saving the same recipe twice returns the stored row.
//
// HTTP: POST /recipes/{userID}/{recipeID} → 200 {recipe}
// Body: {label, image?, ingredients?, url?} — the key comes from the path.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.validator.Validate(schema.RecipeNew, body); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Label       string   `json:"label"`
		Image       string   `json:"image"`
		Ingredients []string `json:"ingredients"`
		URL         string   `json:"url"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body is not valid JSON"))
		return
	}

	recipe, err := h.recipes.CreateForUser(r.Context(), id, &model.Recipe{
		ID:          chi.URLParam(r, "recipeID"),
		Label:       req.Label,
		Image:       req.Image,
		Ingredients: req.Ingredients,
		URL:         req.URL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

// HandleDelete removes the recipe from the owner's collection (association
// only — the recipe row survives for other users).
//
// HTTP: DELETE /recipes/{userID}/{recipeID} → 200 {deleted: recipeID}
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	recipeID := chi.URLParam(r, "recipeID")
	if err := h.recipes.RemoveFromUser(r.Context(), id, recipeID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": recipeID})
}

// HandleCheckURL probes whether a recipe image URL is still reachable.
//
// HTTP: GET /recipes/check-url?url=... (public)
// 200 {url, reachable: true} when the host answers; 500 {url, reachable:
// false} when it doesn't; 400 when the url parameter is missing.
func (h *RecipeHandler) HandleCheckURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, apperror.ValidationFailed("url", "url query parameter is required"))
		return
	}

	status := http.StatusOK
	reachable := h.recipes.CheckURL(r.Context(), url)
	if !reachable {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]any{"url": url, "reachable": reachable})
}
