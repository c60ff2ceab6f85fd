package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/schema"
	"github.com/tabrown76/Capstone2Backend/internal/service"
)

// ShoppingHandler serves the owner-only shopping-list endpoints.
type ShoppingHandler struct {
	shopping  *service.ShoppingService
	validator *schema.Validator
	logger    *slog.Logger
}

func NewShoppingHandler(shopping *service.ShoppingService, validator *schema.Validator, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		shopping:  shopping,
		validator: validator,
		logger:    logger,
	}
}

// HandleGet returns the owner's list — empty array when nothing has been
// added yet, never a 404.
//
// HTTP: GET /shopping/{userID} → 200 {list: [...]}
// A non-numeric user id is a 400 by contract on this route.
func (h *ShoppingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.shopping.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"list": list})
}

// HandleMerge appends new ingredients with set-union semantics and returns
// the full resulting list.
//
// HTTP: POST /shopping/{userID} → 200 {list: [...]}
// Body: {ingredients: [...]}
func (h *ShoppingHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ingredients, err := h.readIngredients(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.shopping.MergeAppend(r.Context(), id, ingredients)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"list": list})
}

// HandleReplace overwrites the list verbatim. The service deliberately
// returns no contents; the handler re-fetches so the HTTP response still
// carries the new list.
//
// HTTP: PATCH /shopping/{userID} → 200 {list: [...]}
// Body: {ingredients: [...]}
func (h *ShoppingHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ingredients, err := h.readIngredients(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.shopping.Replace(r.Context(), id, ingredients); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.shopping.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"list": list})
}

func (h *ShoppingHandler) readIngredients(w http.ResponseWriter, r *http.Request) ([]string, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}

	if err := h.validator.Validate(schema.Ingredients, body); err != nil {
		return nil, err
	}

	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperror.ValidationFailed("", "request body is not valid JSON")
	}

	return req.Ingredients, nil
}
