package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/schema"
	"github.com/tabrown76/Capstone2Backend/internal/service"
)

// UserHandler serves the owner-only profile endpoints.
// The RequireOwner middleware runs before every method here, so the path
// user id is already known to equal the authenticated subject.
type UserHandler struct {
	users     *service.UserService
	validator *schema.Validator
	logger    *slog.Logger
}

func NewUserHandler(users *service.UserService, validator *schema.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		validator: validator,
		logger:    logger,
	}
}

// pathUserID parses the {userID} path parameter.
//
// The ownership middleware compares the RAW segment, so by the time a
// request reaches a handler the segment string-equals the token's decimal
// user_id and this parse cannot fail in practice. The error branch guards
// the invariant anyway.
func pathUserID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("userId", "user id must be numeric")
	}
	return id, nil
}

// HandleGet returns the owner's profile.
//
// HTTP: GET /users/{userID} → 200 {user}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandlePatch applies a sparse profile update.
//
// HTTP: PATCH /users/{userID} → 200 {user}
// Body: any non-empty subset of {firstName, lastName, password, email}
func (h *UserHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
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

	if err := h.validator.Validate(schema.UserUpdate, body); err != nil {
		writeError(w, err)
		return
	}

	// Pointer fields distinguish "absent" from "set to empty" — a PATCH
	// must only touch the fields the client actually sent.
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body is not valid JSON"))
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleDelete removes the owner's account.
//
// HTTP: DELETE /users/{userID} → 200 {deleted: userID}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
