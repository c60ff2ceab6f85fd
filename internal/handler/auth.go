// Package handler contains the HTTP layer: request decoding, schema
// validation, service calls, and response rendering. Handlers know nothing
// about SQL, and services know nothing about HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/auth"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/schema"
	"github.com/tabrown76/Capstone2Backend/internal/service"
)

// maxBodyBytes caps request bodies; nothing this API accepts is large.
const maxBodyBytes = 1 << 20 // 1 MiB

// AuthHandler serves the public authentication endpoints: token issuance
// and the two registration flavours, plus the optional Google redirect flow.
type AuthHandler struct {
	users     *service.UserService
	tokens    *auth.TokenService
	google    *auth.GoogleProvider // nil when Google OAuth is not configured
	validator *schema.Validator
	logger    *slog.Logger
}

func NewAuthHandler(
	users *service.UserService,
	tokens *auth.TokenService,
	google *auth.GoogleProvider,
	validator *schema.Validator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		tokens:    tokens,
		google:    google,
		validator: validator,
		logger:    logger,
	}
}

// readBody drains the (size-capped) body for validate-then-unmarshal.
// Validation runs on the raw bytes so the schema sees exactly what the
// client sent, unexpected properties included.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.ValidationFailed("", "could not read request body")
	}
	return body, nil
}

// HandleToken issues a bearer token for valid credentials.
//
// HTTP: POST /auth/token
// Body: {username, password} or {googleId}
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.validator.Validate(schema.Token, body); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		GoogleID string `json:"googleId"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body is not valid JSON"))
		return
	}

	var user *model.User
	if req.GoogleID != "" {
		user, err = h.users.AuthenticateByGoogle(r.Context(), req.GoogleID)
	} else {
		user, err = h.users.AuthenticateByPassword(r.Context(), req.Username, req.Password)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// HandleRegister creates a local account and returns a token.
//
// HTTP: POST /auth/register → 201 {token}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.validator.Validate(schema.UserRegister, body); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body is not valid JSON"))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// HandleGoogleRegister creates a federated account and returns a token.
//
// HTTP: POST /auth/googleregister → 201 {token}
func (h *AuthHandler) HandleGoogleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.validator.Validate(schema.GoogleRegister, body); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		GoogleID  string `json:"googleId"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperror.ValidationFailed("", "request body is not valid JSON"))
		return
	}

	user, err := h.users.RegisterGoogle(r.Context(), service.GoogleRegisterInput{
		GoogleID:  req.GoogleID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// HandleGoogleLogin starts the browser OAuth flow by redirecting to Google.
//
// HTTP: GET /auth/google/login
//
// CSRF PROTECTION VIA STATE:
// A random state string goes into a short-lived cookie; the callback
// verifies Google echoed the same state. That proves the callback was
// initiated by this server, not a CSRF attacker.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the OAuth flow: verifies the CSRF state,
// exchanges the code for a Google profile, registers the account on first
// login, and answers with the same bearer token the JSON endpoints issue.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("google callback: state mismatch")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// The state cookie is single-use
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	gUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthorized("Google sign-in failed"))
		return
	}

	user, err := h.users.AuthenticateByGoogle(r.Context(), gUser.ID)
	if errors.Is(err, apperror.ErrUnauthorized) {
		// First login — register on the fly from the Google profile.
		user, err = h.users.RegisterGoogle(r.Context(), service.GoogleRegisterInput{
			GoogleID:  gUser.ID,
			FirstName: gUser.GivenName,
			LastName:  gUser.FamilyName,
			Email:     gUser.Email,
		})
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *model.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, status, map[string]string{"token": token})
}
