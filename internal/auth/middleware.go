package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key like
// "claims", ANY package that knows the string can read or shadow the value.
// A package-private type prevents collisions: only this package can create
// a key of type contextKey, so only this package can store claims.
type contextKey string

const claimsKey contextKey = "claims"

// Verify is the credential-verifier middleware. It reads the standard
// bearer transport (`Authorization: Bearer <token>`), validates the token,
// and stores the claims in the request context.
//
// TOLERANT BY DESIGN:
// A missing header, a malformed header, or a token that fails validation
// all leave the request anonymous and let it CONTINUE — this stage never
// rejects anything. Public routes (registration, login) flow through the
// same pipeline; only the Require* middlewares below turn "anonymous" into
// a 401.
func Verify(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if claims, err := tokens.Validate(raw); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
				}
			}
			// Always continue — no 401 even with a bad token
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth enforces that the request carries a valid identity.
// Anonymous requests get 401 and the chain stops.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClaimsFromContext(r.Context()); !ok {
				writeUnauthorized(w, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner enforces the single authorization policy of this API:
// the authenticated identity must BE the user addressed by the path.
//
// param names the chi URL parameter holding the resource owner's id
// (e.g. "userID" for /users/{userID}).
//
// STRING COMPARISON, NOT NUMERIC:
// The claims subject is the decimal rendering of the token's user_id; the
// path segment is compared verbatim. A token for user 0 does NOT own
// /users/NaN — "0" != "NaN". There are no roles or scopes beyond this.
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}
			if claims.SubjectID() != chi.URLParam(r, param) {
				writeUnauthorized(w, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves the authenticated claims from the request
// context. Returns (nil, false) for anonymous requests.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// SubjectFromContext is a convenience wrapper returning just the subject id.
func SubjectFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.SubjectID(), true
}

// bearerToken extracts the token from the Authorization header.
// Returns "" when the header is absent or not of the form "Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// writeUnauthorized renders the application's uniform error envelope.
// The handler package has richer helpers, but importing it here would be a
// cycle (handlers depend on this package for ClaimsFromContext).
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":{"message":%q,"status":%d}}`, message, http.StatusUnauthorized)
}
