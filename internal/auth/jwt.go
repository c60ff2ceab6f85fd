// Package auth provides JWT token generation and validation plus the
// request middlewares that enforce the ownership policy.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client registers or logs in (password or Google id)
// 2. Server issues a signed JWT carrying {firstName, user_id} and an
//    issued-at timestamp
// 3. Client sends `Authorization: Bearer <token>` on every request
// 4. The Verify middleware decodes the token (tolerantly — see middleware.go)
//    and the RequireOwner middleware compares the token's user_id against
//    the user id in the request path
//
// WHY JWT?
// JWT is stateless — the server stores no session data. Everything needed
// (user id, first name, issue time) is inside the signed token, and the
// HMAC signature ensures nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tabrown76/Capstone2Backend/internal/model"
)

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — keep it safe and rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the JWT payload: the user's first name (for display) and the
// numeric user id (the identity the ownership check compares against).
// jwt.RegisteredClaims contributes the "iat" issued-at field.
//
// Tokens carry no expiry — the wire contract is {firstName, user_id, iat}.
type Claims struct {
	FirstName string `json:"firstName"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// SubjectID renders the numeric user id as a decimal string. Ownership is a
// pure string comparison against the raw path segment, so the only path
// value that can ever match is this exact decimal form.
// (Named SubjectID to avoid clashing with RegisteredClaims.Subject.)
func (c *Claims) SubjectID() string {
	return strconv.FormatInt(c.UserID, 10)
}

// Generate creates and signs a JWT for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
func (s *TokenService) Generate(user *model.User) (string, error) {
	c := Claims{
		FirstName: user.FirstName,
		UserID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// VALIDATION CHECKS:
//   - Signature is valid (wasn't tampered with)
//   - Algorithm is HS256 (prevents algorithm confusion attacks — without
//     jwt.WithValidMethods an attacker could present an "alg":"none" token)
//   - The token actually names a user (user_id > 0)
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.UserID <= 0 {
		return nil, fmt.Errorf("auth: token has no user id")
	}

	return c, nil
}
