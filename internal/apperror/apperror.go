// Package apperror defines the application's error taxonomy.
//
// ERROR DESIGN:
// Every failure in the service layer is one of four kinds — validation
// (bad request), unauthorized, not found, or internal. Rather than an
// inheritance hierarchy, we use ONE concrete type (AppError) that wraps a
// sentinel error identifying the kind. Handlers use errors.Is() to map the
// kind to an HTTP status; the status code is a pure function of the kind.
//
// WHY SENTINELS + errors.Is()?
// errors.Is() walks the wrap chain, so a service can do
//
//	fmt.Errorf("registering user: %w", apperror.Duplicate("username", name))
//
// and the handler still recognises it as a validation failure.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type AppError struct {
	Err     error  // sentinel identifying the error kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Duplicate reports a uniqueness violation on registration (username or
// google id already taken). It wraps ErrValidation — the API contract maps
// duplicate registrations to 400, not 409.
func Duplicate(field, value string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("there is already a user with %s %q", field, value),
		Field:   field,
	}
}

// Unauthorized returns an AppError for missing/invalid credentials or an
// ownership mismatch. HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidCredentials is the single failure returned by both password and
// federated authentication. "User does not exist" and "wrong password"
// deliberately look identical so callers cannot enumerate usernames.
func InvalidCredentials() *AppError {
	return Unauthorized("invalid username/password")
}
