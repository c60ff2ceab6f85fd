// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept repository INTERFACES, not *sqlite.DB — tests inject
// in-memory mocks, and the HTTP layer never touches SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/auth"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// UserService is the user directory: registration, authentication, profile
// reads, partial updates, and removal.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the fields of a local (password) registration.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// GoogleRegisterInput carries the fields of a federated registration.
type GoogleRegisterInput struct {
	GoogleID  string
	FirstName string
	LastName  string
	Email     string
}

// UserPatch is a sparse profile update — nil pointers mean "unchanged".
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// AuthenticateByPassword verifies a username/password pair and returns the
// profile on success.
//
// ANTI-ENUMERATION:
// "username not found" and "wrong password" both return the SAME
// InvalidCredentials error. If the two were distinguishable, an attacker
// could probe which usernames exist.
func (s *UserService) AuthenticateByPassword(ctx context.Context, username, plaintext string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/user: looking up %q: %w", username, err)
	}

	if user.PasswordHash == "" {
		// Google-only account — it has no password to check.
		return nil, apperror.InvalidCredentials()
	}

	if err := s.passwords.Verify(user.PasswordHash, plaintext); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateByGoogle resolves a federated Google id to a profile.
//
// No secondary factor is checked here — verifying that the caller really
// controls the Google account is the upstream OAuth collaborator's job.
func (s *UserService) AuthenticateByGoogle(ctx context.Context, googleID string) (*model.User, error) {
	user, err := s.users.GetByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/user: looking up google id %q: %w", googleID, err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Register creates a local account: duplicate-username check, bcrypt hash,
// insert. The returned profile never contains the hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperror.Duplicate("username", in.Username)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/user: checking username %q: %w", in.Username, err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password for %q: %w", in.Username, err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: registering %q: %w", in.Username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	user.PasswordHash = ""
	return user, nil
}

// RegisterGoogle creates a federated account with no password.
func (s *UserService) RegisterGoogle(ctx context.Context, in GoogleRegisterInput) (*model.User, error) {
	if _, err := s.users.GetByGoogleID(ctx, in.GoogleID); err == nil {
		return nil, apperror.Duplicate("google id", in.GoogleID)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/user: checking google id %q: %w", in.GoogleID, err)
	}

	user := &model.User{
		GoogleID:  in.GoogleID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: registering google id %q: %w", in.GoogleID, err)
	}

	s.logger.Info("user registered via Google", slog.Int64("userID", user.ID))

	return user, nil
}

// Get returns the profile for the given id, hash stripped.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Update applies a sparse profile update.
//
// A new plaintext password is hashed BEFORE it reaches the store; the
// repository's clause builder then remaps firstName/lastName to their
// storage columns while email and password pass through as-is.
//
// NO FIELD POLICY:
// This method changes whatever fields it is given, password included. The
// callers own authorization (RequireOwner) and payload validation (schema);
// by the time execution reaches here both have already happened.
func (s *UserService) Update(ctx context.Context, id int64, patch UserPatch) (*model.User, error) {
	fields := make([]repository.UpdateField, 0, 4)
	if patch.FirstName != nil {
		fields = append(fields, repository.UpdateField{Name: "firstName", Value: *patch.FirstName})
	}
	if patch.LastName != nil {
		fields = append(fields, repository.UpdateField{Name: "lastName", Value: *patch.LastName})
	}
	if patch.Email != nil {
		fields = append(fields, repository.UpdateField{Name: "email", Value: *patch.Email})
	}
	if patch.Password != nil {
		hash, err := s.passwords.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("service/user: hashing new password for %d: %w", id, err)
		}
		fields = append(fields, repository.UpdateField{Name: "password", Value: hash})
	}

	if len(fields) == 0 {
		return nil, apperror.ValidationFailed("", "update requires at least one field")
	}

	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.Int64("userID", id), slog.Int("fields", len(fields)))

	user.PasswordHash = ""
	return user, nil
}

// Remove deletes the user; associations and the shopping list cascade away
// with the row.
func (s *UserService) Remove(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user removed", slog.String("userID", strconv.FormatInt(id, 10)))
	return nil
}
