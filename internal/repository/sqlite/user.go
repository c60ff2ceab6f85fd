package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
	"github.com/tabrown76/Capstone2Backend/internal/model"
	"github.com/tabrown76/Capstone2Backend/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the user store. Obtain one via DB.Users().
type UserDB struct {
	conn *sql.DB
}

// userColumns remaps the camelCase logical field names of the API surface
// to their snake_case storage columns. Fields not listed here (email,
// password, username) already match their column name.
var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
}

const userSelect = `SELECT user_id, username, password, first_name, last_name, email, google_id
	 FROM users`

// Create inserts a new user row and sets user.ID to the assigned key.
//
// Username and GoogleID are written as NULL when empty so the UNIQUE
// constraints don't collide on the empty string — many Google accounts have
// no username, and many local accounts have no google_id.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	res, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, google_id)
		 VALUES (?1, ?2, ?3, ?4, ?5, ?6)`,
		nullIfEmpty(user.Username),
		nullIfEmpty(user.PasswordHash),
		user.FirstName,
		user.LastName,
		user.Email,
		nullIfEmpty(user.GoogleID),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (username=%q): %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by the surrogate key.
// Returns apperror.ErrNotFound if no row exists.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.getOne(ctx, userSelect+` WHERE user_id = ?1`, id)
}

// GetByUsername retrieves a user by username, hash included.
// Exists for the authentication path — callers must not serialize the result
// without going through model.User's json tags (which omit the hash).
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.getOne(ctx, userSelect+` WHERE username = ?1`, username)
}

// GetByGoogleID retrieves a user by their federated Google subject id.
func (u *UserDB) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return u.getOne(ctx, userSelect+` WHERE google_id = ?1`, googleID)
}

func (u *UserDB) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		user     model.User
		username sql.NullString
		password sql.NullString
		googleID sql.NullString
	)

	err := u.conn.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&username,
		&password,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&googleID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	user.Username = username.String
	user.PasswordHash = password.String
	user.GoogleID = googleID.String

	return &user, nil
}

// Update applies a sparse partial update built by buildSetClause and
// returns the resulting row.
//
// NO FIELD-LEVEL POLICY HERE:
// This method will happily set a new password hash if asked — deciding
// WHICH fields a caller may change is entirely the responsibility of the
// layers above (authorization gate + schema validation).
func (u *UserDB) Update(ctx context.Context, id int64, fields []repository.UpdateField) (*model.User, error) {
	fragments, values, err := buildSetClause(fields, userColumns)
	if err != nil {
		return nil, fmt.Errorf("sqlite: building update for user %d: %w", id, err)
	}

	// The WHERE parameter continues the 1-based numbering after the SET values.
	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = ?%d`,
		strings.Join(fragments, ", "), len(values)+1)
	values = append(values, id)

	res, err := u.conn.ExecContext(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading update result for user %d: %w", id, err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("user", strconv.FormatInt(id, 10))
	}

	return u.GetByID(ctx, id)
}

// Delete removes a user row. Foreign keys cascade the deletion to
// recipes_users and shopping_lists.
// Returns apperror.ErrNotFound if no row was deleted.
func (u *UserDB) Delete(ctx context.Context, id int64) error {
	res, err := u.conn.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?1`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading delete result for user %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", strconv.FormatInt(id, 10))
	}

	return nil
}

// nullIfEmpty maps "" to NULL so UNIQUE columns ignore absent values.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
