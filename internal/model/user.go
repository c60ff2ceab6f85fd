// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// Two login methods share one table: local accounts carry a username and a
// bcrypt password hash, Google accounts carry the Google subject id. At
// least one of the two must be populated — the registration paths enforce
// this, the struct itself does not.
//
// WHY PasswordHash `json:"-"`?
// The hash must never appear in an API response. Tagging the field with "-"
// makes encoding/json skip it entirely, so no projection step can forget to
// strip it.
type User struct {
	ID           int64  `json:"userId"    db:"user_id"`
	Username     string `json:"username,omitempty" db:"username"`
	PasswordHash string `json:"-"         db:"password"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName"  db:"last_name"`
	Email        string `json:"email"     db:"email"`
	GoogleID     string `json:"googleId,omitempty" db:"google_id"`
}
