// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a
// single file. No separate database server to install, configure, or
// manage. Use ":memory:" for tests.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// Side-effect only — the package's init() registers itself with
	// database/sql as a driver named "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity stores.
//
// sql.DB is a POOL, not a single connection: each request-handling
// goroutine acquires a connection for the duration of its statement and
// releases it back. No in-process locking is needed on top.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection pool and runs migrations.
//
// dbPath examples:
//   - "data/capstone.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON: deleting
	// a user must cascade to recipes_users and shopping_lists.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user store backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Recipes returns the recipe/association store backed by this database.
func (db *DB) Recipes() *RecipeDB {
	return &RecipeDB{conn: db.conn}
}

// ShoppingLists returns the shopping-list store backed by this database.
func (db *DB) ShoppingLists() *ShoppingListDB {
	return &ShoppingListDB{conn: db.conn}
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// running it on every startup is safe.
//
// SCHEMA NOTES:
//   - users.email CHECK mirrors "an @ somewhere past the first character"
//   - SQLite has no array type; ingredient arrays are stored as JSON text
//   - shopping_lists.user_id is UNIQUE — exactly one list per user, which
//     is what lets the merge use an ON CONFLICT upsert
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			username   TEXT UNIQUE,
			password   TEXT,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL CHECK (instr(email, '@') > 1),
			google_id  TEXT UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recipes (
			recipe_id   TEXT PRIMARY KEY,
			label       TEXT NOT NULL DEFAULT '',
			image       TEXT NOT NULL DEFAULT '',
			ingredients TEXT NOT NULL DEFAULT '[]',
			url         TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating recipes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recipes_users (
			user_id   INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			recipe_id TEXT    NOT NULL REFERENCES recipes(recipe_id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_recipes_users_user_id ON recipes_users(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating recipes_users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS shopping_lists (
			list_id     INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL UNIQUE REFERENCES users(user_id) ON DELETE CASCADE,
			ingredients TEXT NOT NULL DEFAULT '[]'
		);
	`)
	if err != nil {
		return fmt.Errorf("creating shopping_lists table: %w", err)
	}

	return nil
}
