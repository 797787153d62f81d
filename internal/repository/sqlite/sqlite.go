// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — the whole store is a single file managed
// by the Go binary itself. No separate database server to install, configure,
// or manage. For a single-server app like this one (and for tests, which use
// ":memory:") it removes a whole category of operational work.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler at build time and
// painful cross-compilation. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// SCHEMA AT STARTUP:
// New() runs the full migration before returning, so by the time the server
// accepts its first request every table exists. Migrations are idempotent
// (CREATE TABLE IF NOT EXISTS), making restarts and fresh installs the same
// code path. There is no lazy "init on first query" mode — a half-initialized
// schema is strictly worse than failing fast at boot.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	// Importing the driver registers it with database/sql under the name
	// "sqlite" (its init() calls sql.Register). We also use the package
	// directly for its Error type — see isUniqueViolation below.
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
// One struct implements all of them — the interfaces exist to narrow what
// each service can see, not to force separate storage objects.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/gameshelf.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests; lost on close)
//
// sql.Open does not actually connect — it only builds a pool manager. The
// Ping forces a real connection so a bad path or permissions problem fails
// here, at startup, instead of on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) lets reads proceed while a write is in
	// flight. The default journal mode locks the whole file per write, which
	// stalls a web server under even light concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (historical compatibility).
	// This app leans on them hard: deleting a user or a list must cascade to
	// its dependents, and that only happens with enforcement switched on.
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

// Close closes the database connection pool. Callers should defer this right
// after New() so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables and indexes. Safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			handle        TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS lists (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating lists table: %w", err)
	}

	// UNIQUE(list_id, game_id) is what makes AddItem's INSERT OR IGNORE an
	// idempotent operation rather than a duplicate-row generator.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS list_items (
			id         TEXT PRIMARY KEY,
			list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			game_id    TEXT NOT NULL,
			game_name  TEXT NOT NULL,
			game_cover TEXT NOT NULL DEFAULT '',
			added_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(list_id, game_id)
		);
		CREATE INDEX IF NOT EXISTS idx_list_items_list_id ON list_items(list_id);
	`)
	if err != nil {
		return fmt.Errorf("creating list_items table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS reviews (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_id    TEXT NOT NULL,
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			body       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_game_id ON reviews(game_id);
	`)
	if err != nil {
		return fmt.Errorf("creating reviews table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE (or primary key)
// constraint failure.
//
// The driver returns *sqlite.Error carrying SQLite's extended result code.
// 2067 = SQLITE_CONSTRAINT_UNIQUE, 1555 = SQLITE_CONSTRAINT_PRIMARYKEY —
// we use the named constants from modernc.org/sqlite/lib rather than magic
// numbers. errors.As walks wrapped chains, so callers can pass errors that
// have already been annotated with fmt.Errorf("...: %w", err).
func isUniqueViolation(err error) bool {
	var se *sqlitedriver.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
