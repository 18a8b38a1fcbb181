// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - A single-server map app with two small tables
// - Development and testing (use ":memory:" for an in-memory DB)
// - Sharing the same database file with the adminctl CLI, no daemon needed
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface for SQL databases.
// It works with any database through "drivers" (SQLite, Postgres, MySQL, etc.).
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// The sqlite package's init() function registers itself with database/sql as a
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// schema is the full database schema, embedded at compile time.
//
// go:embed BAKES THE FILE INTO THE BINARY:
// The schema travels with the executable, so a deployment can never lose it.
// Every statement uses CREATE TABLE IF NOT EXISTS, so applying it to an
// already-initialised database is a no-op.
//
//go:embed schema.sql
var schema string

// DB wraps a sql.DB connection pool and owns the database lifecycle.
//
// WHY WRAP sql.DB IN A STRUCT?
// 1. We control the lifecycle (New creates it, Close destroys it)
// 2. We can add more fields later (logger, config, prepared statements)
// 3. It hands out the per-table repositories via Pins() and Users()
//
// The repositories themselves live on separate types. Go has no method
// overloading, so two Create methods cannot share one receiver — PinRepo
// and UserRepo each carry their own method set over the shared pool.
//
// Both the web server and the adminctl CLI open the SAME database file through
// this type — they coordinate purely via SQLite's own file locking.
type DB struct {
	conn *sql.DB
}

// Pins returns the pin repository backed by this database.
func (db *DB) Pins() *PinRepo {
	return &PinRepo{conn: db.conn}
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo {
	return &UserRepo{conn: db.conn}
}

// New creates a new SQLite database connection and applies the schema.
//
// dbPath examples:
//   - "data/pinboard.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	// Open a connection pool to the SQLite database.
	// "sqlite" is the driver name registered by the blank import above.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query — which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes.
	// WAL mode allows concurrent reads WHILE a write is happening, which matters
	// because the public /api/pins endpoint reads while admins insert.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (for backwards compatibility).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	// Apply the embedded schema (idempotent — see schema.sql).
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: applying schema: %w", err)
	}

	return db, nil
}

// Open connects to an EXISTING database file without applying the schema.
//
// The adminctl CLI uses this: it must not silently create an empty database
// in the wrong place when given a bad path. The server (which owns first-run
// initialisation) uses New instead.
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection pool.
//
// ALWAYS DEFER CLOSE:
// Wherever you call New(), immediately defer Close(). This ensures the
// connection is cleaned up (WAL flushed, file lock released) even if a
// panic occurs.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate applies the embedded schema.
//
// MIGRATIONS IN PRODUCTION:
// For a two-table app, an embedded CREATE TABLE IF NOT EXISTS script is fine.
// If the schema ever needs versioned changes, reach for golang-migrate which
// tracks which migrations have run.
func (db *DB) migrate() error {
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}
