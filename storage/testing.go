package storage

import (
	"database/sql"
	"fmt"

	"github.com/corpweb/sitedesk/storage/db"
	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB() (*sql.DB, *db.Queries, func(), error) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}
	// each connection to :memory: is its own database
	database.SetMaxOpenConns(1)

	if err := migrate(database); err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		database.Close()
	}
	return database, db.New(database), cleanup, nil
}

// WithTransaction executes a function within a transaction and rolls it back
// Useful for tests that need to ensure no side effects
func WithTransaction(database *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	return fn(tx)
}

// NewTestStorage wraps a fresh in-memory database in a Storage.
func NewTestStorage() (*Storage, error) {
	database, queries, _, err := NewTestDB()
	if err != nil {
		return nil, err
	}
	return &Storage{db: database, Queries: queries}, nil
}
