package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"social-go/internal/database/migrations"
	"social-go/internal/social"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLedger implements the social.Ledger interface using SQLite.
// Each Update is one SQLite transaction, so a failing operation leaves no
// trace in any table.
type SQLiteLedger struct {
	db   *sql.DB
	path string
}

// NewSQLiteLedger opens a ledger database.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteLedger{
		db:   db,
		path: path,
	}, nil
}

// NewSQLiteLedgerFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteLedgerFromDB(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// OpenConnection opens and configures a SQLite database connection.
// Foreign keys are enabled on every pooled connection through the DSN, and
// write transactions take the database lock at BEGIN so that two processes
// sharing a file never interleave. An in-memory database is private to its
// connection, so the pool is capped at one.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Update runs fn inside a write transaction and commits when fn returns nil.
func (s *SQLiteLedger) Update(ctx context.Context, fn func(tx social.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&ledgerTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// View runs fn inside a transaction that is always rolled back.
func (s *SQLiteLedger) View(ctx context.Context, fn func(tx social.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&ledgerTx{q: tx})
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteLedger) Path() string {
	return s.path
}

// MigrateUp applies pending ledger migrations.
func (s *SQLiteLedger) MigrateUp() error {
	return migrations.Up(s.db, migrations.Ledger)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteLedger) CheckMigrations() error {
	return migrations.Check(s.db, migrations.Ledger)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteLedger) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteLedger) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteLedger implements social.Ledger interface
var _ social.Ledger = (*SQLiteLedger)(nil)
