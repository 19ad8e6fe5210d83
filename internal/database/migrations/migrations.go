// Package migrations embeds the SQL schemas of the ledger and token databases
// and applies them with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*/*.sql
var migrationFiles embed.FS

// Set names one group of migrations. Each set lives in its own database file.
type Set string

const (
	// Ledger holds posts, reactions, comments, tips, payouts and events.
	Ledger Set = "ledger"
	// Token holds balances for the local token and wallet backends.
	Token Set = "token"
)

func (s Set) dir() string { return "files/" + string(s) }

// Schema states Check reports. Wrapped errors carry the versions involved.
var (
	ErrUnversioned = errors.New("schema never migrated")
	ErrDirty       = errors.New("schema left dirty by an interrupted migration")
	ErrBehind      = errors.New("schema older than this build")
	ErrAhead       = errors.New("schema newer than this build")
)

// Check compares the database's schema version with the newest migration of
// set. It returns nil only when they match.
func Check(db *sql.DB, set Set) error {
	m, err := open(db, set)
	if err != nil {
		return err
	}
	// Closing m would close db, which belongs to the caller.

	have, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return fmt.Errorf("%s database: %w", set, ErrUnversioned)
	case err != nil:
		return fmt.Errorf("reading %s schema version: %w", set, err)
	case dirty:
		return fmt.Errorf("%s database at version %d: %w", set, have, ErrDirty)
	}

	want, err := Latest(set)
	if err != nil {
		return err
	}
	switch {
	case have < want:
		return fmt.Errorf("%s database at version %d, build expects %d: %w", set, have, want, ErrBehind)
	case have > want:
		return fmt.Errorf("%s database at version %d, build expects %d: %w", set, have, want, ErrAhead)
	}
	return nil
}

// Up applies every pending migration of set. An up-to-date database is not
// an error.
func Up(db *sql.DB, set Set) error {
	m, err := open(db, set)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating %s schema: %w", set, err)
	}
	return nil
}

// Latest returns the newest migration version embedded for set.
func Latest(set Set) (uint, error) {
	src, err := iofs.New(migrationFiles, set.dir())
	if err != nil {
		return 0, fmt.Errorf("loading %s migrations: %w", set, err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("loading %s migrations: %w", set, err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("walking %s migrations after %d: %w", set, v, err)
		}
		v = next
	}
}

func open(db *sql.DB, set Set) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, set.dir())
	if err != nil {
		return nil, fmt.Errorf("loading %s migrations: %w", set, err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("attaching %s database: %w", set, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing %s migrations: %w", set, err)
	}
	return m, nil
}
