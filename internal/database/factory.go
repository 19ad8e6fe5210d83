package database

import (
	"fmt"
	"os"
	"path/filepath"

	"social-go/internal/config"
)

// LedgerFileName is the ledger database file inside data_dir.
const LedgerFileName = "ledger.db"

// NewLedgerFromConfig creates a migrated SQLiteLedger based on the database config type.
func NewLedgerFromConfig(cfg config.DatabaseConfig) (*SQLiteLedger, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		path = filepath.Join(cfg.DataDir, LedgerFileName)
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	ledger, err := NewSQLiteLedger(path)
	if err != nil {
		return nil, err
	}
	if err := ledger.MigrateUp(); err != nil {
		ledger.Close()
		return nil, fmt.Errorf("migrating ledger: %w", err)
	}
	return ledger, nil
}
