package database

import (
	"os"
	"path/filepath"
	"testing"

	"social-go/internal/config"
)

func TestNewLedgerFromConfig(t *testing.T) {
	t.Run("memory database", func(t *testing.T) {
		cfg := config.DatabaseConfig{Type: "memory"}
		got, err := NewLedgerFromConfig(cfg)

		if err != nil {
			t.Fatalf("NewLedgerFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if err := got.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})

	t.Run("sqlite database", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "db")
		cfg := config.DatabaseConfig{
			Type:    "sqlite",
			DataDir: dir,
		}
		got, err := NewLedgerFromConfig(cfg)

		if err != nil {
			t.Fatalf("NewLedgerFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if got.Path() != filepath.Join(dir, LedgerFileName) {
			t.Errorf("Path() = %q, want %q", got.Path(), filepath.Join(dir, LedgerFileName))
		}
		if _, err := os.Stat(got.Path()); err != nil {
			t.Errorf("ledger file not created: %v", err)
		}
	})

	t.Run("sqlite database without data_dir", func(t *testing.T) {
		cfg := config.DatabaseConfig{Type: "sqlite"}
		got, err := NewLedgerFromConfig(cfg)

		if err == nil {
			t.Error("NewLedgerFromConfig() expected error for missing data_dir, got nil")
		}

		if got != nil {
			t.Error("NewLedgerFromConfig() should return nil on error")
			got.Close()
		}
	})

	t.Run("unknown database type", func(t *testing.T) {
		cfg := config.DatabaseConfig{Type: "unknown"}
		got, err := NewLedgerFromConfig(cfg)

		if err == nil {
			t.Error("NewLedgerFromConfig() expected error for unknown type, got nil")
		}

		if got != nil {
			t.Error("NewLedgerFromConfig() should return nil on error")
			got.Close()
		}
	})
}
