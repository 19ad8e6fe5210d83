package testutil

import (
	"testing"

	"social-go/internal/database"
)

// NewTestLedger creates a migrated in-memory ledger.
// The ledger is automatically closed when the test completes.
func NewTestLedger(t *testing.T) *database.SQLiteLedger {
	t.Helper()

	l, err := database.NewSQLiteLedger(":memory:")
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}
	if err := l.MigrateUp(); err != nil {
		l.Close()
		t.Fatalf("failed to migrate ledger: %v", err)
	}

	t.Cleanup(func() {
		l.Close()
	})

	return l
}
