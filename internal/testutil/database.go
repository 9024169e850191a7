package testutil

import (
	"testing"

	"sft-go/internal/database"
	"sft-go/internal/sft"
)

// NewTestRegistry creates a new in-memory SQLite registry with schema applied.
// The database is automatically closed when the test completes.
func NewTestRegistry(t *testing.T) sft.Registry {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewRegistryDatabaseFromDB(sqlDB)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
