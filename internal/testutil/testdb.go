// Package testutil provides databases and fixtures for package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a migrated in-memory database closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, db.MemoryPath)
}

// NewTestFileDB returns a migrated database in a temporary directory. Unlike
// NewTestDB its pool may hold several connections.
func NewTestFileDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "nested", "bugtrail.db"))
}

func open(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
