package db_test

import (
	"path/filepath"
	"testing"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_FileCreatesDirectoryAndPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "bugtrail.db")
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	// Hold one connection so the next query needs a second one from the pool.
	conn, err := database.Conn(t.Context())
	require.NoError(t, err)
	defer conn.Close()

	var fk int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bugtrail.db")
	first, err := db.OpenDB(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO projects (id, key, name, created_at, updated_at) VALUES ('p', 'P', 'P', 'x', 'x')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	var n int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	assert.Equal(t, 1, n, "migrations must not reset existing data")
}
