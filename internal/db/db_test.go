package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSqliteDB_Memory_Defaults(t *testing.T) {
	database, err := NewSqliteDB()
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT);")
	require.NoError(t, err)
}

func TestNewSqliteDB_File_CreatesParent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "cache.db")

	database, err := NewSqliteDB(WithPath(dbPath))
	require.NoError(t, err)
	defer database.Close()

	assert.DirExists(t, filepath.Dir(dbPath))
	_, err = database.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY);")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestNewSqliteDB_BadPragma(t *testing.T) {
	_, err := NewSqliteDB(WithPragmas("THIS IS NOT SQL;"))
	require.Error(t, err)
}
