package db

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		mode    string
		want    []string
		without []string
	}{
		{ModeWrite, []string{"mode=rwc", "_journal_mode=WAL", "_txlock=immediate", "_foreign_keys=on"}, []string{"mode=ro"}},
		{ModeRead, []string{"mode=ro", "_busy_timeout=5000", "_foreign_keys=on"}, []string{"_journal_mode", "_txlock"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			dsn, err := buildDSN("/data/my meta.sqlite", tt.mode)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(dsn, "file:"+url.PathEscape("/data/my meta.sqlite")+"?"), dsn)
			for _, s := range tt.want {
				assert.Contains(t, dsn, s)
			}
			for _, s := range tt.without {
				assert.NotContains(t, dsn, s)
			}
		})
	}

	_, err := buildDSN("/data/meta.sqlite", "append")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpenSQLite_Write(t *testing.T) {
	conn, err := OpenSQLite(filepath.Join(t.TempDir(), "meta.sqlite"), ModeWrite, 8)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var journal string
	require.NoError(t, conn.QueryRow("PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", strings.ToLower(journal))

	var fk int
	require.NoError(t, conn.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	assert.Equal(t, 1, conn.Stats().MaxOpenConnections, "writers share one connection")
}

func TestOpenSQLite_ReadPoolSize(t *testing.T) {
	_, path := OpenTestStore(t)

	conn, err := OpenSQLite(path, ModeRead, 0)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	assert.Equal(t, readPoolSize, conn.Stats().MaxOpenConnections)

	_, err = conn.Exec(`CREATE TABLE scratch (id INTEGER)`)
	require.Error(t, err, "read mode is read-only")
}

func TestOpenSQLite_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenSQLite(filepath.Join(dir, "meta.sqlite"), "invalid", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")

	_, err = OpenSQLite(filepath.Join(dir, "no", "such", "dir", "meta.sqlite"), ModeWrite, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping sqlite")

	missing := filepath.Join(dir, "missing.sqlite")
	_, err = OpenSQLite(missing, ModeRead, 0)
	require.Error(t, err)
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr), "read mode never creates the file")
}

func TestOpenStore_Migrates(t *testing.T) {
	conn, path := OpenTestStore(t)

	for _, table := range storeTables {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	v, err := SchemaVersion(t.Context(), conn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Reopening runs no further migrations.
	again, err := OpenStore(path, ModeWrite)
	require.NoError(t, err)
	t.Cleanup(func() { again.Close() })
	v, err = SchemaVersion(t.Context(), again)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpenStore_Read(t *testing.T) {
	_, path := OpenTestStore(t)

	conn, err := OpenStore(path, ModeRead)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var n int
	require.NoError(t, conn.QueryRow(`SELECT count(*) FROM sqlgen_tables`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpenStore_ReadRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.sqlite")
	conn, err := OpenSQLite(path, ModeWrite, 0)
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE sqlgen_tables (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = OpenStore(path, ModeRead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a sqlgen metadata store: table sqlgen_columns is missing")
}
