package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createDuckDB writes a DuckDB file with the given DDL and returns its path.
func createDuckDB(t *testing.T, name string, ddl ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	conn, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	for _, stmt := range ddl {
		_, err := conn.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, conn.Close())
	return path
}

func TestOpenDuckDB(t *testing.T) {
	path := createDuckDB(t, "lake.duckdb",
		`CREATE TABLE users (id INTEGER NOT NULL PRIMARY KEY, name VARCHAR NOT NULL, email VARCHAR)`,
		`CREATE SCHEMA sales`,
		`CREATE TABLE sales.orders (order_id INTEGER NOT NULL, note VARCHAR)`,
		`CREATE VIEW user_names AS SELECT name FROM users`,
	)

	c, err := OpenDuckDB(context.Background(), path, Filter{})
	require.NoError(t, err)

	tables := c.Tables()
	require.Len(t, tables, 2, "views are not generation targets")
	assert.Equal(t, "lake", tables[0].CatalogName)
	assert.Equal(t, "main", tables[0].SchemaName)
	assert.Equal(t, "users", tables[0].TableName)
	assert.Equal(t, "sales", tables[1].SchemaName)

	cols, err := c.Columns("users")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].ColumnName)
	assert.Equal(t, "INTEGER", cols[0].DataType)
	assert.True(t, cols[0].IsMandatory)
	assert.True(t, cols[1].IsMandatory)
	assert.False(t, cols[2].IsMandatory)
}

func TestOpenDuckDB_Filter(t *testing.T) {
	path := createDuckDB(t, "lake.duckdb",
		`CREATE TABLE users (id INTEGER)`,
		`CREATE SCHEMA sales`,
		`CREATE TABLE sales.users (id INTEGER)`,
	)
	ctx := context.Background()

	_, err := OpenDuckDB(ctx, path, Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate table")

	c, err := OpenDuckDB(ctx, path, Filter{Schema: "sales"})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	tbl, err := c.Table("users")
	require.NoError(t, err)
	assert.Equal(t, "sales", tbl.SchemaName)

	c, err = OpenDuckDB(ctx, path, Filter{Catalog: "other"})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
