package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb driver

	"sqlgen/internal/domain"
)

// Filter narrows DuckDB introspection to one catalog and/or schema.
type Filter struct {
	Catalog string
	Schema  string
}

// OpenDuckDB opens a DuckDB database file read-only and loads its tables.
func OpenDuckDB(ctx context.Context, path string, f Filter) (*Catalog, error) {
	conn, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open duckdb %q: %w", path, err)
	}
	defer conn.Close() //nolint:errcheck

	return LoadDuckDB(ctx, conn, f)
}

// LoadDuckDB reads base tables and their columns from information_schema.
// A column is mandatory when it is declared NOT NULL. Only metadata queries
// are issued.
func LoadDuckDB(ctx context.Context, conn *sql.DB, f Filter) (*Catalog, error) {
	query := `SELECT table_catalog, table_schema, table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_catalog NOT IN ('system', 'temp')
  AND table_schema NOT IN ('information_schema', 'pg_catalog')`
	var args []any
	if f.Catalog != "" {
		query += "\n  AND table_catalog = ?"
		args = append(args, f.Catalog)
	}
	if f.Schema != "" {
		query += "\n  AND table_schema = ?"
		args = append(args, f.Schema)
	}
	query += "\nORDER BY table_catalog, table_schema, table_name"

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list duckdb tables: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tables []domain.TableDescriptor
	for rows.Next() {
		var t domain.TableDescriptor
		if err := rows.Scan(&t.CatalogName, &t.SchemaName, &t.TableName); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var columns []domain.ColumnDescriptor
	for _, t := range tables {
		cols, err := loadDuckDBColumns(ctx, conn, t)
		if err != nil {
			return nil, err
		}
		columns = append(columns, cols...)
	}

	c, err := NewCatalog(tables, columns)
	if err != nil {
		return nil, fmt.Errorf("duckdb metadata (narrow with a catalog or schema filter): %w", err)
	}
	return c, nil
}

func loadDuckDBColumns(ctx context.Context, conn *sql.DB, t domain.TableDescriptor) ([]domain.ColumnDescriptor, error) {
	rows, err := conn.QueryContext(ctx, `SELECT column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_catalog = ? AND table_schema = ? AND table_name = ?
ORDER BY ordinal_position`, t.CatalogName, t.SchemaName, t.TableName)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s.%s.%s: %w", t.CatalogName, t.SchemaName, t.TableName, err)
	}
	defer rows.Close() //nolint:errcheck

	var cols []domain.ColumnDescriptor
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, err
		}
		cols = append(cols, domain.ColumnDescriptor{
			TableName:   t.TableName,
			ColumnName:  name,
			DataType:    dataType,
			IsMandatory: strings.EqualFold(nullable, "NO"),
		})
	}
	return cols, rows.Err()
}
