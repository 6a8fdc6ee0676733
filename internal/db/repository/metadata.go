package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sqlgen/internal/domain"
)

// MetadataRepo persists table and column descriptors in the SQLite store.
// Order is preserved through the position columns.
type MetadataRepo struct {
	db *sql.DB
}

// NewMetadataRepo creates a new MetadataRepo.
func NewMetadataRepo(db *sql.DB) *MetadataRepo {
	return &MetadataRepo{db: db}
}

// Replace atomically swaps the stored metadata for the given descriptors.
// Duplicate table names, or duplicate columns within a table, abort the
// transaction with a ValidationError.
func (r *MetadataRepo) Replace(ctx context.Context, tables []domain.TableDescriptor, columns []domain.ColumnDescriptor) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Columns go with their tables through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlgen_tables`); err != nil {
		return fmt.Errorf("clear tables: %w", err)
	}

	for i, t := range tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sqlgen_tables (table_name, catalog_name, schema_name, position) VALUES (?, ?, ?, ?)`,
			t.TableName, t.CatalogName, t.SchemaName, i); err != nil {
			return mapDBError(err, "table %q", t.TableName)
		}
	}

	for i, c := range columns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sqlgen_columns (table_name, column_name, data_type, is_mandatory, position) VALUES (?, ?, ?, ?, ?)`,
			c.TableName, c.ColumnName, c.DataType, boolToInt(c.IsMandatory), i); err != nil {
			return mapDBError(err, "column %s.%s", c.TableName, c.ColumnName)
		}
	}

	return tx.Commit()
}

// Load returns all stored descriptors in their original order.
func (r *MetadataRepo) Load(ctx context.Context) ([]domain.TableDescriptor, []domain.ColumnDescriptor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT table_name, catalog_name, schema_name FROM sqlgen_tables ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tables []domain.TableDescriptor
	for rows.Next() {
		var t domain.TableDescriptor
		if err := rows.Scan(&t.TableName, &t.CatalogName, &t.SchemaName); err != nil {
			return nil, nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	colRows, err := r.db.QueryContext(ctx,
		`SELECT table_name, column_name, data_type, is_mandatory FROM sqlgen_columns ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("list columns: %w", err)
	}
	defer colRows.Close() //nolint:errcheck

	var columns []domain.ColumnDescriptor
	for colRows.Next() {
		var c domain.ColumnDescriptor
		var mandatory int64
		if err := colRows.Scan(&c.TableName, &c.ColumnName, &c.DataType, &mandatory); err != nil {
			return nil, nil, err
		}
		c.IsMandatory = mandatory != 0
		columns = append(columns, c)
	}
	return tables, columns, colRows.Err()
}

// Count returns the number of stored tables and columns.
func (r *MetadataRepo) Count(ctx context.Context) (tables, columns int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM sqlgen_tables), (SELECT COUNT(*) FROM sqlgen_columns)`).Scan(&tables, &columns)
	return tables, columns, err
}
