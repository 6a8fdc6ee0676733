// Package metadata holds the loaded table and column descriptors and knows
// how to read them from YAML documents, the SQLite metadata store, and DuckDB
// databases.
package metadata

import (
	"fmt"
	"strings"

	"sqlgen/internal/dml"
	"sqlgen/internal/domain"
	"sqlgen/internal/sqlparse"
)

// Catalog is an immutable, ordered set of table and column descriptors.
// It is safe for concurrent use.
type Catalog struct {
	tables  []domain.TableDescriptor
	columns []domain.ColumnDescriptor
	index   map[string]int
	byTable map[string][]domain.ColumnDescriptor
}

// NewCatalog validates and indexes the descriptors. Table names must be
// non-empty and unique; column names must be non-empty and unique per table.
// Columns that reference an unknown table are kept and reported by Lint.
func NewCatalog(tables []domain.TableDescriptor, columns []domain.ColumnDescriptor) (*Catalog, error) {
	c := &Catalog{
		tables:  append([]domain.TableDescriptor(nil), tables...),
		columns: append([]domain.ColumnDescriptor(nil), columns...),
		index:   make(map[string]int, len(tables)),
		byTable: make(map[string][]domain.ColumnDescriptor, len(tables)),
	}

	for i, t := range c.tables {
		if strings.TrimSpace(t.TableName) == "" {
			return nil, domain.ErrValidation("table %d: table_name is required", i+1)
		}
		if _, dup := c.index[t.TableName]; dup {
			return nil, domain.ErrValidation("duplicate table %q", t.TableName)
		}
		c.index[t.TableName] = i
	}

	seen := make(map[string]bool, len(columns))
	for i, col := range c.columns {
		if strings.TrimSpace(col.ColumnName) == "" {
			return nil, domain.ErrValidation("column %d of table %q: column_name is required", i+1, col.TableName)
		}
		key := col.TableName + "\x00" + col.ColumnName
		if seen[key] {
			return nil, domain.ErrValidation("duplicate column %q in table %q", col.ColumnName, col.TableName)
		}
		seen[key] = true
		c.byTable[col.TableName] = append(c.byTable[col.TableName], col)
	}

	return c, nil
}

// Tables returns the table descriptors in source order.
func (c *Catalog) Tables() []domain.TableDescriptor {
	return append([]domain.TableDescriptor(nil), c.tables...)
}

// AllColumns returns every column descriptor in source order.
func (c *Catalog) AllColumns() []domain.ColumnDescriptor {
	return append([]domain.ColumnDescriptor(nil), c.columns...)
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (domain.TableDescriptor, error) {
	i, ok := c.index[name]
	if !ok {
		return domain.TableDescriptor{}, domain.ErrNotFound("table %q not found", name)
	}
	return c.tables[i], nil
}

// Columns returns the columns of a table in source order.
func (c *Catalog) Columns(table string) ([]domain.ColumnDescriptor, error) {
	if _, ok := c.index[table]; !ok {
		return nil, domain.ErrNotFound("table %q not found", table)
	}
	return append([]domain.ColumnDescriptor(nil), c.byTable[table]...), nil
}

// Column looks up a single column of a table.
func (c *Catalog) Column(table, column string) (domain.ColumnDescriptor, error) {
	cols, err := c.Columns(table)
	if err != nil {
		return domain.ColumnDescriptor{}, err
	}
	for _, col := range cols {
		if col.ColumnName == column {
			return col, nil
		}
	}
	return domain.ColumnDescriptor{}, domain.ErrNotFound("column %q not found in table %q", column, table)
}

// Len returns the number of tables.
func (c *Catalog) Len() int { return len(c.tables) }

// Partition splits columns into mandatory and optional, each keeping the
// input order.
func Partition(columns []domain.ColumnDescriptor) (mandatory, optional []domain.ColumnDescriptor) {
	for _, col := range columns {
		if col.IsMandatory {
			mandatory = append(mandatory, col)
		} else {
			optional = append(optional, col)
		}
	}
	return mandatory, optional
}

// Issue is a lint finding. Column is empty for table-level findings.
type Issue struct {
	Table   string `json:"table"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Column != "" {
		return fmt.Sprintf("%s.%s: %s", i.Table, i.Column, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Table, i.Message)
}

// Lint reports metadata that loads fine but will produce statements the
// validator rejects or that a database would refuse. It flags names that are
// not plain identifiers, reserved column names, a missing catalog or schema,
// tables without columns and columns without a table.
func (c *Catalog) Lint() []Issue {
	var issues []Issue
	for _, t := range c.tables {
		if err := dml.ValidateIdentifier(t.TableName); err != nil {
			issues = append(issues, Issue{Table: t.TableName, Message: "table " + err.Error()})
		}
		for _, part := range []struct{ label, value string }{
			{"catalog_name", t.CatalogName},
			{"schema_name", t.SchemaName},
		} {
			if part.value == "" {
				issues = append(issues, Issue{Table: t.TableName, Message: part.label + " is empty"})
				continue
			}
			if err := dml.ValidateIdentifier(part.value); err != nil {
				issues = append(issues, Issue{Table: t.TableName, Message: fmt.Sprintf("%s %q: %v", part.label, part.value, err)})
			}
		}
		if len(c.byTable[t.TableName]) == 0 {
			issues = append(issues, Issue{Table: t.TableName, Message: "table has no columns"})
		}
	}
	for _, col := range c.columns {
		if _, ok := c.index[col.TableName]; !ok {
			issues = append(issues, Issue{Table: col.TableName, Column: col.ColumnName, Message: "column references an unknown table"})
			continue
		}
		if err := dml.ValidateIdentifier(col.ColumnName); err != nil {
			issues = append(issues, Issue{Table: col.TableName, Column: col.ColumnName, Message: "column " + err.Error()})
		} else if sqlparse.IsReservedWord(col.ColumnName) {
			issues = append(issues, Issue{Table: col.TableName, Column: col.ColumnName, Message: "column name is a reserved word"})
		}
	}
	return issues
}
