// Package dml renders INSERT and UPDATE statements for catalog.schema.table
// targets, with values embedded as literals or replaced by ? placeholders.
//
// The builders are pure: identical inputs always produce identical text. They
// do not escape quote characters inside literal values; a value such as
// O'Brien yields an unbalanced literal that the validator rejects.
package dml

import (
	"strings"

	"sqlgen/internal/domain"
)

// Placeholder is the token emitted for each value in parameterized mode.
const Placeholder = "?"

// QualifiedName joins catalog, schema, and table with dots.
func QualifiedName(catalog, schema, table string) string {
	return catalog + "." + schema + "." + table
}

// BuildInsert returns:
//
//	INSERT INTO <catalog>.<schema>.<table> (<col1>, <col2>) VALUES ('<v1>', '<v2>');
//
// In parameterized mode every value is replaced by ?. values[i] belongs to
// columns[i]. An empty column list yields "() VALUES ()", which is left for
// the validator to reject.
func BuildInsert(catalog, schema, table string, columns, values []string, mode domain.Mode) (string, error) {
	if err := checkTarget("insert", catalog, schema, table); err != nil {
		return "", err
	}
	if len(columns) != len(values) {
		return "", domain.ErrContractViolation("insert",
			"%d columns but %d values: columns and values must be positionally aligned", len(columns), len(values))
	}

	vals := make([]string, len(values))
	for i, v := range values {
		vals[i] = renderValue(v, mode)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(QualifiedName(catalog, schema, table))
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(vals, ", "))
	b.WriteString(");")
	return b.String(), nil
}

// BuildUpdate returns:
//
//	UPDATE <catalog>.<schema>.<table> SET <col1>='<v1>', <col2>='<v2>' WHERE <where>='<value>';
//
// In parameterized mode every value, including the WHERE value, is replaced
// by ?. An empty set list leaves an empty SET clause in place.
func BuildUpdate(catalog, schema, table string, setColumns, setValues []string, whereColumn, whereValue string, mode domain.Mode) (string, error) {
	if err := checkTarget("update", catalog, schema, table); err != nil {
		return "", err
	}
	if len(setColumns) != len(setValues) {
		return "", domain.ErrContractViolation("update",
			"%d set columns but %d set values: set columns and values must be positionally aligned", len(setColumns), len(setValues))
	}
	if whereColumn == "" {
		return "", domain.ErrContractViolation("update", "where column is required")
	}

	assignments := make([]string, len(setColumns))
	for i, col := range setColumns {
		assignments[i] = col + "=" + renderValue(setValues[i], mode)
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(QualifiedName(catalog, schema, table))
	b.WriteString(" SET ")
	b.WriteString(strings.Join(assignments, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(whereColumn)
	b.WriteString("=")
	b.WriteString(renderValue(whereValue, mode))
	b.WriteString(";")
	return b.String(), nil
}

func renderValue(v string, mode domain.Mode) string {
	if mode == domain.ModeParameterized {
		return Placeholder
	}
	return "'" + v + "'"
}

func checkTarget(op, catalog, schema, table string) error {
	switch {
	case catalog == "":
		return domain.ErrContractViolation(op, "catalog name is required")
	case schema == "":
		return domain.ErrContractViolation(op, "schema name is required")
	case table == "":
		return domain.ErrContractViolation(op, "table name is required")
	}
	return nil
}
