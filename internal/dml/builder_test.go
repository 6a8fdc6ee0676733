package dml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgen/internal/domain"
)

func TestBuildInsert(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		schema  string
		table   string
		columns []string
		values  []string
		mode    domain.Mode
		want    string
		wantErr string
	}{
		{
			name:    "literal",
			catalog: "my_catalog",
			schema:  "my_schema",
			table:   "my_table",
			columns: []string{"id", "name"},
			values:  []string{"1", "bob"},
			mode:    domain.ModeLiteral,
			want:    "INSERT INTO my_catalog.my_schema.my_table (id, name) VALUES ('1', 'bob');",
		},
		{
			name:    "parameterized",
			catalog: "my_catalog",
			schema:  "my_schema",
			table:   "my_table",
			columns: []string{"id", "name"},
			values:  []string{"1", "bob"},
			mode:    domain.ModeParameterized,
			want:    "INSERT INTO my_catalog.my_schema.my_table (id, name) VALUES (?, ?);",
		},
		{
			name:    "empty_values_are_quoted",
			catalog: "c",
			schema:  "s",
			table:   "t",
			columns: []string{"a"},
			values:  []string{""},
			want:    "INSERT INTO c.s.t (a) VALUES ('');",
		},
		{
			name:    "no_columns",
			catalog: "c",
			schema:  "s",
			table:   "t",
			columns: nil,
			values:  nil,
			want:    "INSERT INTO c.s.t () VALUES ();",
		},
		{
			name:    "quote_not_escaped",
			catalog: "c",
			schema:  "s",
			table:   "t",
			columns: []string{"name"},
			values:  []string{"O'Brien"},
			want:    "INSERT INTO c.s.t (name) VALUES ('O'Brien');",
		},
		{
			name:    "length_mismatch",
			catalog: "c",
			schema:  "s",
			table:   "t",
			columns: []string{"a", "b"},
			values:  []string{"1"},
			wantErr: "2 columns but 1 values",
		},
		{
			name:    "empty_catalog",
			schema:  "s",
			table:   "t",
			wantErr: "catalog name is required",
		},
		{
			name:    "empty_table",
			catalog: "c",
			schema:  "s",
			wantErr: "table name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildInsert(tt.catalog, tt.schema, tt.table, tt.columns, tt.values, tt.mode)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, got)
				var cv *domain.ContractViolationError
				assert.True(t, errors.As(err, &cv))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildInsert_CountsMatchColumns(t *testing.T) {
	for n := 1; n <= 12; n++ {
		cols := make([]string, n)
		vals := make([]string, n)
		for i := range cols {
			cols[i] = fmt.Sprintf("c%d", i)
			vals[i] = fmt.Sprintf("v%d", i)
		}

		literal, err := BuildInsert("c", "s", "t", cols, vals, domain.ModeLiteral)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(literal, ");"))
		assert.Equal(t, "INSERT INTO c.s.t ("+strings.Join(cols, ", ")+") VALUES ('"+strings.Join(vals, "', '")+"');", literal)
		assert.Equal(t, 2*n, strings.Count(literal, "'"))

		param, err := BuildInsert("c", "s", "t", cols, vals, domain.ModeParameterized)
		require.NoError(t, err)
		assert.Equal(t, n, strings.Count(param, Placeholder), "one placeholder per column")
		for _, v := range vals {
			assert.NotContains(t, param, v)
		}
	}
}

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name       string
		setColumns []string
		setValues  []string
		whereCol   string
		whereVal   string
		mode       domain.Mode
		want       string
		wantErr    string
	}{
		{
			name:       "parameterized",
			setColumns: []string{"name"},
			setValues:  []string{"alice"},
			whereCol:   "id",
			whereVal:   "1",
			mode:       domain.ModeParameterized,
			want:       "UPDATE my_catalog.my_schema.my_table SET name=? WHERE id=?;",
		},
		{
			name:       "literal_multiple",
			setColumns: []string{"name", "age"},
			setValues:  []string{"alice", "30"},
			whereCol:   "id",
			whereVal:   "1",
			want:       "UPDATE my_catalog.my_schema.my_table SET name='alice', age='30' WHERE id='1';",
		},
		{
			name:     "empty_set_list",
			whereCol: "id",
			whereVal: "1",
			want:     "UPDATE my_catalog.my_schema.my_table SET  WHERE id='1';",
		},
		{
			name:       "length_mismatch",
			setColumns: []string{"name"},
			whereCol:   "id",
			wantErr:    "1 set columns but 0 set values",
		},
		{
			name:       "missing_where_column",
			setColumns: []string{"name"},
			setValues:  []string{"alice"},
			wantErr:    "where column is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildUpdate("my_catalog", "my_schema", "my_table",
				tt.setColumns, tt.setValues, tt.whereCol, tt.whereVal, tt.mode)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var cv *domain.ContractViolationError
				assert.True(t, errors.As(err, &cv))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilders_Deterministic(t *testing.T) {
	cols := []string{"id", "name", "email"}
	vals := []string{"7", "bob", "bob@example.com"}

	a, err := BuildInsert("c", "s", "t", cols, vals, domain.ModeLiteral)
	require.NoError(t, err)
	b, err := BuildInsert("c", "s", "t", cols, vals, domain.ModeLiteral)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	u1, err := BuildUpdate("c", "s", "t", cols[1:], vals[1:], "id", "7", domain.ModeParameterized)
	require.NoError(t, err)
	u2, err := BuildUpdate("c", "s", "t", cols[1:], vals[1:], "id", "7", domain.ModeParameterized)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "lake.main.titanic", QualifiedName("lake", "main", "titanic"))
}
