package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesCmd(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	out, _, err := runCLI(t, "", "tables", "--metadata", meta)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"TABLE", "CATALOG", "SCHEMA", "MANDATORY", "OPTIONAL"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"users", "main", "public", "2", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"events", "lake", "raw", "1", "0"}, strings.Fields(lines[2]))
}

func TestColumnsCmd(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	out, _, err := runCLI(t, "", "columns", "users", "--metadata", meta)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"id", "INTEGER", "true"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"note", "VARCHAR", "false"}, strings.Fields(lines[3]))

	_, _, err = runCLI(t, "", "columns", "ghost", "--metadata", meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInsertCmd(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	tests := []struct {
		name    string
		args    []string
		wantOut []string
		wantErr error
		errText string
	}{
		{
			name:    "literal",
			args:    []string{"insert", "users", "--set", "id=1", "--set", "name=bob"},
			wantOut: []string{"INSERT INTO main.public.users (id, name) VALUES ('1', 'bob');", "-- valid"},
		},
		{
			name:    "parameterized",
			args:    []string{"insert", "users", "--set", "id=1", "--set", "name=bob", "--mode", "parameterized"},
			wantOut: []string{"INSERT INTO main.public.users (id, name) VALUES (?, ?);", `-- args: "1", "bob"`},
		},
		{
			name:    "target override",
			args:    []string{"insert", "users", "--set", "id=1", "--set", "name=bob", "--catalog", "dev", "--schema", "tmp"},
			wantOut: []string{"INSERT INTO dev.tmp.users (id, name) VALUES ('1', 'bob');"},
		},
		{
			name:    "include empty",
			args:    []string{"insert", "users", "--set", "id=1", "--set", "name=bob", "--include-empty"},
			wantOut: []string{"INSERT INTO main.public.users (id, name, note) VALUES ('1', 'bob', '');"},
		},
		{
			name:    "mandatory missing",
			args:    []string{"insert", "users", "--set", "id=", "--set", "name=bob"},
			errText: "missing mandatory fields: id",
		},
		{
			name:    "quote makes statement invalid",
			args:    []string{"insert", "users", "--set", "id=1", "--set", "name=O'Brien"},
			wantOut: []string{"-- INVALID:", `column "name"`},
			wantErr: errInvalid,
		},
		{
			name:    "malformed assignment",
			args:    []string{"insert", "users", "--set", "id"},
			errText: "expected column=value",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, "", append(tc.args, "--metadata", meta)...)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
			}
			for _, want := range tc.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestInsertCmd_JSONMissing(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	out, _, err := runCLI(t, "", "insert", "users", "--set", "note=x", "-o", "json", "--metadata", meta)
	require.ErrorIs(t, err, errInvalid)

	var body struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, []string{"id", "name"}, body.Missing)
}

func TestInsertCmd_OutFile(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)
	target := filepath.Join(dir, "out.sql")

	_, _, err := runCLI(t, "", "insert", "users", "--set", "id=1", "--set", "name=bob", "--out", target, "--metadata", meta)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO main.public.users (id, name) VALUES ('1', 'bob');\n", string(data))
}

func TestInsertCmd_OutFileCommentsInvalidLines(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)
	target := filepath.Join(dir, "out.sql")

	_, _, err := runCLI(t, "", "insert", "users", "--set", "id=1",
		"--set", "name=x');\nDROP TABLE main.public.users;\r--", "--out", target, "--metadata", meta)
	require.ErrorIs(t, err, errInvalid)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "-- INVALID: "), line)
	}
}

func TestUpdateCmd(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	out, _, err := runCLI(t, "", "update", "users", "--set", "name=alice", "--where", "id=1", "--metadata", meta)
	require.NoError(t, err)
	assert.Contains(t, out, "UPDATE main.public.users SET name='alice' WHERE id='1';")

	out, _, err = runCLI(t, "", "update", "users", "--set", "name=alice", "--where", "id=1",
		"--mode", "parameterized", "-o", "json", "--metadata", meta)
	require.NoError(t, err)
	var st struct {
		SQL   string   `json:"sql"`
		Mode  string   `json:"mode"`
		Args  []string `json:"args"`
		Valid bool     `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "UPDATE main.public.users SET name=? WHERE id=?;", st.SQL)
	assert.Equal(t, "parameterized", st.Mode)
	assert.Equal(t, []string{"alice", "1"}, st.Args)
	assert.True(t, st.Valid)

	_, _, err = runCLI(t, "", "update", "users", "--set", "name=x", "--where", "nope", "--metadata", meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --where")

	_, _, err = runCLI(t, "", "update", "users", "--set", "name=x", "--metadata", meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "where")
}

func TestValidateCmd(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantOut string
		valid   bool
	}{
		{name: "argument", args: []string{"INSERT INTO a.b.c (id) VALUES ('1');"}, wantOut: "valid (1 statement(s))", valid: true},
		{name: "stdin", stdin: "UPDATE a.b.c SET x='1' WHERE id='2';\n", wantOut: "valid", valid: true},
		{name: "truncated", args: []string{"INSERT INTO"}, wantOut: "invalid:"},
		{name: "empty stdin", stdin: "", wantOut: "invalid: empty statement"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, tc.stdin, append([]string{"validate"}, tc.args...)...)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errInvalid)
			}
			assert.Contains(t, out, tc.wantOut)
		})
	}
}

func TestBatchCmd(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)
	rows := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(rows, []byte(`- {id: 1, name: bob}
- {id: 2, name: alice, note: hi}
`), 0o600))
	target := filepath.Join(dir, "batch.sql")

	out, _, err := runCLI(t, "", "batch", "users", "--rows", rows, "--out", target, "--metadata", meta)
	require.NoError(t, err)
	assert.Contains(t, out, "INSERT INTO main.public.users (id, name) VALUES ('1', 'bob');")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO main.public.users (id, name) VALUES ('1', 'bob');\n"+
			"INSERT INTO main.public.users (id, name, note) VALUES ('2', 'alice', 'hi');\n",
		string(data))
}

func TestBatchCmd_FailedRow(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)
	rows := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(rows, []byte("- {id: 1, name: bob}\n- {name: nobody}\n"), 0o600))

	out, stderr, err := runCLI(t, "", "batch", "users", "--rows", rows, "--concurrency", "1", "-o", "json", "--metadata", meta)
	require.ErrorIs(t, err, errInvalid)
	assert.NotContains(t, stderr, "row(s) failed")

	var results []struct {
		Index   int      `json:"index"`
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, []string{"id"}, results[1].Missing)
}

func TestMetaCmds(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	t.Run("export", func(t *testing.T) {
		out, _, err := runCLI(t, "", "meta", "export", "--metadata", meta)
		require.NoError(t, err)
		assert.Contains(t, out, "table_name: users")
		assert.Contains(t, out, "is_mandatory: true")
	})

	t.Run("import then load from sqlite", func(t *testing.T) {
		store := filepath.Join(dir, "meta.sqlite")
		out, _, err := runCLI(t, "", "meta", "import", meta, "--db", store)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 2 table(s)")

		out, _, err = runCLI(t, "", "tables", "--metadata", store)
		require.NoError(t, err)
		assert.Contains(t, out, "users")
		assert.Contains(t, out, "events")
	})

	t.Run("template", func(t *testing.T) {
		target := filepath.Join(dir, "template.yaml")
		_, _, err := runCLI(t, "", "meta", "template", "orders", "--catalog", "shop", "--out", target)
		require.NoError(t, err)

		out, _, err := runCLI(t, "", "columns", "orders", "--metadata", target)
		require.NoError(t, err)
		assert.Contains(t, out, "id")
	})

	t.Run("lint clean", func(t *testing.T) {
		out, _, err := runCLI(t, "", "meta", "lint", "--metadata", meta)
		require.NoError(t, err)
		assert.Contains(t, out, "No issues found.")
	})

	t.Run("lint issues", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte(`tables:
  - {table_name: orders, catalog_name: "", schema_name: sales}
columns: []
`), 0o600))
		out, _, err := runCLI(t, "", "meta", "lint", "--metadata", bad)
		require.ErrorIs(t, err, errLint)
		assert.Contains(t, out, "catalog_name is empty")
		assert.Contains(t, out, "table has no columns")
	})
}

func TestMetadataFromEnvAndProfile(t *testing.T) {
	dir := isolate(t)
	meta := writeMetadata(t, dir)

	_, _, err := runCLI(t, "", "config", "set", "metadata", meta)
	require.NoError(t, err)
	out, _, err := runCLI(t, "", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "users")

	t.Setenv("SQLGEN_METADATA", filepath.Join(dir, "missing.yaml"))
	_, _, err = runCLI(t, "", "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	out, _, err = runCLI(t, "", "tables", "--metadata", meta)
	require.NoError(t, err)
	assert.Contains(t, out, "users")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sqlgen version dev (commit: none)\n", out)

	out, _, err = runCLI(t, "", "version", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev","commit":"none"}`, out)
}

func TestCompletionCmd(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.True(t, containsIgnoreCase(out, "sqlgen"))

	_, _, err = runCLI(t, "", "completion", "tcsh")
	require.Error(t, err)
}

func TestInvalidGlobalFlags(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "", "version", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	_, _, err = runCLI(t, "", "version", "--mode", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mode")
}

func TestZeroArgCommandsRejectUnexpectedPositionalArgs(t *testing.T) {
	isolate(t)

	for _, args := range [][]string{
		{"version", "extra"},
		{"tables", "extra"},
		{"config", "show", "extra"},
		{"meta", "lint", "extra"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := runCLI(t, "", args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), `unknown command "extra"`)
		})
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"id=1", " name =a=b", "note="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "1", "name": "a=b", "note": ""}, got)

	_, err = parseAssignments([]string{"id=1", "id=2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")

	_, err = parseAssignments([]string{"=x"})
	require.Error(t, err)
}
