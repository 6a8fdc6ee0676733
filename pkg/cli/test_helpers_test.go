package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testMetadata = `tables:
  - table_name: users
    catalog_name: main
    schema_name: public
  - table_name: events
    catalog_name: lake
    schema_name: raw
columns:
  - {table_name: users, column_name: id, data_type: INTEGER, is_mandatory: true}
  - {table_name: users, column_name: name, data_type: VARCHAR, is_mandatory: true}
  - {table_name: users, column_name: note, data_type: VARCHAR, is_mandatory: false}
  - {table_name: events, column_name: kind, data_type: VARCHAR, is_mandatory: true}
`

// isolate points HOME at a temp dir and clears every variable the CLI reads,
// so neither the user's profile nor the environment leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"SQLGEN_METADATA", "SQLGEN_MODE", "SQLGEN_OUTPUT", "LOG_LEVEL", "ENV",
		"LISTEN_ADDR", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
		"BATCH_CONCURRENCY", "S3_KEY_ID", "S3_SECRET",
	} {
		t.Setenv(key, "")
	}
	return dir
}

// writeMetadata writes the test metadata document into dir.
func writeMetadata(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testMetadata), 0o600))
	return path
}

// runCLI executes a fresh root command with stdin and returns what it wrote.
func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
