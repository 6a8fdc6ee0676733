package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgen/internal/domain"
	"sqlgen/internal/metadata"
	"sqlgen/internal/middleware"
	"sqlgen/internal/service"
	"sqlgen/internal/ui"
)

// setupTestServer wires the full router over a two-table catalog.
func setupTestServer(t *testing.T, mode domain.Mode) *httptest.Server {
	t.Helper()

	cat, err := metadata.NewCatalog(
		[]domain.TableDescriptor{
			{TableName: "my_table", CatalogName: "my_catalog", SchemaName: "my_schema"},
			{TableName: "events", CatalogName: "lake", SchemaName: "raw"},
		},
		[]domain.ColumnDescriptor{
			{TableName: "my_table", ColumnName: "id", DataType: "INTEGER", IsMandatory: true},
			{TableName: "my_table", ColumnName: "name", DataType: "VARCHAR", IsMandatory: true},
			{TableName: "my_table", ColumnName: "note", DataType: "VARCHAR"},
			{TableName: "events", ColumnName: "event_id", IsMandatory: true},
		},
	)
	require.NoError(t, err)

	gen := service.NewGenerator(cat, nil)
	router := NewRouter(t.Context(), NewHandler(gen, mode, nil), RouterConfig{
		RateLimit:   middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		CORSOrigins: []string{"*"},
		UI:          ui.NewHandler(gen, mode, false, nil),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	var out map[string]interface{}
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	resp, body := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, 2, body["tables"], 0.001)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestListTables(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	resp, body := doJSON(t, srv, http.MethodGet, "/v1/tables", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tables, ok := body["tables"].([]interface{})
	require.True(t, ok)
	require.Len(t, tables, 2)
	first := tables[0].(map[string]interface{})
	assert.Equal(t, "my_table", first["table_name"])
	assert.InDelta(t, 2, first["mandatory"], 0.001)
	assert.InDelta(t, 1, first["optional"], 0.001)
}

func TestGetTable(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	resp, body := doJSON(t, srv, http.MethodGet, "/v1/tables/my_table", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mandatory := body["mandatory"].([]interface{})
	optional := body["optional"].([]interface{})
	assert.Len(t, mandatory, 2)
	assert.Len(t, optional, 1)
	assert.Equal(t, "note", optional[0].(map[string]interface{})["column_name"])

	resp, body = doJSON(t, srv, http.MethodGet, "/v1/tables/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.InDelta(t, 404, body["code"], 0.001)
	assert.NotEmpty(t, body["request_id"])
}

func TestCreateInsert(t *testing.T) {
	tests := []struct {
		name       string
		mode       domain.Mode
		body       interface{}
		wantStatus int
		wantSQL    string
		wantValid  bool
		wantError  string
		wantMiss   []interface{}
	}{
		{
			name:       "literal",
			body:       map[string]interface{}{"table": "my_table", "values": map[string]string{"id": "1", "name": "bob"}},
			wantStatus: http.StatusOK,
			wantSQL:    "INSERT INTO my_catalog.my_schema.my_table (id, name) VALUES ('1', 'bob');",
			wantValid:  true,
		},
		{
			name:       "explicit parameterized",
			body:       map[string]interface{}{"table": "my_table", "mode": "parameterized", "values": map[string]string{"id": "1", "name": "bob"}},
			wantStatus: http.StatusOK,
			wantSQL:    "INSERT INTO my_catalog.my_schema.my_table (id, name) VALUES (?, ?);",
			wantValid:  true,
		},
		{
			name:       "server default mode",
			mode:       domain.ModeParameterized,
			body:       map[string]interface{}{"table": "events", "catalog": "dev", "values": map[string]string{"event_id": "e1"}},
			wantStatus: http.StatusOK,
			wantSQL:    "INSERT INTO dev.raw.events (event_id) VALUES (?);",
			wantValid:  true,
		},
		{
			name:       "unescaped quote is reported invalid",
			body:       map[string]interface{}{"table": "my_table", "values": map[string]string{"id": "1", "name": "O'Brien"}},
			wantStatus: http.StatusOK,
			wantSQL:    "INSERT INTO my_catalog.my_schema.my_table (id, name) VALUES ('1', 'O'Brien');",
			wantValid:  false,
		},
		{
			name:       "missing mandatory",
			body:       map[string]interface{}{"table": "my_table", "values": map[string]string{"id": "", "name": "bob"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "missing mandatory fields: id",
			wantMiss:   []interface{}{"id"},
		},
		{
			name:       "unknown table",
			body:       map[string]interface{}{"table": "ghost"},
			wantStatus: http.StatusNotFound,
			wantError:  `table "ghost" not found`,
		},
		{
			name:       "unknown column",
			body:       map[string]interface{}{"table": "my_table", "values": map[string]string{"id": "1", "name": "b", "age": "3"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "unknown columns",
		},
		{
			name:       "bad mode",
			body:       map[string]interface{}{"table": "my_table", "mode": "weird"},
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported mode",
		},
		{
			name:       "missing table",
			body:       map[string]interface{}{"values": map[string]string{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "table is required",
		},
		{
			name:       "unknown field",
			body:       map[string]interface{}{"table": "my_table", "colour": "red"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "malformed json",
			body:       `{"table":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupTestServer(t, tt.mode)
			resp, body := doJSON(t, srv, http.MethodPost, "/v1/statements/insert", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode, body)

			if tt.wantError != "" {
				assert.Contains(t, body["error"], tt.wantError)
				if tt.wantMiss != nil {
					assert.Equal(t, tt.wantMiss, body["missing"])
				} else {
					assert.Nil(t, body["missing"])
				}
				return
			}
			assert.Equal(t, "INSERT", body["kind"])
			assert.Equal(t, tt.wantSQL, body["sql"])
			assert.Equal(t, tt.wantValid, body["valid"])
		})
	}
}

func TestCreateUpdate(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	resp, body := doJSON(t, srv, http.MethodPost, "/v1/statements/update", map[string]interface{}{
		"table": "my_table",
		"mode":  "parameterized",
		"set":   map[string]string{"name": "bob"},
		"where": map[string]string{"column": "id", "value": "1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "UPDATE my_catalog.my_schema.my_table SET name=? WHERE id=?;", body["sql"])
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, []interface{}{"bob", "1"}, body["args"])
	assert.Equal(t, "parameterized", body["mode"])

	resp, body = doJSON(t, srv, http.MethodPost, "/v1/statements/update", map[string]interface{}{
		"table": "my_table",
		"set":   map[string]string{"name": "bob"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "where column is required")

	resp, body = doJSON(t, srv, http.MethodPost, "/v1/statements/update", map[string]interface{}{
		"table": "my_table",
		"where": map[string]string{"column": "id", "value": "1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"], "empty SET clause must fail validation")
	assert.NotEmpty(t, body["diagnostic"])
}

func TestValidate(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	tests := []struct {
		sql   string
		valid bool
	}{
		{"INSERT INTO a.b.c (id) VALUES ('1');", true},
		{"INSERT INTO", false},
		{"", false},
		{"UPDATE a.b.c SET x='1' WHERE id='2';", true},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			resp, body := doJSON(t, srv, http.MethodPost, "/v1/validate", map[string]string{"sql": tt.sql})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.valid, body["valid"])
			if !tt.valid {
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestUIMounted(t *testing.T) {
	srv := setupTestServer(t, domain.ModeLiteral)

	resp, err := srv.Client().Get(srv.URL + "/ui/tables/my_table")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
