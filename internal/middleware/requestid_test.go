package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"absent", "", false},
		{"client id", "batch-7.row_3", true},
		{"max length", strings.Repeat("x", maxRequestIDLen), true},
		{"too long", strings.Repeat("x", maxRequestIDLen+1), false},
		{"newline", "id\nlevel=ERROR", false},
		{"space", "two words", false},
		{"quote", `id"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodPost, "/v1/statements/insert", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.header, seen)
				return
			}
			parsed, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(7), parsed.Version())
		})
	}

	assert.Empty(t, RequestIDFromContext(t.Context()))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(WithRequestID(WithRequestID(base))).With("component", "generator")

	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logger.WarnContext(r.Context(), "generated statement is invalid", "table", "users")
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/statements/insert", nil)
	req.Header.Set(RequestIDHeader, "trace-9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `"request_id":"trace-9"`), out)
	assert.Contains(t, out, `"component":"generator"`)

	buf.Reset()
	logger.Info("metadata loaded")
	assert.NotContains(t, buf.String(), "request_id")
}
