package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSet_Allow(t *testing.T) {
	set := newLimiterSet(RateLimitConfig{RequestsPerSecond: 2, Burst: 3})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for want := 2; want >= 0; want-- {
		ok, remaining, _ := set.allow("10.0.0.1", now)
		require.True(t, ok)
		assert.Equal(t, want, remaining)
	}

	ok, _, wait := set.allow("10.0.0.1", now)
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	// Another address has its own bucket.
	ok, _, _ = set.allow("10.0.0.2", now)
	assert.True(t, ok)

	// A rejected request does not consume the refill.
	ok, _, _ = set.allow("10.0.0.1", now.Add(500*time.Millisecond))
	assert.True(t, ok)
}

func TestLimiterSet_Sweep(t *testing.T) {
	set := newLimiterSet(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Now()
	set.allow("10.0.0.1", now.Add(-2*time.Minute))
	set.allow("10.0.0.2", now)
	require.Equal(t, 2, set.size())

	set.sweep(now)
	assert.Equal(t, 1, set.size())
}

func TestRateLimiter(t *testing.T) {
	var served int
	h := RequestID(RateLimiter(t.Context(), RateLimitConfig{RequestsPerSecond: 0.5, Burst: 2})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			served++
			w.WriteHeader(http.StatusOK)
		})))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
		req.RemoteAddr = addr
		req.Header.Set(RequestIDHeader, "rl-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for range 2 {
		rec := send("10.0.0.1:4000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	// A new source port from the same host shares the bucket.
	rec := send("10.0.0.1:4001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	var body struct {
		Code      int    `json:"code"`
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, "rate limit exceeded", body.Error)
	assert.Equal(t, "rl-1", body.RequestID)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:4000").Code)
	assert.Equal(t, 3, served)
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		remote, forwarded, want string
	}{
		{"192.168.1.1:12345", "", "192.168.1.1"},
		{"[::1]:12345", "", "::1"},
		{"192.168.1.1", "", "192.168.1.1"},
		{"10.0.0.1:1234", "203.0.113.50", "10.0.0.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if tt.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tt.forwarded)
		}
		assert.Equal(t, tt.want, clientAddr(req), tt.remote)
	}
}
