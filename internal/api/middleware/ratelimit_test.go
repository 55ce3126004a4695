package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl := NewKeyedRateLimiter(0.001, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "keys have independent buckets")
	assert.Equal(t, 2, rl.Len())
}

func TestKeyedRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl := NewKeyedRateLimiter(0, 0)
	defer rl.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.Zero(t, rl.Len())
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	t.Parallel()

	rl := NewKeyedRateLimiter(1, 1)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(defaultIdleTTL + time.Second)
	rl.Allow("fresh")

	rl.evictIdle()
	assert.Equal(t, 1, rl.Len())
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	rl := NewKeyedRateLimiter(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	rl := NewKeyedRateLimiter(0.001, 1)
	defer rl.Stop()

	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234").Code)

	rr := send("192.0.2.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "port does not change the key")
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234").Code)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
