// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/posts?cursor=abc", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	var limited []string
	rl := NewRateLimiter(0.5, 2).OnLimit(func(ip string) { limited = append(limited, ip) })
	handler := rl.Middleware()(okHandler())

	for i := range 2 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom("203.0.113.7:5000"))
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("203.0.113.7:5001"))
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))

	var body APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body.Error.Code)
	assert.Equal(t, []string{"203.0.113.7"}, limited)
}

func TestRateLimiter_PerClient(t *testing.T) {
	handler := NewRateLimiter(0.1, 1).Middleware()(okHandler())

	for _, addr := range []string{"198.51.100.1:1", "198.51.100.2:1", "[2001:db8::1]:443"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestFrom(addr))
		assert.Equal(t, http.StatusOK, rr.Code, addr)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestFrom("198.51.100.1:2"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	tests := []struct {
		rps  float64
		want int
	}{
		{5, 1},
		{1, 1},
		{0.25, 4},
		{0, 60},
	}
	for _, tt := range tests {
		t.Run(strconv.FormatFloat(tt.rps, 'f', -1, 64), func(t *testing.T) {
			assert.Equal(t, tt.want, NewRateLimiter(tt.rps, 1).retryAfter())
		})
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	a := lc.get("a")
	assert.Same(t, a, lc.get("a"))
	assert.NotSame(t, a, lc.get("b"))
	assert.Equal(t, 2, lc.size())

	assert.False(t, lc.clearIfExceeds(2))
	lc.get("c")
	assert.True(t, lc.clearIfExceeds(2))
	assert.Equal(t, 0, lc.size())
}

func TestLimiterCache_Concurrent(t *testing.T) {
	lc := newLimiterCache[int](1, 1)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lc.get(i % 5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, lc.size())
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234":    "192.0.2.1",
		"[2001:db8::1]:443": "2001:db8::1",
		"192.0.2.9":         "192.0.2.9",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		assert.Equal(t, want, clientIP(req), addr)
	}
}
