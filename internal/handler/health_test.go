// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/spacetraveling/internal/cache"
	"github.com/olegiv/spacetraveling/internal/prismic"
	"github.com/olegiv/spacetraveling/internal/prismic/prismictest"
)

type stubRefChecker struct {
	err error
}

func (s stubRefChecker) MasterRef(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "ref", nil
}

func decodeHealth(t *testing.T, rr *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	return status
}

func TestHealth_Healthy(t *testing.T) {
	srv := prismictest.NewServer(t)
	client, err := prismic.New(prismic.Options{Endpoint: srv.Endpoint()})
	require.NoError(t, err)

	store := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = store.Close() }()

	h := NewHealthHandler(client, store)
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypeJSON, rr.Header().Get(HeaderContentType))

	status := decodeHealth(t, rr)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["cms"].Status)
	assert.Equal(t, "healthy", status.Checks["cache"].Status)
	assert.True(t, strings.HasPrefix(status.Checks["cache"].Message, "memory, 0 items"))
	assert.NotEmpty(t, status.Version)
	assert.Nil(t, status.System)
}

func TestHealth_CMSDown(t *testing.T) {
	h := NewHealthHandler(stubRefChecker{err: errors.New("dial tcp 10.0.0.7:443: connection refused")}, nil)

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	status := decodeHealth(t, rr)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Checks["cms"].Status)
	assert.Equal(t, "Disabled", status.Checks["cache"].Message)
	assert.NotContains(t, rr.Body.String(), "10.0.0.7", "upstream errors are not exposed")
}

func TestHealth_Verbose(t *testing.T) {
	h := NewHealthHandler(stubRefChecker{}, nil)

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	status := decodeHealth(t, rr)
	require.NotNil(t, status.System)
	assert.NotEmpty(t, status.System.GoVersion)
	assert.Positive(t, status.System.NumCPU)
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(stubRefChecker{err: errors.New("down")}, nil)

	rr := httptest.NewRecorder()
	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rr.Body.String())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
