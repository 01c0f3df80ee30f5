// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/spacetraveling/internal/cache"
	"github.com/olegiv/spacetraveling/internal/version"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 5 * time.Second

// RefChecker resolves the CMS master ref.
type RefChecker interface {
	MasterRef(ctx context.Context) (string, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	cms       RefChecker
	cache     cache.Cacher
	startTime time.Time
}

// NewHealthHandler creates a new health handler. store may be nil.
func NewHealthHandler(cms RefChecker, store cache.Cacher) *HealthHandler {
	return &HealthHandler{
		cms:       cms,
		cache:     store,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests. The CMS being unreachable makes the
// service degraded (503); check messages never carry upstream error text.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	cmsCheck := h.checkCMS(r.Context())
	cacheCheck := h.checkCache(r.Context())

	overallStatus := "healthy"
	if cmsCheck.Status != "healthy" || cacheCheck.Status != "healthy" {
		overallStatus = "degraded"
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Current().Version,
		Checks: map[string]Check{
			"cms":   cmsCheck,
			"cache": cacheCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = h.getSystemInfo()
	}

	code := http.StatusOK
	if overallStatus != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(HeaderContentType, contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// checkCMS verifies the content API answers with a master ref.
func (h *HealthHandler) checkCMS(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	_, err := h.cms.MasterRef(ctx)
	latency := time.Since(start)

	if err != nil {
		slog.Warn("cms health check failed", "error", err)
		return Check{
			Status:  "unhealthy",
			Message: "Content API unreachable",
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: "Master ref resolved",
		Latency: latency.String(),
	}
}

// checkCache pings remote cache backends. In-process caches are always
// healthy.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: "healthy", Message: "Disabled"}
	}

	message := "OK"
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		message = fmt.Sprintf("%s, %d items, %.1f%% hit rate", stats.Backend, stats.Items, stats.HitRate)
	}

	pinger, ok := h.cache.(cache.Pinger)
	if !ok {
		return Check{Status: "healthy", Message: message}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := pinger.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		slog.Warn("cache health check failed", "error", err)
		return Check{Status: "unhealthy", Message: "Cache unreachable", Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: message, Latency: latency.String()}
}

// getSystemInfo returns system-level metrics.
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
