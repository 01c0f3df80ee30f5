// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that counts warnings and errors
// into the metrics registry while forwarding every record to an inner handler.
package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Log categories used as the metrics label.
const (
	CategoryCMS     = "cms"
	CategoryCache   = "cache"
	CategoryRender  = "render"
	CategoryPreview = "preview"
	CategoryHTTP    = "http"
	CategorySystem  = "system"
)

// Recorder receives one call per counted record.
type Recorder interface {
	IncrementLogEvents(level, category string)
}

// MetricsHandler is a slog.Handler that wraps another handler and counts
// records at or above a threshold level.
type MetricsHandler struct {
	inner    slog.Handler
	recorder Recorder
	level    slog.Level // Minimum level to count (default: WARN)
	category string     // set by WithAttrs when a "category" attr is bound
}

// NewMetricsHandler creates a MetricsHandler counting WARN and above.
func NewMetricsHandler(inner slog.Handler, recorder Recorder) *MetricsHandler {
	return NewMetricsHandlerWithLevel(inner, recorder, slog.LevelWarn)
}

// NewMetricsHandlerWithLevel creates a MetricsHandler with a custom minimum level.
func NewMetricsHandlerWithLevel(inner slog.Handler, recorder Recorder, level slog.Level) *MetricsHandler {
	return &MetricsHandler{inner: inner, recorder: recorder, level: level}
}

// Enabled implements slog.Handler.
func (h *MetricsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *MetricsHandler) Handle(ctx context.Context, r slog.Record) error {
	// Count even if the inner handler fails; the record was still emitted.
	if r.Level >= h.level && h.recorder != nil {
		h.recorder.IncrementLogEvents(levelName(r.Level), h.categoryOf(r))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *MetricsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	category := h.category
	for _, a := range attrs {
		if a.Key == "category" {
			category = a.Value.String()
		}
	}
	return &MetricsHandler{
		inner:    h.inner.WithAttrs(attrs),
		recorder: h.recorder,
		level:    h.level,
		category: category,
	}
}

// WithGroup implements slog.Handler.
func (h *MetricsHandler) WithGroup(name string) slog.Handler {
	return &MetricsHandler{
		inner:    h.inner.WithGroup(name),
		recorder: h.recorder,
		level:    h.level,
		category: h.category,
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// categoryOf returns the record's "category" attribute, the one bound with
// WithAttrs, or a category inferred from the message.
func (h *MetricsHandler) categoryOf(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}
	if h.category != "" {
		return h.category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "prismic") || strings.Contains(msg, "cms") || strings.Contains(msg, "document"):
		return CategoryCMS
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	case strings.Contains(msg, "template") || strings.Contains(msg, "render"):
		return CategoryRender
	case strings.Contains(msg, "preview"):
		return CategoryPreview
	case strings.Contains(msg, "request") || strings.Contains(msg, "rate limit"):
		return CategoryHTTP
	default:
		return CategorySystem
	}
}
