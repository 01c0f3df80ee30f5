// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/spacetraveling/internal/seo"
)

// PathLister lists the UIDs of the published posts.
type PathLister interface {
	StaticPaths(ctx context.Context) ([]string, error)
}

// SEOHandler serves the crawler-facing files.
type SEOHandler struct {
	paths    PathLister
	siteURL  string
	robots   *seo.RobotsBuilder
	security *seo.SecurityTxtBuilder
	logger   *slog.Logger
}

// NewSEOHandler creates a new SEO handler.
func NewSEOHandler(paths PathLister, siteURL string, robots seo.RobotsConfig, security seo.SecurityTxtConfig, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	robots.SiteURL = siteURL
	security.SiteURL = siteURL
	return &SEOHandler{
		paths:    paths,
		siteURL:  siteURL,
		robots:   seo.NewRobotsBuilder(robots),
		security: seo.NewSecurityTxtBuilder(security),
		logger:   logger,
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	uids, err := h.paths.StaticPaths(r.Context())
	if err != nil {
		logAndHTTPError(w, "Service Unavailable", http.StatusServiceUnavailable, "failed to list posts for sitemap", "error", err)
		return
	}

	data, err := seo.GenerateSitemap(h.siteURL, uids)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set(HeaderContentType, contentTypeXML)
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(HeaderContentType, contentTypeText)
	_, _ = w.Write([]byte(h.robots.Build()))
}

// SecurityTxt handles GET /.well-known/security.txt. Without a configured
// contact the file does not exist.
func (h *SEOHandler) SecurityTxt(w http.ResponseWriter, r *http.Request) {
	if !h.security.Enabled() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set(HeaderContentType, contentTypeText)
	_, _ = w.Write([]byte(h.security.Build()))
}
