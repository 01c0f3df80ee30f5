// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/middleware"
	"github.com/olegiv/spacetraveling/internal/render"
	"github.com/olegiv/spacetraveling/internal/seo"
)

// templateData fills the layout fields from meta.
func (h *FrontendHandler) templateData(meta *seo.Meta, preview bool) render.TemplateData {
	return render.TemplateData{
		Title:       meta.Title,
		Description: meta.Description,
		Canonical:   meta.Canonical,
		Image:       meta.OGImage,
		OGType:      meta.OGType,
		Robots:      meta.Robots,
		SiteName:    h.opts.Site.SiteName,
		Lang:        h.blog.Language(),
		Preview:     preview,
	}
}

// renderPage renders a page template, recording how long it took. A broken
// template is logged and answered with a plain 500.
func (h *FrontendHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	start := time.Now()
	err := h.renderer.Render(w, status, name, data)
	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordPageRender(name, err == nil, time.Since(start))
	}
	if err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "path", r.URL.Path, "error", err)
	}
}

// renderNotFound renders the 404 page.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	lang := h.blog.Language()
	data := h.templateData(&seo.Meta{Title: i18n.T(lang, "error.not_found"), Robots: "noindex,follow"}, false)
	data.Data = render.ErrorView{Status: http.StatusNotFound, MessageKey: "error.not_found"}
	h.renderPage(w, r, http.StatusNotFound, render.PageNotFound, data)
}

// renderError renders the generic error page. Error pages are never cached.
func (h *FrontendHandler) renderError(w http.ResponseWriter, r *http.Request, statusCode int, messageKey string) {
	middleware.SetNoStore(w)
	data := h.templateData(&seo.Meta{Title: http.StatusText(statusCode), Robots: "noindex,nofollow"}, false)
	data.Data = render.ErrorView{Status: statusCode, MessageKey: messageKey}
	h.renderPage(w, r, statusCode, render.PageError, data)
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}
