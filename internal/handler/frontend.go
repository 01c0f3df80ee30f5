// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the blog.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/spacetraveling/internal/comments"
	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/middleware"
	"github.com/olegiv/spacetraveling/internal/post"
	"github.com/olegiv/spacetraveling/internal/prismic"
	"github.com/olegiv/spacetraveling/internal/render"
	"github.com/olegiv/spacetraveling/internal/seo"
	"github.com/olegiv/spacetraveling/internal/service"
	"github.com/olegiv/spacetraveling/internal/util"
)

// Blog is the content the frontend serves.
type Blog interface {
	Listing(ctx context.Context, cursor, ref string, steps int) (post.Page, error)
	NextPage(ctx context.Context, cursor, ref string) (post.Page, error)
	Post(ctx context.Context, uid, ref string) (*post.Detail, error)
	Generate(ctx context.Context, uid string) (*post.Detail, error)
	IsGenerated(ctx context.Context, uid string) bool
	ResolvePreview(ctx context.Context, ref, documentID string) (string, error)
	Language() string
	Location() *time.Location
}

// PreviewSessions stores the preview ref of a visitor.
type PreviewSessions interface {
	PreviewRef(ctx context.Context) string
	StartPreview(ctx context.Context, ref string) error
	ExitPreview(ctx context.Context) error
}

// Recorder receives page render observations.
type Recorder interface {
	RecordPageRender(page string, success bool, duration time.Duration)
}

// FrontendOptions configure a FrontendHandler.
type FrontendOptions struct {
	Site                seo.SiteConfig
	MaxLoadMore         int
	FallbackPlaceholder bool
	Comments            comments.Widget
	Logger              *slog.Logger
	Metrics             Recorder
}

// FrontendHandler serves the public blog pages.
type FrontendHandler struct {
	blog     Blog
	renderer *render.Renderer
	sessions PreviewSessions
	opts     FrontendOptions
	logger   *slog.Logger

	// background post generations started by the placeholder
	wg sync.WaitGroup
}

// NewFrontendHandler creates a new FrontendHandler. sessions may be nil, which
// disables preview mode.
func NewFrontendHandler(blog Blog, renderer *render.Renderer, sessions PreviewSessions, opts FrontendOptions) *FrontendHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{
		blog:     blog,
		renderer: renderer,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}
}

// Wait blocks until background generations started by Post have finished.
func (h *FrontendHandler) Wait() {
	h.wg.Wait()
}

// postItem is one listing entry of the load-more response.
type postItem struct {
	ID                   string  `json:"id"`
	UID                  string  `json:"uid,omitempty"`
	FirstPublicationDate *string `json:"first_publication_date"`
	DisplayDate          string  `json:"display_date"`
	Title                string  `json:"title"`
	Subtitle             *string `json:"subtitle"`
	Author               string  `json:"author"`
}

// postsResponse is the load-more response. NextPage is null on the last page.
type postsResponse struct {
	Results  []postItem `json:"results"`
	NextPage *string    `json:"next_page"`
}

// Home handles the listing page. ?more=N applies N load-more steps server
// side so the page works without JavaScript; ?cursor= starts the listing at
// a later page once the step cap is reached.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	more := h.parseMore(r)
	cursor := r.URL.Query().Get("cursor")
	ref := h.previewRef(r)
	if ref != "" {
		middleware.SetNoStore(w)
	}

	page, err := h.blog.Listing(ctx, cursor, ref, more)
	switch {
	case ref != "" && prismic.IsNotFound(err):
		// The preview ref expired; drop back to published content.
		h.exitPreview(r)
		http.Redirect(w, r, redirectHome, http.StatusTemporaryRedirect)
		return
	case errors.Is(err, prismic.ErrInvalidCursor):
		http.Redirect(w, r, redirectHome, http.StatusTemporaryRedirect)
		return
	case err != nil:
		h.logger.Error("failed to load listing", "more", more, "cursor", cursor != "", "preview", ref != "", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "error.server")
		return
	}

	data := h.templateData(seo.BuildMeta(nil, &h.opts.Site), ref != "")
	data.Title = i18n.T(h.blog.Language(), "site.home_title", h.opts.Site.SiteName)
	data.Data = render.HomeView{
		Page:     page,
		More:     more,
		MaxMore:  h.opts.MaxLoadMore,
		NextHref: loadMoreHref(cursor, more, h.opts.MaxLoadMore, page.NextCursor),
	}
	h.renderPage(w, r, http.StatusOK, render.PageHome, data)
}

// loadMoreHref is the no-JavaScript target of the load-more button: one more
// step while under the cap, then a fresh listing that starts at next.
func loadMoreHref(cursor string, more, maxMore int, next string) string {
	if next == "" {
		return ""
	}
	v := url.Values{}
	if more < maxMore {
		if cursor != "" {
			v.Set("cursor", cursor)
		}
		v.Set("more", strconv.Itoa(more+1))
	} else {
		v.Set("cursor", next)
	}
	return redirectHome + "?" + v.Encode()
}

// parseMore reads ?more, clamped to [0, MaxLoadMore]. Garbage counts as 0.
func (h *FrontendHandler) parseMore(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("more"))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, h.opts.MaxLoadMore)
}

// Posts handles the load-more endpoint: the page a cursor points at, as JSON.
func (h *FrontendHandler) Posts(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	if cursor == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_cursor", "Missing cursor.")
		return
	}

	page, err := h.blog.NextPage(r.Context(), cursor, h.previewRef(r))
	switch {
	case errors.Is(err, prismic.ErrInvalidCursor):
		writeJSONError(w, http.StatusBadRequest, "invalid_cursor", "Invalid cursor.")
		return
	case err != nil:
		h.logger.Error("failed to load next page", "error", err)
		writeJSONError(w, http.StatusBadGateway, "upstream_error", "Could not load more posts.")
		return
	}

	writeJSON(w, http.StatusOK, h.postsResponse(page))
}

func (h *FrontendHandler) postsResponse(page post.Page) postsResponse {
	lang, loc := h.blog.Language(), h.blog.Location()

	resp := postsResponse{Results: make([]postItem, 0, len(page.Items))}
	for _, s := range page.Items {
		item := postItem{
			ID:          s.ID,
			UID:         s.UID,
			DisplayDate: post.DisplayDate(lang, loc, s.FirstPublishedAt),
			Title:       s.Title,
			Subtitle:    s.Subtitle,
			Author:      s.Author,
		}
		if s.FirstPublishedAt != nil {
			ts := s.FirstPublishedAt.UTC().Format(time.RFC3339)
			item.FirstPublicationDate = &ts
		}
		resp.Results = append(resp.Results, item)
	}
	if page.HasMore() {
		next := page.NextCursor
		resp.NextPage = &next
	}
	return resp
}

// Post handles the post page. Unknown or malformed slugs redirect home. A
// post that was never generated gets a self-refreshing placeholder while it
// is generated in the background.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "slug")
	if !util.IsValidUID(uid) {
		http.Redirect(w, r, redirectHome, http.StatusTemporaryRedirect)
		return
	}

	ref := h.previewRef(r)
	if ref != "" {
		middleware.SetNoStore(w)
	} else if h.opts.FallbackPlaceholder && !h.blog.IsGenerated(ctx, uid) {
		h.generateInBackground(ctx, uid)
		h.renderPlaceholder(w, r)
		return
	}

	detail, err := h.blog.Post(ctx, uid, ref)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		http.Redirect(w, r, redirectHome, http.StatusTemporaryRedirect)
		return
	case errors.Is(err, post.ErrMalformedDocument):
		h.logger.Error("malformed post document", "uid", uid, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "error.server")
		return
	case err != nil:
		h.logger.Error("failed to load post", "uid", uid, "preview", ref != "", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "error.server")
		return
	}

	pd := postData(detail, ref != "")
	data := h.templateData(seo.BuildMeta(pd, &h.opts.Site), ref != "")
	data.Title = i18n.T(h.blog.Language(), "site.post_title", detail.Post.Title, h.opts.Site.SiteName)
	data.Schema = seo.BuildArticleSchema(pd, &h.opts.Site)
	data.Data = render.PostView{Detail: detail, Comments: h.opts.Comments.HTML()}
	h.renderPage(w, r, http.StatusOK, render.PagePost, data)
}

func postData(d *post.Detail, preview bool) *seo.PostData {
	p := d.Post
	pd := &seo.PostData{
		Title:       p.Title,
		UID:         p.UID,
		Author:      p.Author,
		PublishedAt: p.FirstPublishedAt,
		ModifiedAt:  p.LastPublishedAt,
		Preview:     preview,
	}
	if p.Subtitle != nil {
		pd.Subtitle = *p.Subtitle
	}
	if p.BannerURL != nil {
		pd.BannerURL = *p.BannerURL
	}
	return pd
}

// generateInBackground starts generation of uid. The work outlives the
// request; Wait joins it on shutdown.
func (h *FrontendHandler) generateInBackground(ctx context.Context, uid string) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if _, err := h.blog.Generate(context.WithoutCancel(ctx), uid); err != nil && !errors.Is(err, service.ErrPostNotFound) {
			h.logger.Warn("background post generation failed", "uid", uid, "error", err)
		}
	}()
}

func (h *FrontendHandler) renderPlaceholder(w http.ResponseWriter, r *http.Request) {
	middleware.SetNoStore(w)
	lang := h.blog.Language()
	data := h.templateData(&seo.Meta{Title: i18n.T(lang, "post.loading"), Robots: "noindex,nofollow"}, false)
	data.RefreshSecs = placeholderRefreshSecs
	h.renderPage(w, r, http.StatusOK, render.PageLoading, data)
}

// Preview starts a preview session for ?token= and redirects to the
// previewed document.
func (h *FrontendHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		h.renderNotFound(w, r)
		return
	}

	q := r.URL.Query()
	ref := q.Get("token")
	if ref == "" {
		writeJSONError(w, http.StatusUnauthorized, "invalid_token", "Invalid preview token.")
		return
	}

	path, err := h.blog.ResolvePreview(r.Context(), ref, q.Get("documentId"))
	if err != nil {
		h.logger.Error("failed to resolve preview document", "document_id", q.Get("documentId"), "error", err)
		h.renderError(w, r, http.StatusBadGateway, "error.server")
		return
	}

	if err := h.sessions.StartPreview(r.Context(), ref); err != nil {
		logAndInternalError(w, "failed to start preview session", "error", err)
		return
	}
	h.logger.Info("preview session started", "path", path)

	middleware.SetNoStore(w)
	http.Redirect(w, r, path, http.StatusTemporaryRedirect)
}

// ExitPreview ends the preview session and redirects home.
func (h *FrontendHandler) ExitPreview(w http.ResponseWriter, r *http.Request) {
	h.exitPreview(r)
	middleware.SetNoStore(w)
	http.Redirect(w, r, redirectHome, http.StatusTemporaryRedirect)
}

func (h *FrontendHandler) exitPreview(r *http.Request) {
	if h.sessions == nil {
		return
	}
	if err := h.sessions.ExitPreview(r.Context()); err != nil {
		h.logger.Warn("failed to end preview session", "error", err)
	}
}

// previewRef returns the visitor's preview ref, or "" outside preview mode.
// Returns "" (without panicking) if session data is not loaded into context.
func (h *FrontendHandler) previewRef(r *http.Request) (ref string) {
	if h.sessions == nil {
		return ""
	}
	defer func() {
		if rec := recover(); rec != nil {
			ref = ""
		}
	}()
	return h.sessions.PreviewRef(r.Context())
}

// NotFound handles unknown routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}
