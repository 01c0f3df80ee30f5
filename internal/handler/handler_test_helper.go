// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/spacetraveling/internal/cache"
	"github.com/olegiv/spacetraveling/internal/comments"
	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/middleware"
	"github.com/olegiv/spacetraveling/internal/prismic"
	"github.com/olegiv/spacetraveling/internal/prismic/prismictest"
	"github.com/olegiv/spacetraveling/internal/render"
	"github.com/olegiv/spacetraveling/internal/seo"
	"github.com/olegiv/spacetraveling/internal/service"
	"github.com/olegiv/spacetraveling/internal/session"
	"github.com/olegiv/spacetraveling/web"
)

// renderRecorder collects page render observations.
type renderRecorder struct {
	mu    sync.Mutex
	pages []string
}

func (r *renderRecorder) RecordPageRender(page string, success bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if success {
		r.pages = append(r.pages, page)
	} else {
		r.pages = append(r.pages, page+":failed")
	}
}

func (r *renderRecorder) rendered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pages...)
}

// testEnv wires the frontend against an in-process fake content API.
type testEnv struct {
	srv      *prismictest.Server
	client   *prismic.Client
	store    cache.Cacher
	blog     *service.BlogService
	sessions *session.Manager
	frontend *FrontendHandler
	metrics  *renderRecorder
	router   http.Handler
}

func testDocs() []prismictest.Doc {
	return []prismictest.Doc{
		prismictest.Post("d1", "como-utilizar-hooks", "Como utilizar Hooks", "2021-03-15T19:25:28+0000", "2021-03-15T19:25:28+0000"),
		prismictest.Post("d2", "criando-um-app-cra-do-zero", "Criando um app CRA do zero", "2021-03-20T10:00:00+0000", "2021-03-25T17:05:00+0000"),
		prismictest.Post("d3", "mapas-com-react", "Mapas com React", "2021-03-22T10:00:00+0000", "2021-03-22T10:00:00+0000"),
	}
}

func testSite() seo.SiteConfig {
	return seo.SiteConfig{
		SiteName:        "spacetraveling",
		SiteURL:         "https://blog.example.com",
		SiteDescription: "Um blog sobre programação",
	}
}

// newTestEnv builds the environment. configure may adjust the frontend
// options before the handler is created.
func newTestEnv(t *testing.T, configure func(*FrontendOptions), docs ...prismictest.Doc) *testEnv {
	t.Helper()
	require.NoError(t, i18n.Init(nil))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := prismictest.NewServer(t, docs...)
	client, err := prismic.New(prismic.Options{Endpoint: srv.Endpoint(), RequestsPerSecond: 1000, Logger: logger})
	require.NoError(t, err)

	store := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = store.Close() })

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	blog := service.NewBlogService(client, store, service.BlogOptions{
		DocType:    "posts",
		PageSize:   1,
		ListingTTL: time.Minute,
		PostTTL:    time.Hour,
		Language:   "pt-BR",
		Location:   loc,
		Logger:     logger,
	})

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates(),
		Language:    "pt-BR",
		Location:    loc,
		SiteName:    "spacetraveling",
	})
	require.NoError(t, err)

	sessions := session.New(true)
	t.Cleanup(sessions.Close)

	metrics := &renderRecorder{}
	opts := FrontendOptions{
		Site:        testSite(),
		MaxLoadMore: 20,
		Comments:    comments.Widget{Repo: "joseph/spacetraveling-comments"},
		Logger:      logger,
		Metrics:     metrics,
	}
	if configure != nil {
		configure(&opts)
	}
	frontend := NewFrontendHandler(blog, renderer, sessions, opts)
	t.Cleanup(frontend.Wait)

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave)
	r.Get(RouteRoot, frontend.Home)
	r.With(middleware.NewRateLimiter(1000, 1000).Middleware()).Get(RoutePosts, frontend.Posts)
	r.Get(RoutePost, frontend.Post)
	r.Get(RoutePreview, frontend.Preview)
	r.Get(RouteExitPreview, frontend.ExitPreview)
	r.NotFound(frontend.NotFound)

	return &testEnv{
		srv:      srv,
		client:   client,
		store:    store,
		blog:     blog,
		sessions: sessions,
		frontend: frontend,
		metrics:  metrics,
		router:   r,
	}
}

// get serves a GET request through the router, sending cookies.
func (e *testEnv) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.10:41000"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
