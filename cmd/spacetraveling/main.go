// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/spacetraveling/internal/cache"
	"github.com/olegiv/spacetraveling/internal/comments"
	"github.com/olegiv/spacetraveling/internal/config"
	"github.com/olegiv/spacetraveling/internal/handler"
	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/logging"
	"github.com/olegiv/spacetraveling/internal/metrics"
	"github.com/olegiv/spacetraveling/internal/middleware"
	"github.com/olegiv/spacetraveling/internal/prismic"
	"github.com/olegiv/spacetraveling/internal/render"
	"github.com/olegiv/spacetraveling/internal/scheduler"
	"github.com/olegiv/spacetraveling/internal/seo"
	"github.com/olegiv/spacetraveling/internal/service"
	"github.com/olegiv/spacetraveling/internal/session"
	"github.com/olegiv/spacetraveling/internal/version"
	"github.com/olegiv/spacetraveling/web"
)

const (
	revalidateJob   = "revalidate"
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
	staticMaxAge    = 31536000 // one year
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "spacetraveling - blog frontend for a Prismic repository\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_PRISMIC_ENDPOINT     Prismic API entry point (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_PRISMIC_ACCESS_TOKEN Access token for private repositories\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_REDIS_URL            Redis URL for a shared page cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACETRAVELING_COMMENTS_REPO        GitHub repository for utterances comments (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("spacetraveling %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	// Count WARN and ERROR records on /metrics
	provider := metrics.NewProvider()
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewMetricsHandler(textHandler, provider))
	slog.SetDefault(logger)
	slog.Info("starting spacetraveling", "version", version.Current().String())

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	ctx := context.Background()

	store := cache.New(ctx, cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.PostTTL(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	prismic.Configure(prismic.Options{
		Endpoint:          cfg.PrismicEndpoint,
		AccessToken:       cfg.PrismicAccessToken,
		Timeout:           cfg.PrismicRequestTimeout(),
		RequestsPerSecond: cfg.PrismicRate,
		Logger:            logger,
		Metrics:           provider,
	})
	client, err := prismic.Default()
	if err != nil {
		return fmt.Errorf("creating prismic client: %w", err)
	}
	slog.Info("prismic client configured", "endpoint", client.Endpoint(), "type", cfg.PrismicType)

	blog := service.NewBlogService(client, store, service.BlogOptions{
		DocType:          cfg.PrismicType,
		PageSize:         cfg.PageSize,
		StaticPathsLimit: cfg.StaticPathsLimit,
		ListingTTL:       cfg.Revalidate(),
		PostTTL:          cfg.PostTTL(),
		Language:         cfg.Locale,
		Location:         loc,
		Logger:           logger,
		Metrics:          provider,
	})

	// Revalidation keeps the listing fresh and pre-generates new posts
	sched := scheduler.New(logger)
	err = sched.Register(revalidateJob, "Refresh the listing and generate new posts", scheduler.Every(cfg.Revalidate()),
		func(ctx context.Context) error {
			generated, err := blog.Revalidate(ctx)
			if generated > 0 {
				slog.Info("posts generated", "count", generated)
			}
			return err
		})
	if err != nil {
		return fmt.Errorf("registering revalidation: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Warm the cache without holding up startup
	go func() {
		if err := sched.TriggerNow(ctx, revalidateJob); err != nil {
			slog.Warn("initial revalidation failed", "error", err)
		}
	}()

	sessionManager := session.New(cfg.IsDevelopment())
	defer sessionManager.Close()

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates(),
		Language:    cfg.Locale,
		Location:    loc,
		SiteName:    cfg.SiteName,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	widget := comments.Widget{
		Repo:      cfg.CommentsRepo,
		IssueTerm: cfg.CommentsIssueTerm,
		Label:     cfg.CommentsLabel,
		Theme:     cfg.CommentsTheme,
	}
	if cfg.CommentsEnabled() && !widget.Enabled() {
		slog.Warn("comments disabled: invalid repository", "repo", cfg.CommentsRepo)
	}

	frontendHandler := handler.NewFrontendHandler(blog, renderer, sessionManager, handler.FrontendOptions{
		Site: seo.SiteConfig{
			SiteName:        cfg.SiteName,
			SiteURL:         cfg.SiteURL,
			SiteDescription: cfg.SiteDescription,
		},
		MaxLoadMore:         cfg.MaxLoadMore,
		FallbackPlaceholder: cfg.FallbackPlaceholder,
		Comments:            widget,
		Logger:              logger,
		Metrics:             provider,
	})
	healthHandler := handler.NewHealthHandler(client, store)
	seoHandler := handler.NewSEOHandler(blog, cfg.SiteURL,
		seo.RobotsConfig{DisallowAll: cfg.NoIndex},
		seo.SecurityTxtConfig{Contact: cfg.SecurityContact},
		logger)

	loadMoreLimiter := middleware.NewRateLimiter(cfg.LoadMoreRate, cfg.LoadMoreBurst).
		OnLimit(func(ip string) {
			slog.Warn("load-more rate limit exceeded", "ip", ip)
		})

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                  // Gzip compression with level 5
	r.Use(chimw.GetHead)                      // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(requestTimeout)) // Buffered; 503 once the deadline passes
	r.Use(middleware.StripTrailingSlash)      // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	// Health checks are never cached
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get(handler.RouteHealth, healthHandler.Health)
		r.Get(handler.RouteHealthLive, healthHandler.Liveness)
	})

	if cfg.MetricsEnabled {
		r.With(middleware.NoStore).Handle(handler.RouteMetrics, promhttp.Handler())
	}

	// Pages; shared caches may serve them stale while the next revalidation runs
	r.With(middleware.PageCache(cfg.Revalidate(), cfg.Revalidate())).Get(handler.RouteRoot, frontendHandler.Home)
	r.With(middleware.PageCache(cfg.PostTTL(), cfg.Revalidate())).Get(handler.RoutePost, frontendHandler.Post)
	r.With(loadMoreLimiter.Middleware(), middleware.NoStore).Get(handler.RoutePosts, frontendHandler.Posts)

	// Preview mode
	r.Get(handler.RoutePreview, frontendHandler.Preview)
	r.Get(handler.RouteExitPreview, frontendHandler.ExitPreview)

	// Crawler files
	r.With(middleware.PageCache(cfg.Revalidate(), 0)).Get(handler.RouteSitemap, seoHandler.Sitemap)
	r.Get(handler.RouteRobots, seoHandler.Robots)
	r.Get(handler.RouteSecurityTxt, seoHandler.SecurityTxt)

	// Static assets: cache for 1 year
	staticHandler := middleware.StaticCache(staticMaxAge)(http.StripPrefix(handler.StaticPrefix, http.FileServer(http.FS(web.Static()))))
	r.Handle(handler.RouteStatic, staticHandler)

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let placeholder generations finish writing to the cache
	frontendHandler.Wait()

	slog.Info("server stopped")
	return nil
}
