// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // Location() must work on hosts without a zoneinfo database

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/olegiv/spacetraveling/internal/i18n"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"SPACETRAVELING_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SPACETRAVELING_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SPACETRAVELING_ENV" envDefault:"development"`
	LogLevel   string `env:"SPACETRAVELING_LOG_LEVEL" envDefault:"info"`
	SiteName   string `env:"SPACETRAVELING_SITE_NAME" envDefault:"spacetraveling"`
	SiteURL    string `env:"SPACETRAVELING_SITE_URL" envDefault:"http://localhost:8080"`
	Locale     string `env:"SPACETRAVELING_LOCALE" envDefault:"pt-BR"`
	Timezone   string `env:"SPACETRAVELING_TIMEZONE" envDefault:"America/Sao_Paulo"`

	// SEO
	SiteDescription string   `env:"SPACETRAVELING_SITE_DESCRIPTION"`
	NoIndex         bool     `env:"SPACETRAVELING_NO_INDEX"`                          // robots.txt blocks all crawlers (staging)
	SecurityContact []string `env:"SPACETRAVELING_SECURITY_CONTACT" envSeparator:","` // empty disables /.well-known/security.txt

	// Prismic repository
	PrismicEndpoint    string  `env:"SPACETRAVELING_PRISMIC_ENDPOINT,required"` // e.g. https://repo.cdn.prismic.io/api/v2
	PrismicAccessToken string  `env:"SPACETRAVELING_PRISMIC_ACCESS_TOKEN"`
	PrismicType        string  `env:"SPACETRAVELING_PRISMIC_TYPE" envDefault:"posts"`
	PrismicTimeout     int     `env:"SPACETRAVELING_PRISMIC_TIMEOUT" envDefault:"10"` // seconds
	PrismicRate        float64 `env:"SPACETRAVELING_PRISMIC_RATE" envDefault:"20"`    // requests per second

	// Listing and generation
	PageSize            int  `env:"SPACETRAVELING_PAGE_SIZE" envDefault:"1"`
	StaticPathsLimit    int  `env:"SPACETRAVELING_STATIC_PATHS_LIMIT" envDefault:"100"`
	RevalidateSeconds   int  `env:"SPACETRAVELING_REVALIDATE_SECONDS" envDefault:"300"`
	PostCacheTTL        int  `env:"SPACETRAVELING_POST_CACHE_TTL" envDefault:"3600"` // seconds
	FallbackPlaceholder bool `env:"SPACETRAVELING_FALLBACK_PLACEHOLDER" envDefault:"true"`
	MaxLoadMore         int  `env:"SPACETRAVELING_MAX_LOAD_MORE" envDefault:"20"`

	// Load-more endpoint rate limit
	LoadMoreRate  float64 `env:"SPACETRAVELING_LOAD_MORE_RATE" envDefault:"5"` // requests per second per IP
	LoadMoreBurst int     `env:"SPACETRAVELING_LOAD_MORE_BURST" envDefault:"10"`

	// Cache configuration
	RedisURL     string `env:"SPACETRAVELING_REDIS_URL"`                                 // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SPACETRAVELING_CACHE_PREFIX" envDefault:"spacetraveling:"` // Redis key prefix
	CacheMaxSize int    `env:"SPACETRAVELING_CACHE_MAX_SIZE" envDefault:"10000"`         // Max memory cache entries

	// Comments (utterances)
	CommentsRepo      string `env:"SPACETRAVELING_COMMENTS_REPO"` // owner/name; empty disables the widget
	CommentsIssueTerm string `env:"SPACETRAVELING_COMMENTS_ISSUE_TERM" envDefault:"pathname"`
	CommentsLabel     string `env:"SPACETRAVELING_COMMENTS_LABEL" envDefault:"comment"`
	CommentsTheme     string `env:"SPACETRAVELING_COMMENTS_THEME" envDefault:"github-dark"`

	MetricsEnabled bool `env:"SPACETRAVELING_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CommentsEnabled returns true if a comments repository is configured.
func (c Config) CommentsEnabled() bool {
	return c.CommentsRepo != ""
}

// Revalidate is the listing staleness window.
func (c Config) Revalidate() time.Duration {
	return time.Duration(c.RevalidateSeconds) * time.Second
}

// PostTTL is how long a generated post page stays cached.
func (c Config) PostTTL() time.Duration {
	return time.Duration(c.PostCacheTTL) * time.Second
}

// PrismicRequestTimeout is the per-request timeout for the content API.
func (c Config) PrismicRequestTimeout() time.Duration {
	return time.Duration(c.PrismicTimeout) * time.Second
}

// Location loads the configured display timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	u, err := url.Parse(cfg.PrismicEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("SPACETRAVELING_PRISMIC_ENDPOINT must be an absolute http(s) URL, got %q", cfg.PrismicEndpoint)
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("SPACETRAVELING_PAGE_SIZE must be at least 1, got %d", cfg.PageSize)
	}
	if cfg.StaticPathsLimit < 1 || cfg.StaticPathsLimit > 100 {
		return nil, fmt.Errorf("SPACETRAVELING_STATIC_PATHS_LIMIT must be between 1 and 100, got %d", cfg.StaticPathsLimit)
	}
	if cfg.RevalidateSeconds < 1 {
		return nil, fmt.Errorf("SPACETRAVELING_REVALIDATE_SECONDS must be at least 1, got %d", cfg.RevalidateSeconds)
	}
	if cfg.MaxLoadMore < 0 {
		return nil, fmt.Errorf("SPACETRAVELING_MAX_LOAD_MORE must not be negative, got %d", cfg.MaxLoadMore)
	}

	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("SPACETRAVELING_LOCALE: %w", err)
	}
	if !i18n.IsSupported(cfg.Locale) {
		return nil, fmt.Errorf("SPACETRAVELING_LOCALE %q is not supported (supported: %s)",
			cfg.Locale, strings.Join(i18n.SupportedLanguages, ", "))
	}
	cfg.Locale = i18n.MatchLanguage(cfg.Locale)
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("SPACETRAVELING_TIMEZONE: %w", err)
	}

	return cfg, nil
}
