// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the listing page.
	RouteRoot = "/"
	// RoutePosts is the load-more JSON endpoint.
	RoutePosts = "/posts"
	// RoutePost is the post page.
	RoutePost = "/post/{slug}"
	// RoutePreview starts a preview session.
	RoutePreview = "/api/preview"
	// RouteExitPreview ends a preview session.
	RouteExitPreview = "/api/exit-preview"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness route.
	RouteHealthLive = "/health/live"
	// RouteSitemap is the sitemap route.
	RouteSitemap = "/sitemap.xml"
	// RouteRobots is the robots.txt route.
	RouteRobots = "/robots.txt"
	// RouteSecurityTxt is the RFC 9116 security.txt route.
	RouteSecurityTxt = "/.well-known/security.txt"
	// RouteMetrics is the Prometheus scrape route.
	RouteMetrics = "/metrics"
	// RouteStatic is the embedded asset route.
	RouteStatic = "/static/dist/*"
	// StaticPrefix is stripped before looking assets up.
	StaticPrefix = "/static/dist/"
)

const (
	redirectHome = RouteRoot

	// placeholderRefreshSecs is how often the loading page reloads itself.
	placeholderRefreshSecs = 2
)

// Header constants.
const (
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
	contentTypeJSON   = "application/json"
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeXML    = "application/xml; charset=utf-8"
)
