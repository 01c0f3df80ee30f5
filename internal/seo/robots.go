// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"slices"
	"strings"
)

// defaultDisallow lists the endpoints that never hold indexable content.
// The ?more= and ?cursor= patterns keep crawlers off the accumulated copies
// of the home page.
var defaultDisallow = []string{
	"/api/",
	"/posts",
	"/health",
	"/metrics",
	"/*?more=",
	"/*?cursor=",
}

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for sitemap reference
	DisallowAll   bool     // Block all crawlers (for staging sites)
	ExtraRules    string   // Additional custom rules
	DisallowPaths []string // Paths to disallow in addition to the defaults
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	lines := []string{"User-agent: *"}

	if b.config.DisallowAll {
		lines = append(lines, "Disallow: /")
	} else {
		for _, path := range b.disallowed() {
			lines = append(lines, "Disallow: "+path)
		}
		lines = append(lines, "Allow: /")
	}

	if extra := strings.TrimRight(b.config.ExtraRules, "\n"); extra != "" {
		lines = append(lines, "", extra)
	}

	if b.config.SiteURL != "" && !b.config.DisallowAll {
		lines = append(lines, "", "Sitemap: "+strings.TrimSuffix(b.config.SiteURL, "/")+"/sitemap.xml")
	}

	return strings.Join(lines, "\n") + "\n"
}

// disallowed returns the defaults followed by the configured paths, without
// blanks or repeats.
func (b *RobotsBuilder) disallowed() []string {
	paths := slices.Clone(defaultDisallow)
	for _, p := range b.config.DisallowPaths {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(paths, p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
