// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com"}).Build()

	if !strings.HasPrefix(content, "User-agent: *\n") {
		t.Error("Build() should start with 'User-agent: *'")
	}
	for _, path := range []string{"/api/", "/posts", "/health", "/metrics", "/*?more=", "/*?cursor="} {
		if !strings.Contains(content, "Disallow: "+path+"\n") {
			t.Errorf("Build() should disallow %q", path)
		}
	}
	if strings.Contains(content, "Disallow: /\n") {
		t.Error("Build() should not disallow everything by default")
	}
	if !strings.Contains(content, "Allow: /\n") {
		t.Error("Build() should contain 'Allow: /'")
	}
	if !strings.Contains(content, "Sitemap: https://example.com/sitemap.xml") {
		t.Error("Build() should contain sitemap reference")
	}
}

func TestRobotsBuilderBuildDisallowAll(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{SiteURL: "https://staging.example.com", DisallowAll: true}).Build()

	if content != "User-agent: *\nDisallow: /\n" {
		t.Errorf("Build() = %q", content)
	}
}

func TestRobotsBuilderBuildExtraRules(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{"without newline", "Crawl-delay: 10", "\nCrawl-delay: 10\n"},
		{"with newline", "Crawl-delay: 10\n", "\nCrawl-delay: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := NewRobotsBuilder(RobotsConfig{ExtraRules: tt.extra}).Build()
			if !strings.Contains(content, tt.want) {
				t.Errorf("Build() = %q, want it to contain %q", content, tt.want)
			}
			if strings.Contains(content, "Crawl-delay: 10\n\n\n") {
				t.Error("extra rules should not add blank lines")
			}
		})
	}
}

func TestRobotsBuilderBuildWithCustomDisallowPaths(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/drafts"}}).Build()

	if !strings.Contains(content, "Disallow: /api/\n") {
		t.Error("defaults should be kept")
	}
	if !strings.Contains(content, "Disallow: /drafts\n") {
		t.Error("custom path missing")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("no sitemap reference without a site URL")
	}
}

func TestRobotsBuilderSkipsBlankAndRepeatedPaths(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/api/", " ", "/drafts", "/drafts"}}).Build()

	if n := strings.Count(content, "Disallow: /api/\n"); n != 1 {
		t.Errorf("/api/ disallowed %d times, want 1", n)
	}
	if n := strings.Count(content, "Disallow: /drafts\n"); n != 1 {
		t.Errorf("/drafts disallowed %d times, want 1", n)
	}
	if strings.Contains(content, "Disallow: \n") {
		t.Error("blank path should be skipped")
	}
}

func TestRobotsBuilderDoesNotMutateDefaults(t *testing.T) {
	_ = NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/x"}}).Build()
	if len(defaultDisallow) != 6 {
		t.Errorf("defaultDisallow mutated: %v", defaultDisallow)
	}
}

func TestRobotsBuilderSitemapTrailingSlash(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com/"}).Build()
	if !strings.HasSuffix(content, "\nSitemap: https://example.com/sitemap.xml\n") {
		t.Errorf("Build() = %q", content)
	}
}
