// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo provides SEO utilities for building meta tags, structured data,
// sitemaps and robots.txt.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// descriptionLimit is the maximum meta description length in runes.
const descriptionLimit = 160

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute)
	OGType        string // Open Graph type (website, article)
	OGSiteName    string // Open Graph site name
	OGURL         string // Open Graph URL
	Robots        string // Robots directive (index,follow / noindex,nofollow)
	TwitterCard   string // Twitter card type
}

// PostData contains post information for building meta tags.
type PostData struct {
	Title       string
	Subtitle    string
	UID         string
	BannerURL   string
	Author      string
	PublishedAt *time.Time
	ModifiedAt  *time.Time
	Preview     bool
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
}

// PostURL returns the absolute URL of the post page for uid.
func (s *SiteConfig) PostURL(uid string) string {
	return strings.TrimSuffix(s.SiteURL, "/") + "/post/" + uid
}

// BuildMeta creates a Meta struct for a post page, or for the home page when
// p is nil. Preview pages are never indexed.
func BuildMeta(p *PostData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:      "website",
		TwitterCard: "summary_large_image",
		OGSiteName:  site.SiteName,
		Robots:      "index,follow",
	}

	if p == nil {
		meta.Title = site.SiteName
		meta.OGTitle = site.SiteName
		meta.Description = truncateText(site.SiteDescription, descriptionLimit)
		meta.OGDescription = meta.Description
		meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/"
		meta.OGURL = meta.Canonical
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
		return meta
	}

	meta.OGType = "article"
	meta.Title = p.Title
	meta.OGTitle = p.Title

	// Description: subtitle → site description
	if p.Subtitle != "" {
		meta.Description = truncateText(p.Subtitle, descriptionLimit)
	} else {
		meta.Description = truncateText(site.SiteDescription, descriptionLimit)
	}
	meta.OGDescription = meta.Description

	// OG Image: banner → site default
	if p.BannerURL != "" {
		meta.OGImage = makeAbsoluteURL(p.BannerURL, site.SiteURL)
	} else {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	if p.UID != "" {
		meta.Canonical = site.PostURL(p.UID)
	}
	meta.OGURL = meta.Canonical

	meta.Robots = buildRobotsDirective(p.Preview, p.Preview)
	return meta
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	var parts []string

	if noIndex {
		parts = append(parts, "noindex")
	} else {
		parts = append(parts, "index")
	}

	if noFollow {
		parts = append(parts, "nofollow")
	} else {
		parts = append(parts, "follow")
	}

	return strings.Join(parts, ",")
}

// ArticleSchema represents JSON-LD BlogPosting structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BuildArticleSchema creates JSON-LD structured data for a post. Drafts shown
// in preview get none.
func BuildArticleSchema(p *PostData, site *SiteConfig) template.JS {
	if p == nil || p.Preview {
		return ""
	}

	article := ArticleSchema{
		Context:     "https://schema.org",
		Type:        "BlogPosting",
		Headline:    p.Title,
		Description: p.Subtitle,
		Image:       makeAbsoluteURL(p.BannerURL, site.SiteURL),
		Publisher:   &OrgSchema{Type: "Organization", Name: site.SiteName},
	}
	if p.UID != "" {
		article.MainEntityOfPage = site.PostURL(p.UID)
	}

	if p.PublishedAt != nil {
		article.DatePublished = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	if p.ModifiedAt != nil {
		article.DateModified = p.ModifiedAt.UTC().Format(time.RFC3339)
	}

	if p.Author != "" {
		article.Author = &PersonSchema{Type: "Person", Name: p.Author}
	}

	return marshalJSONLD(article)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
