// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package post holds the blog view models and the logic that derives them
// from content documents: field normalization, reading time, revision
// detection, cursor pagination and adjacent-post navigation.
package post

import (
	"time"

	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/richtext"
)

// Post is a fully normalized post.
type Post struct {
	ID               string     `json:"id"`
	UID              string     `json:"uid,omitempty"`
	FirstPublishedAt *time.Time `json:"first_published_at,omitempty"`
	LastPublishedAt  *time.Time `json:"last_published_at,omitempty"`
	Title            string     `json:"title" validate:"required"`
	Subtitle         *string    `json:"subtitle,omitempty"`
	Author           string     `json:"author"`
	BannerURL        *string    `json:"banner_url,omitempty" validate:"omitempty,url"`
	Content          []Section  `json:"content" validate:"required"`
}

// Section is one heading plus its rich text body. Anchor is the heading's
// fragment id, unique within the post.
type Section struct {
	Heading string            `json:"heading"`
	Anchor  string            `json:"anchor"`
	Body    richtext.RichText `json:"body"`
}

// Summary is the listing projection of a post.
type Summary struct {
	ID               string     `json:"id"`
	UID              string     `json:"uid,omitempty"`
	FirstPublishedAt *time.Time `json:"first_publication_date,omitempty"`
	Title            string     `json:"title" validate:"required"`
	Subtitle         *string    `json:"subtitle,omitempty"`
	Author           string     `json:"author"`
}

// Detail is everything the post page shows.
type Detail struct {
	Post       Post        `json:"post"`
	Navigation Navigation  `json:"navigation"`
	Reading    ReadingTime `json:"reading"`
	Revision   Revision    `json:"revision"`
}

// DisplayDate formats t for listings and post headers ("25 mar 2021").
// A nil time yields "".
func DisplayDate(lang string, loc *time.Location, t *time.Time) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return i18n.FormatDate(lang, t.In(loc), i18n.DatePattern(lang, "date.pattern", i18n.PatternDate))
	}
	return i18n.FormatDate(lang, *t, i18n.DatePattern(lang, "date.pattern", i18n.PatternDate))
}
