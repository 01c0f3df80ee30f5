// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides post UID validation and heading anchor generation
// with Unicode normalization support.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxUIDLength bounds UIDs accepted from the URL before any CMS lookup.
const MaxUIDLength = 200

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug.
// Accents are folded ("Introdução" becomes "introducao"), whitespace becomes
// hyphens and everything else outside [a-z0-9-] is dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// HeadingID returns a document-unique anchor id for a section heading.
// seen tracks ids already handed out; repeated headings get a numeric suffix.
func HeadingID(heading string, seen map[string]int) string {
	id := Slugify(heading)
	if id == "" {
		id = "section"
	}
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n+1)
}

// IsValidUID reports whether s can be a post UID. Prismic UIDs are lowercase
// and made of letters, digits, hyphens, underscores and dots.
func IsValidUID(s string) bool {
	if s == "" || len(s) > MaxUIDLength {
		return false
	}
	if s == "." || s == ".." {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}

	return true
}
