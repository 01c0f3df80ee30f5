// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"strings"
	"time"

	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/richtext"
)

const (
	// WordsPerMinute is the reading speed behind the estimate.
	WordsPerMinute = 200
	// DefaultReadingMinutes is shown by the loading placeholder only.
	DefaultReadingMinutes = 4
)

// ReadingTime is the word count of a post and the minutes it takes to read.
type ReadingTime struct {
	Words   int `json:"words"`
	Minutes int `json:"minutes"`
}

// Revision tells whether a post changed after its first publication.
type Revision struct {
	Edited   bool       `json:"edited"`
	EditedAt *time.Time `json:"edited_at,omitempty"`
	Label    string     `json:"label,omitempty"`
}

// EstimateReadingTime counts heading and body words across all sections.
// Zero sections give zero minutes.
func EstimateReadingTime(sections []Section) ReadingTime {
	words := 0
	for _, s := range sections {
		words += len(strings.Fields(s.Heading))
		words += len(strings.Fields(richtext.AsText(s.Body)))
	}
	return ReadingTime{Words: words, Minutes: MinutesFor(words)}
}

// MinutesFor returns ceil(words / WordsPerMinute).
func MinutesFor(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// IsEdited reports whether the two publication timestamps differ. Both must
// be present; a post missing either one is treated as unedited.
func IsEdited(first, last *time.Time) bool {
	if first == nil || last == nil {
		return false
	}
	return !first.Equal(*last)
}

// DetectRevision classifies a post and, when it was edited, builds the
// "* editado em 25 mar 2021, às 19:25" label from the last publication time.
func DetectRevision(lang string, loc *time.Location, first, last *time.Time) Revision {
	if !IsEdited(first, last) {
		return Revision{}
	}

	at := *last
	if loc != nil {
		at = at.In(loc)
	}
	pattern := i18n.DatePattern(lang, "date.edited_pattern", i18n.PatternEdited)

	return Revision{
		Edited:   true,
		EditedAt: last,
		Label:    i18n.T(lang, "post.edited_on", i18n.FormatDate(lang, at, pattern)),
	}
}
