// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"time"

	"github.com/goodsign/monday"
)

// Date layouts used across the site, in Go reference-time notation. Month
// and day names are localized when formatted.
const (
	PatternDate   = "02 Jan 2006"
	PatternEdited = "02 Jan 2006, às 15:04"
)

// dateLocales maps supported languages to their formatting locale.
var dateLocales = map[string]monday.Locale{
	"pt-BR": monday.LocalePtBR,
	"en":    monday.LocaleEnUS,
}

// DatePattern returns the locale's layout for the given message key,
// falling back to def when the catalog has none.
func DatePattern(lang, key, def string) string {
	if s, ok := lookup(lang, key); ok {
		return s
	}
	return def
}

// FormatDate renders t using layout with the month and day names of lang.
// Unsupported languages use DefaultLanguage.
func FormatDate(lang string, t time.Time, layout string) string {
	return monday.Format(t, layout, dateLocale(lang))
}

func dateLocale(lang string) monday.Locale {
	if loc, ok := dateLocales[MatchLanguage(lang)]; ok {
		return loc
	}
	return dateLocales[DefaultLanguage]
}
