// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the message catalog and date formatting for the blog frontend.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	defaultLang  string
	logger       *slog.Logger
}

// catalog is the global catalog instance.
var catalog *Catalog

// DefaultLanguage is the locale used when nothing else matches.
const DefaultLanguage = "pt-BR"

// SupportedLanguages lists the locales the site is published in.
var SupportedLanguages = []string{"pt-BR", "en"}

var (
	supportedTags = parseTags(SupportedLanguages)
	matcher       = language.NewMatcher(supportedTags)
)

func parseTags(langs []string) []language.Tag {
	tags := make([]language.Tag, 0, len(langs))
	for _, lang := range langs {
		tags = append(tags, language.MustParse(lang))
	}
	return tags
}

// Init initializes the i18n system with the given logger.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLanguage,
		logger:       logger,
	}

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}

	return nil
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}

	return nil
}

// T translates a message key to the specified language.
// If the key is not found in the language or the default language, it returns the key itself.
func T(lang, key string, args ...any) string {
	translation, ok := lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

func lookup(lang, key string) (string, bool) {
	if catalog == nil {
		return "", false
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	if msgs, ok := catalog.translations[lang]; ok {
		if s, ok := msgs[key]; ok {
			return s, true
		}
	}
	if lang != catalog.defaultLang {
		if s, ok := catalog.translations[catalog.defaultLang][key]; ok {
			if catalog.logger != nil {
				catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
			}
			return s, true
		}
	}
	return "", false
}

// MatchLanguage finds the best matching supported language for an
// Accept-Language header or a single language code. It does not need Init.
func MatchLanguage(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(SupportedLanguages) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	for _, supported := range SupportedLanguages {
		if strings.EqualFold(supported, lang) {
			return true
		}
	}
	return false
}
