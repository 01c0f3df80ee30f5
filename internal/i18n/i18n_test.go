// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, lang := range SupportedLanguages {
		if len(catalog.translations[lang]) == 0 {
			t.Errorf("Expected %s translations to be loaded", lang)
		}
	}
}

func TestT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"pt-BR", "listing.load_more", nil, "Carregar mais posts"},
		{"en", "listing.load_more", nil, "Load more posts"},
		{"pt-BR", "post.loading", nil, "Carregando..."},
		{"pt-BR", "post.edited_on", []any{"25 mar 2021, às 19:25"}, "* editado em 25 mar 2021, às 19:25"},
		{"en", "post.reading_time", []any{4}, "4 min"},
		{"pt-BR", "site.home_title", []any{"spacetraveling"}, "Home | spacetraveling"},
		// Fallback to the default language for unknown language
		{"de", "listing.load_more", nil, "Carregar mais posts"},
		// Return key if not found
		{"pt-BR", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key, tt.args...)
			if result != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, result, tt.expected)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"en", "en"},
		{"en-US", "en"},
		{"de", "pt-BR"},
		{"", "pt-BR"},
		{"en-US, pt;q=0.9", "en"},
		{"pt-BR, en;q=0.9", "pt-BR"},
		{"pt-br", "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := MatchLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang     string
		expected bool
	}{
		{"pt-BR", true},
		{"pt-br", true},
		{"en", true},
		{"EN", true},
		{"ru", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			result := IsSupported(tt.lang)
			if result != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, result, tt.expected)
			}
		})
	}
}

func TestTranslationFilesNoDuplicates(t *testing.T) {
	for _, lang := range SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			msgFile := readMessageFile(t, lang)

			seen := make(map[string]int)
			var duplicates []string
			for i, msg := range msgFile.Messages {
				if firstIdx, exists := seen[msg.ID]; exists {
					duplicates = append(duplicates, fmt.Sprintf("%q (entries %d and %d)", msg.ID, firstIdx+1, i+1))
				} else {
					seen[msg.ID] = i
				}
			}

			if len(duplicates) > 0 {
				t.Errorf("Found %d duplicate translation IDs in %s:\n  %v", len(duplicates), lang, duplicates)
			}
		})
	}
}

func TestTranslationFilesSameKeys(t *testing.T) {
	ref := make(map[string]bool)
	for _, msg := range readMessageFile(t, SupportedLanguages[0]).Messages {
		ref[msg.ID] = true
	}

	for _, lang := range SupportedLanguages[1:] {
		keys := make(map[string]bool)
		for _, msg := range readMessageFile(t, lang).Messages {
			keys[msg.ID] = true
			if !ref[msg.ID] {
				t.Errorf("key %q in %s is missing in %s", msg.ID, lang, SupportedLanguages[0])
			}
		}
		for id := range ref {
			if !keys[id] {
				t.Errorf("key %q in %s is missing in %s", id, SupportedLanguages[0], lang)
			}
		}
	}
}

func readMessageFile(t *testing.T, lang string) MessageFile {
	t.Helper()
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return msgFile
}
