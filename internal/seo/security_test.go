// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestSecurityTxtBuilder_Build(t *testing.T) {
	fixedTime := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		config   SecurityTxtConfig
		contains []string
		excludes []string
	}{
		{
			name: "minimal config with contact",
			config: SecurityTxtConfig{
				Contact: []string{"mailto:security@example.com"},
				Expires: fixedTime,
			},
			contains: []string{
				"Contact: mailto:security@example.com\n",
				"Expires: 2027-01-01T00:00:00Z\n",
			},
			excludes: []string{"Canonical:", "Policy:", "Preferred-Languages:"},
		},
		{
			name: "multiple contacts skip blanks",
			config: SecurityTxtConfig{
				Contact: []string{"mailto:security@example.com", " ", "https://example.com/security"},
				Expires: fixedTime,
			},
			contains: []string{
				"Contact: mailto:security@example.com\n",
				"Contact: https://example.com/security\n",
			},
			excludes: []string{"Contact: \n"},
		},
		{
			name: "full config",
			config: SecurityTxtConfig{
				Contact:            []string{"mailto:security@example.com"},
				Expires:            fixedTime,
				SiteURL:            "https://blog.example.com/",
				PreferredLanguages: []string{"pt", "en"},
				Policy:             "https://example.com/policy",
			},
			contains: []string{
				"Preferred-Languages: pt, en\n",
				"Canonical: https://blog.example.com/.well-known/security.txt\n",
				"Policy: https://example.com/policy\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSecurityTxtBuilder(tt.config).Build()
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Build() missing %q in:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Build() should not contain %q in:\n%s", s, got)
				}
			}
		})
	}
}

func TestSecurityTxtBuilder_DefaultExpires(t *testing.T) {
	b := NewSecurityTxtBuilder(SecurityTxtConfig{Contact: []string{"mailto:a@example.com"}})
	b.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	if got := b.Build(); !strings.Contains(got, "Expires: 2027-03-01T12:00:00Z") {
		t.Errorf("Build() = %q, want expiry one year out", got)
	}
}

func TestSecurityTxtBuilder_Enabled(t *testing.T) {
	if NewSecurityTxtBuilder(SecurityTxtConfig{}).Enabled() {
		t.Error("Enabled() = true without contacts")
	}
	if NewSecurityTxtBuilder(SecurityTxtConfig{Contact: []string{"  "}}).Enabled() {
		t.Error("Enabled() = true with blank contact")
	}
	if !NewSecurityTxtBuilder(SecurityTxtConfig{Contact: []string{"mailto:a@example.com"}}).Enabled() {
		t.Error("Enabled() = false with a contact")
	}
}
