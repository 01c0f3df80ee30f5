// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"time"
)

// securityTxtValidity is how long a generated security.txt stays valid.
const securityTxtValidity = 365 * 24 * time.Hour

// SecurityTxtConfig holds configuration for security.txt generation (RFC 9116).
type SecurityTxtConfig struct {
	// Contact is required. Each entry is a mailto: or https: URI.
	Contact []string

	// Expires defaults to one year after the build time.
	Expires time.Time

	// SiteURL, when set, yields the Canonical field.
	SiteURL string

	// PreferredLanguages lists the languages reports may be written in.
	PreferredLanguages []string

	// Policy links to the disclosure policy.
	Policy string
}

// SecurityTxtBuilder builds security.txt content according to RFC 9116.
type SecurityTxtBuilder struct {
	config SecurityTxtConfig
	now    func() time.Time
}

// NewSecurityTxtBuilder creates a new security.txt builder.
func NewSecurityTxtBuilder(config SecurityTxtConfig) *SecurityTxtBuilder {
	return &SecurityTxtBuilder{config: config, now: time.Now}
}

// Enabled reports whether at least one contact is configured.
func (b *SecurityTxtBuilder) Enabled() bool {
	for _, c := range b.config.Contact {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// Build generates the security.txt content.
func (b *SecurityTxtBuilder) Build() string {
	var sb strings.Builder

	writeField := func(name, value string) {
		if value == "" {
			return
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	for _, contact := range b.config.Contact {
		writeField("Contact", strings.TrimSpace(contact))
	}

	expires := b.config.Expires
	if expires.IsZero() {
		expires = b.now().Add(securityTxtValidity)
	}
	writeField("Expires", expires.UTC().Format(time.RFC3339))

	if len(b.config.PreferredLanguages) > 0 {
		writeField("Preferred-Languages", strings.Join(b.config.PreferredLanguages, ", "))
	}
	if b.config.SiteURL != "" {
		writeField("Canonical", strings.TrimSuffix(b.config.SiteURL, "/")+"/.well-known/security.txt")
	}
	writeField("Policy", b.config.Policy)

	return sb.String()
}
