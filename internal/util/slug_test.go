// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Hello World", expected: "hello-world"},
		{name: "with special characters", input: "Hello, World!", expected: "hello-world"},
		{name: "with numbers", input: "Capítulo 3", expected: "capitulo-3"},
		{name: "portuguese accents", input: "Introdução à programação", expected: "introducao-a-programacao"},
		{name: "tabs and newlines", input: "Proin\tet\nvarius", expected: "proin-et-varius"},
		{name: "with hyphens", input: "Hello - World", expected: "hello-world"},
		{name: "only symbols", input: "!!!", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHeadingID(t *testing.T) {
	seen := make(map[string]int)

	got := []string{
		HeadingID("Proin et varius", seen),
		HeadingID("Cras laoreet", seen),
		HeadingID("Proin et varius", seen),
		HeadingID("Proin et varius", seen),
		HeadingID("???", seen),
	}
	want := []string{"proin-et-varius", "cras-laoreet", "proin-et-varius-2", "proin-et-varius-3", "section"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HeadingID #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsValidUID(t *testing.T) {
	tests := []struct {
		uid   string
		valid bool
	}{
		{"como-utilizar-hooks", true},
		{"criando-um-app-cra-do-zero", true},
		{"post_2021.v2", true},
		{"a", true},
		{"", false},
		{".", false},
		{"..", false},
		{"Upper-Case", false},
		{"with space", false},
		{"../etc/passwd", false},
		{"emoji-🚀", false},
		{strings.Repeat("a", MaxUIDLength), true},
		{strings.Repeat("a", MaxUIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			if got := IsValidUID(tt.uid); got != tt.valid {
				t.Errorf("IsValidUID(%q) = %v, want %v", tt.uid, got, tt.valid)
			}
		})
	}
}
