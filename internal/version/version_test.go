// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"with build time", Info{"v1.0.0", "abc1234", "2021-03-25T12:00:00Z"}, "v1.0.0 (abc1234, built 2021-03-25T12:00:00Z)"},
		{"without build time", Info{"v1.0.0", "abc1234", ""}, "v1.0.0 (abc1234)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentDefaults(t *testing.T) {
	// Before ldflags injection
	info := Current()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "unknown" {
		t.Errorf("GitCommit = %q, want unknown", info.GitCommit)
	}
}
