// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"testing"
	_ "time/tzdata"

	"github.com/olegiv/spacetraveling/internal/i18n"
)

func initCatalog(t *testing.T) {
	t.Helper()
	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
}
