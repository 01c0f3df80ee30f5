// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedFiles(t *testing.T) {
	for _, name := range []string{"layouts/base.html", "pages/home.html", "pages/post.html", "pages/loading.html", "pages/404.html", "pages/error.html"} {
		if _, err := fs.Stat(Templates(), name); err != nil {
			t.Errorf("template %s: %v", name, err)
		}
	}
	for _, name := range []string{"css/main.css", "js/loadmore.js", "img/logo.svg"} {
		if _, err := fs.Stat(Static(), name); err != nil {
			t.Errorf("asset %s: %v", name, err)
		}
	}
}
