// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package comments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidget_HTML(t *testing.T) {
	w := Widget{
		Repo:      "Rob30Garcia/reactjs-criando-um-projeto-do-zero",
		IssueTerm: "pathname",
		Label:     "comment",
		Theme:     "github-dark",
	}

	html := string(w.HTML())
	assert.True(t, strings.HasPrefix(html, `<div id="inject-comments-for-uterances"><script src="https://utteranc.es/client.js"`))
	assert.Contains(t, html, `repo="Rob30Garcia/reactjs-criando-um-projeto-do-zero"`)
	assert.Contains(t, html, `issue-term="pathname"`)
	assert.Contains(t, html, `label="comment"`)
	assert.Contains(t, html, `theme="github-dark"`)
	assert.Contains(t, html, `crossorigin="anonymous" async`)
	assert.Equal(t, 1, strings.Count(html, "<script"))
}

func TestWidget_Defaults(t *testing.T) {
	html := string(Widget{Repo: "owner/repo"}.HTML())
	assert.Contains(t, html, `issue-term="pathname"`)
	assert.Contains(t, html, `theme="github-light"`)
	assert.NotContains(t, html, "label=")
}

func TestWidget_Disabled(t *testing.T) {
	for _, repo := range []string{"", "no-slash", "owner/repo/extra", `owner/repo" onload="x`} {
		w := Widget{Repo: repo}
		assert.False(t, w.Enabled(), repo)
		assert.Empty(t, w.HTML(), repo)
	}
}

func TestWidget_EscapesAttributes(t *testing.T) {
	html := string(Widget{Repo: "owner/repo", Label: `a"><script>alert(1)</script>`}.HTML())
	assert.Equal(t, 1, strings.Count(html, "<script"))
	assert.NotContains(t, html, `"><script>`)
}
