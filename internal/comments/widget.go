// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package comments renders the utterances comment widget, which stores post
// comments as GitHub issues.
package comments

import (
	"bytes"
	"html/template"
	"regexp"
)

// ScriptURL is the utterances client loaded by the widget.
const ScriptURL = "https://utteranc.es/client.js"

// MountID is the element the widget injects its iframe into.
const MountID = "inject-comments-for-uterances"

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

var widgetTmpl = template.Must(template.New("comments").Parse(
	`<div id="{{.MountID}}"><script src="{{.ScriptURL}}" repo="{{.Repo}}" issue-term="{{.IssueTerm}}"` +
		`{{if .Label}} label="{{.Label}}"{{end}} theme="{{.Theme}}" crossorigin="anonymous" async></script></div>`))

// Widget configures the comment thread attached to each post.
type Widget struct {
	Repo      string // owner/name of the GitHub repository holding the issues
	IssueTerm string // how a page maps to an issue, e.g. "pathname"
	Label     string
	Theme     string
}

// Enabled reports whether the widget has a usable repository.
func (w Widget) Enabled() bool {
	return repoPattern.MatchString(w.Repo)
}

// HTML returns the mount point with the utterances script, or "" when the
// widget is not enabled.
func (w Widget) HTML() template.HTML {
	if !w.Enabled() {
		return ""
	}

	issueTerm := w.IssueTerm
	if issueTerm == "" {
		issueTerm = "pathname"
	}
	theme := w.Theme
	if theme == "" {
		theme = "github-light"
	}

	var buf bytes.Buffer
	err := widgetTmpl.Execute(&buf, map[string]string{
		"MountID":   MountID,
		"ScriptURL": ScriptURL,
		"Repo":      w.Repo,
		"IssueTerm": issueTerm,
		"Label":     w.Label,
		"Theme":     theme,
	})
	if err != nil {
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}
