// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site templates and renders pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/spacetraveling/internal/i18n"
	"github.com/olegiv/spacetraveling/internal/post"
	"github.com/olegiv/spacetraveling/internal/richtext"
)

// blankLinesRegex matches runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

const baseLayout = "layouts/base.html"

// Renderer handles template rendering with caching.
type Renderer struct {
	fsys     fs.FS
	lang     string
	loc      *time.Location
	siteName string
	isDev    bool

	mu        sync.RWMutex
	templates map[string]*template.Template
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Language    string
	Location    *time.Location
	SiteName    string
	IsDev       bool // re-parse templates on every render
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	lang := cfg.Language
	if lang == "" {
		lang = i18n.DefaultLanguage
	}

	r := &Renderer{
		fsys:     cfg.TemplatesFS,
		lang:     lang,
		loc:      loc,
		siteName: cfg.SiteName,
		isDev:    cfg.IsDev,
	}

	templates, err := r.parseTemplates()
	if err != nil {
		return nil, err
	}
	r.templates = templates
	return r, nil
}

// parseTemplates parses every page with the base layout and all partials.
func (r *Renderer) parseTemplates() (map[string]*template.Template, error) {
	partials, err := templateFiles(r.fsys, "partials")
	if err != nil {
		return nil, fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(r.fsys, "pages")
	if err != nil {
		return nil, fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		// Parse in order: base layout, partials, page template
		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(r.fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil //nolint:nilerr // optional directory
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": func(key string, args ...any) string {
			return i18n.T(r.lang, key, args...)
		},
		"displayDate": func(t *time.Time) string {
			return post.DisplayDate(r.lang, r.loc, t)
		},
		"isoDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"richText": richtext.AsHTML,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"defaultReadingMinutes": func() int {
			return post.DefaultReadingMinutes
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	OGType      string
	Robots      string
	Schema      template.JS // JSON-LD structured data
	SiteName    string
	Lang        string
	Preview     bool
	RefreshSecs int // when > 0 the page reloads itself
	Data        any
	CurrentYear int
}

// Render renders a page template with the given data and status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}

	// Add default data
	data.CurrentYear = time.Now().Year()
	if data.SiteName == "" {
		data.SiteName = r.siteName
	}
	if data.Lang == "" {
		data.Lang = r.lang
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	out := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
	return nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if r.isDev {
		templates, err := r.parseTemplates()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.templates = templates
		r.mu.Unlock()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	return tmpl, nil
}
