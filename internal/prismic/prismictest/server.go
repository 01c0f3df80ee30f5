// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package prismictest provides an in-process fake of the Prismic REST API
// for tests.
package prismictest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MasterRef is the ref the fake server advertises.
const MasterRef = "master-ref"

// Doc is a raw document as the API would return it.
type Doc = map[string]any

var atPredicate = regexp.MustCompile(`at\(([^,]+),"((?:[^"\\]|\\.)*)"\)`)

// Server is a fake content API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	docs     []Doc
	previews map[string][]Doc

	searches atomic.Int64
	failing  atomic.Bool
	lastQ    atomic.Value // url.Values
}

// NewServer starts a fake API serving docs. It is closed when the test ends.
func NewServer(tb testing.TB, docs ...Doc) *Server {
	tb.Helper()

	s := &Server{docs: docs, previews: make(map[string][]Doc)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", s.handleAPI)
	mux.HandleFunc("/api/v2/documents/search", s.handleSearch)
	s.Server = httptest.NewServer(mux)
	tb.Cleanup(s.Close)

	return s
}

// Endpoint returns the API entry point URL.
func (s *Server) Endpoint() string {
	return s.URL + "/api/v2"
}

// SetDocs replaces the published documents.
func (s *Server) SetDocs(docs ...Doc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
}

// SetPreview registers the documents visible under a preview ref.
func (s *Server) SetPreview(ref string, docs ...Doc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews[ref] = docs
}

// SetFailing makes every search answer 500.
func (s *Server) SetFailing(fail bool) {
	s.failing.Store(fail)
}

// Searches returns how many search requests were served.
func (s *Server) Searches() int {
	return int(s.searches.Load())
}

// LastQuery returns the parameters of the most recent search.
func (s *Server) LastQuery() url.Values {
	v, _ := s.lastQ.Load().(url.Values)
	return v
}

func (s *Server) handleAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"refs": []map[string]any{
			{"id": "master", "ref": MasterRef, "label": "Master", "isMasterRef": true},
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.searches.Add(1)
	q := r.URL.Query()
	s.lastQ.Store(q)

	if s.failing.Load() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "upstream unavailable"})
		return
	}

	ref := q.Get("ref")
	s.mu.Lock()
	var docs []Doc
	switch {
	case ref == MasterRef:
		docs = append(docs, s.docs...)
	case s.previews[ref] != nil:
		docs = append(docs, s.previews[ref]...)
	default:
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "unknown ref " + ref})
		return
	}
	s.mu.Unlock()

	docs = filter(docs, q["q"])
	order(docs, q.Get("orderings"))
	docs = after(docs, q.Get("after"))

	pageSize := intParam(q, "pageSize", 20)
	page := intParam(q, "page", 1)
	total := len(docs)
	totalPages := (total + pageSize - 1) / pageSize

	from := min((page-1)*pageSize, total)
	to := min(from+pageSize, total)

	var next any
	if page < totalPages {
		nq := cloneValues(q)
		nq.Set("page", strconv.Itoa(page+1))
		next = s.URL + "/api/v2/documents/search?" + nq.Encode()
	}
	var prev any
	if page > 1 {
		pq := cloneValues(q)
		pq.Set("page", strconv.Itoa(page-1))
		prev = s.URL + "/api/v2/documents/search?" + pq.Encode()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":               page,
		"results_per_page":   pageSize,
		"results_size":       to - from,
		"total_results_size": total,
		"total_pages":        totalPages,
		"next_page":          next,
		"prev_page":          prev,
		"results":            docs[from:to],
	})
}

func filter(docs []Doc, qs []string) []Doc {
	var out []Doc
	for _, d := range docs {
		ok := true
		for _, q := range qs {
			for _, m := range atPredicate.FindAllStringSubmatch(q, -1) {
				if !matches(d, m[1], m[2]) {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, d)
		}
	}
	return out
}

func matches(d Doc, path, value string) bool {
	switch {
	case path == "document.type":
		return d["type"] == value
	case path == "document.id":
		return d["id"] == value
	case strings.HasPrefix(path, "my.") && strings.HasSuffix(path, ".uid"):
		docType := strings.TrimSuffix(strings.TrimPrefix(path, "my."), ".uid")
		return d["type"] == docType && d["uid"] == value
	default:
		return false
	}
}

func order(docs []Doc, orderings string) {
	switch {
	case strings.Contains(orderings, "first_publication_date desc"):
		sort.SliceStable(docs, func(i, j int) bool { return published(docs[i]) > published(docs[j]) })
	case strings.Contains(orderings, "first_publication_date"):
		sort.SliceStable(docs, func(i, j int) bool { return published(docs[i]) < published(docs[j]) })
	}
}

func after(docs []Doc, id string) []Doc {
	if id == "" {
		return docs
	}
	for i, d := range docs {
		if d["id"] == id {
			return docs[i+1:]
		}
	}
	return docs
}

func published(d Doc) string {
	s, _ := d["first_publication_date"].(string)
	return s
}

func intParam(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Post builds a posts document with one content section.
func Post(id, uid, title, firstPublished, lastPublished string) Doc {
	return Doc{
		"id":                     id,
		"uid":                    uid,
		"type":                   "posts",
		"first_publication_date": firstPublished,
		"last_publication_date":  lastPublished,
		"data": map[string]any{
			"title":    title,
			"subtitle": "Subtítulo de " + title,
			"author":   "Joseph Oliveira",
			"banner":   map[string]any{"url": "https://images.prismic.io/spacetraveling/" + uid + ".png"},
			"content": []any{
				map[string]any{
					"heading": "Proin et varius",
					"body": []any{
						map[string]any{"type": "paragraph", "text": "Lorem ipsum dolor sit amet", "spans": []any{}},
					},
				},
			},
		},
	}
}
