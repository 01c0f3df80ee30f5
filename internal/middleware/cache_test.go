// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticCache(t *testing.T) {
	tests := []struct {
		name   string
		maxAge int
		want   string
	}{
		{
			name:   "one hour",
			maxAge: 3600,
			want:   "public, max-age=3600",
		},
		{
			name:   "one day",
			maxAge: 86400,
			want:   "public, max-age=86400",
		},
		{
			name:   "one week",
			maxAge: 604800,
			want:   "public, max-age=604800",
		},
		{
			name:   "zero",
			maxAge: 0,
			want:   "public, max-age=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			middleware := StaticCache(tt.maxAge)
			wrapped := middleware(handler)

			req := httptest.NewRequest(http.MethodGet, "/static/file.js", nil)
			rr := httptest.NewRecorder()

			wrapped.ServeHTTP(rr, req)

			got := rr.Header().Get("Cache-Control")
			if got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticCachePreservesResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("console.log('test')"))
	})

	middleware := StaticCache(3600)
	wrapped := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/static/file.js", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	// Check status code preserved
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	// Check content type preserved
	if ct := rr.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/javascript")
	}

	// Check body preserved
	if body := rr.Body.String(); body != "console.log('test')" {
		t.Errorf("Body = %q, want %q", body, "console.log('test')")
	}

	// Check cache header added
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q, want %q", cc, "public, max-age=3600")
	}
}

func TestPageCacheControl(t *testing.T) {
	tests := []struct {
		name  string
		ttl   time.Duration
		stale time.Duration
		want  string
	}{
		{"listing", time.Hour, 24 * time.Hour, "public, max-age=0, s-maxage=3600, stale-while-revalidate=86400"},
		{"post", 24 * time.Hour, 0, "public, max-age=0, s-maxage=86400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageCacheControl(tt.ttl, tt.stale); got != tt.want {
				t.Errorf("PageCacheControl() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageCache(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "default applied on write",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			want: "public, max-age=0, s-maxage=60, stale-while-revalidate=120",
		},
		{
			name: "handler value wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetNoStore(w)
				w.WriteHeader(http.StatusOK)
			},
			want: "private, no-store",
		},
		{
			name: "redirects not cached",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			},
			want: "",
		},
		{
			name: "permanent redirects not cached",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/", http.StatusMovedPermanently)
			},
			want: "",
		},
		{
			name: "errors not cached",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := PageCache(time.Minute, 2*time.Minute)(tt.handler)

			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoStore(t *testing.T) {
	wrapped := NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/preview", nil))

	if got := rr.Header().Get("Cache-Control"); got != "private, no-store" {
		t.Errorf("Cache-Control = %q, want %q", got, "private, no-store")
	}
}
