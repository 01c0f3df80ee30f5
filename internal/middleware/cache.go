// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// StaticCache adds Cache-Control headers for static files.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}

// PageCacheControl returns the Cache-Control value for a generated page:
// shared caches may serve it for maxAge and keep serving a stale copy for
// staleWhileRevalidate while it is regenerated.
func PageCacheControl(maxAge, staleWhileRevalidate time.Duration) string {
	v := "public, max-age=0, s-maxage=" + strconv.Itoa(int(maxAge.Seconds()))
	if staleWhileRevalidate > 0 {
		v += ", stale-while-revalidate=" + strconv.Itoa(int(staleWhileRevalidate.Seconds()))
	}
	return v
}

// PageCache sets PageCacheControl on 2xx responses that don't set their own
// Cache-Control. Redirects and errors are left alone.
func PageCache(maxAge, staleWhileRevalidate time.Duration) func(http.Handler) http.Handler {
	value := PageCacheControl(maxAge, staleWhileRevalidate)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cacheHeaderWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

// SetNoStore marks a response as private and uncacheable.
func SetNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "private, no-store")
}

// NoStore marks every response as uncacheable.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetNoStore(w)
		next.ServeHTTP(w, r)
	})
}

// cacheHeaderWriter fills in a default Cache-Control header when the
// response is committed.
type cacheHeaderWriter struct {
	http.ResponseWriter
	value       string
	wroteHeader bool
}

func (cw *cacheHeaderWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		h := cw.Header()
		if h.Get("Cache-Control") == "" && code >= http.StatusOK && code < http.StatusMultipleChoices {
			h.Set("Cache-Control", cw.value)
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheHeaderWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (cw *cacheHeaderWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
