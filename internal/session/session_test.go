// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/goleak"
)

func TestNew_DevMode(t *testing.T) {
	sm := New(true)
	defer sm.Close()

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name != "preview_session" {
		t.Errorf("Cookie.Name = %q, want preview_session", sm.Cookie.Name)
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(false)
	defer sm.Close()

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-preview_session" {
		t.Errorf("expected __Host-preview_session cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	sm := New(true)
	defer sm.Close()

	if sm.Lifetime != Lifetime {
		t.Errorf("Lifetime = %v, want %v", sm.Lifetime, Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}

func TestPreviewRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	sm := New(true)
	defer sm.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		if err := sm.StartPreview(r.Context(), "preview-ref"); err != nil {
			t.Errorf("StartPreview: %v", err)
		}
	})
	mux.HandleFunc("/read", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sm.PreviewRef(r.Context())))
	})
	mux.HandleFunc("/exit", func(w http.ResponseWriter, r *http.Request) {
		if err := sm.ExitPreview(r.Context()); err != nil {
			t.Errorf("ExitPreview: %v", err)
		}
	})
	h := sm.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/start", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	read := func() string {
		req := httptest.NewRequest(http.MethodGet, "/read", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	if got := read(); got != "preview-ref" {
		t.Errorf("PreviewRef = %q, want preview-ref", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/exit", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got := read(); got != "" {
		t.Errorf("PreviewRef after exit = %q, want empty", got)
	}
}
