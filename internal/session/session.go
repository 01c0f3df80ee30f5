// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the CMS preview ref of a browser between requests.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const (
	previewRefKey = "preview_ref"

	// Lifetime matches the validity of a CMS preview token.
	Lifetime = 30 * time.Minute
)

// Manager wraps an scs session manager backed by process memory.
type Manager struct {
	*scs.SessionManager
	store *memstore.MemStore
}

// New creates a session manager. Cookies are Secure and use the __Host-
// prefix outside development.
func New(isDev bool) *Manager {
	store := memstore.NewWithCleanupInterval(time.Minute)

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = Lifetime
	sm.Cookie.Name = "preview_session"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	if !isDev {
		sm.Cookie.Name = "__Host-preview_session"
	}

	return &Manager{SessionManager: sm, store: store}
}

// PreviewRef returns the preview ref stored in the session, or "".
func (m *Manager) PreviewRef(ctx context.Context) string {
	return m.GetString(ctx, previewRefKey)
}

// StartPreview stores ref and renews the session token.
func (m *Manager) StartPreview(ctx context.Context, ref string) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, previewRefKey, ref)
	return nil
}

// ExitPreview destroys the session.
func (m *Manager) ExitPreview(ctx context.Context) error {
	return m.Destroy(ctx)
}

// Close stops the store's cleanup goroutine.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
