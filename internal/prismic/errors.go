// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("prismic: document not found")
	// ErrInvalidCursor is returned for cursors that were not produced by EncodeCursor.
	ErrInvalidCursor = errors.New("prismic: invalid cursor")
	// ErrNoMasterRef is returned when the API entry point lists no master ref.
	ErrNoMasterRef = errors.New("prismic: no master ref")
)

// APIError is a non-2xx answer from the content API.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("prismic: %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("prismic: %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}
