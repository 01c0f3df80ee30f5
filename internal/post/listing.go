// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoadInProgress is returned when LoadMore is called while a previous
// call is still fetching.
var ErrLoadInProgress = errors.New("load more already in progress")

// Page is an ordered run of post summaries plus the cursor of the page that
// follows. An empty NextCursor ends pagination.
type Page struct {
	Items      []Summary `json:"results"`
	NextCursor string    `json:"next_page,omitempty"`
}

// HasMore reports whether another page can be fetched.
func (p Page) HasMore() bool {
	return p.NextCursor != ""
}

// Merge returns a new page holding p's items followed by next's items, with
// next's cursor. Neither page is modified. Items are not de-duplicated.
func (p Page) Merge(next Page) Page {
	items := make([]Summary, 0, len(p.Items)+len(next.Items))
	items = append(items, p.Items...)
	items = append(items, next.Items...)
	return Page{Items: items, NextCursor: next.NextCursor}
}

// PageFetcher loads the page a cursor points at.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (Page, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, cursor string) (Page, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, cursor string) (Page, error) {
	return f(ctx, cursor)
}

// Walker accumulates pages by following cursors. At most one LoadMore runs
// at a time; a concurrent call fails fast with ErrLoadInProgress instead of
// racing an out-of-order append.
type Walker struct {
	fetcher PageFetcher
	loading atomic.Bool

	mu   sync.RWMutex
	page Page
}

// NewWalker starts a walk from the first page.
func NewWalker(first Page, fetcher PageFetcher) *Walker {
	return &Walker{fetcher: fetcher, page: first}
}

// Page returns the accumulated page.
func (w *Walker) Page() Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.page
}

// LoadMore fetches the next page and appends it. It returns false without
// fetching when no cursor remains. On error the accumulated page is unchanged.
func (w *Walker) LoadMore(ctx context.Context) (bool, error) {
	if !w.loading.CompareAndSwap(false, true) {
		return false, ErrLoadInProgress
	}
	defer w.loading.Store(false)

	current := w.Page()
	if !current.HasMore() {
		return false, nil
	}

	next, err := w.fetcher.FetchPage(ctx, current.NextCursor)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	w.page = w.page.Merge(next)
	w.mu.Unlock()

	return true, nil
}

// LoadAll calls LoadMore up to steps times, stopping early when the cursor
// runs out.
func (w *Walker) LoadAll(ctx context.Context, steps int) error {
	for range steps {
		more, err := w.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}
