// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"errors"
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultOpts   *Options
	defaultClient *Client
	defaultErr    error
	defaultMu     sync.Mutex
)

// Configure sets the options the process-wide client is built from. It has
// no effect once Default has been called.
func Configure(opts Options) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	o := opts
	defaultOpts = &o
}

// Default returns the process-wide client, building it on first use.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		opts := defaultOpts
		defaultMu.Unlock()

		if opts == nil {
			defaultErr = errors.New("prismic: client not configured")
			return
		}
		defaultClient, defaultErr = New(*opts)
	})
	return defaultClient, defaultErr
}
