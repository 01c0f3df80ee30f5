// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
)

// cursorParams are the search parameters a cursor may carry. Anything else,
// access tokens included, is dropped.
var cursorParams = []string{"q", "fetch", "pageSize", "page", "orderings", "after", "lang"}

// EncodeCursor turns a next_page URL into an opaque cursor. Only the search
// parameters survive; the host and credentials never leave the server.
func EncodeCursor(nextPage string) (string, error) {
	u, err := url.Parse(nextPage)
	if err != nil {
		return "", fmt.Errorf("parsing next page: %w", err)
	}

	v, err := filterCursorParams(u.Query())
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(v.Encode())), nil
}

// DecodeCursor returns the search parameters carried by cursor.
func DecodeCursor(cursor string) (url.Values, error) {
	if cursor == "" || len(cursor) > 4096 {
		return nil, ErrInvalidCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	parsed, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return filterCursorParams(parsed)
}

func filterCursorParams(in url.Values) (url.Values, error) {
	page, err := strconv.Atoi(in.Get("page"))
	if err != nil || page < 1 {
		return nil, ErrInvalidCursor
	}

	out := url.Values{}
	for _, k := range cursorParams {
		if vals, ok := in[k]; ok {
			out[k] = vals
		}
	}
	return out, nil
}
