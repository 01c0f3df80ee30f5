// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Document is one search result. The raw JSON is kept for field extraction;
// the identifying metadata is decoded eagerly.
type Document struct {
	ID   string
	UID  string
	Type string
	Raw  json.RawMessage
}

// UnmarshalJSON keeps a copy of the raw document.
func (d *Document) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return errors.New("prismic: invalid document JSON")
	}
	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		return errors.New("prismic: document is not an object")
	}

	d.Raw = append(d.Raw[:0], b...)
	d.ID = res.Get("id").String()
	d.UID = res.Get("uid").String()
	d.Type = res.Get("type").String()
	return nil
}

// MarshalJSON returns the raw document.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}

// Get extracts a value by gjson path, e.g. "data.banner.url".
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.Raw, path)
}

// Response is a page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// NextCursor returns the opaque cursor for the following page, or "" when
// this is the last page. A next_page URL that cannot be turned into a cursor
// is an error rather than the end of pagination.
func (r *Response) NextCursor() (string, error) {
	if r == nil || r.NextPage == nil || *r.NextPage == "" {
		return "", nil
	}
	c, err := EncodeCursor(*r.NextPage)
	if err != nil {
		return "", fmt.Errorf("prismic: next_page %q: %w", *r.NextPage, err)
	}
	return c, nil
}

// Ref is one entry of the API entry point's refs list.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiInfo struct {
	Refs []Ref `json:"refs"`
}
