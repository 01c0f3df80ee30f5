// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/olegiv/spacetraveling/internal/prismic"
	"github.com/olegiv/spacetraveling/internal/richtext"
	"github.com/olegiv/spacetraveling/internal/util"
)

// ErrMalformedDocument is returned when a document lacks a required field
// or carries one of the wrong shape.
var ErrMalformedDocument = errors.New("malformed document")

// Timestamp layouts accepted for publication dates.
const prismicTimeLayout = "2006-01-02T15:04:05-0700"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize maps a full posts document to a Post. Optional fields that are
// absent stay nil; a missing title or content is an error.
func Normalize(doc prismic.Document) (Post, error) {
	first, err := timeField(doc, "first_publication_date")
	if err != nil {
		return Post{}, err
	}
	last, err := timeField(doc, "last_publication_date")
	if err != nil {
		return Post{}, err
	}

	title, ok := textField(doc.Get("data.title"))
	if !ok {
		return Post{}, fmt.Errorf("%w: document %s has no data.title", ErrMalformedDocument, doc.ID)
	}

	content, err := contentField(doc)
	if err != nil {
		return Post{}, err
	}

	p := Post{
		ID:               doc.ID,
		UID:              doc.UID,
		FirstPublishedAt: first,
		LastPublishedAt:  last,
		Title:            title,
		Subtitle:         optionalText(doc.Get("data.subtitle")),
		Author:           doc.Get("data.author").String(),
		BannerURL:        optionalText(doc.Get("data.banner.url")),
		Content:          content,
	}

	if err := validate.Struct(p); err != nil {
		return Post{}, fmt.Errorf("%w: document %s: %v", ErrMalformedDocument, doc.ID, err)
	}
	return p, nil
}

// NormalizeSummary maps a listing result to a Summary.
func NormalizeSummary(doc prismic.Document) (Summary, error) {
	first, err := timeField(doc, "first_publication_date")
	if err != nil {
		return Summary{}, err
	}

	title, ok := textField(doc.Get("data.title"))
	if !ok {
		return Summary{}, fmt.Errorf("%w: document %s has no data.title", ErrMalformedDocument, doc.ID)
	}

	s := Summary{
		ID:               doc.ID,
		UID:              doc.UID,
		FirstPublishedAt: first,
		Title:            title,
		Subtitle:         optionalText(doc.Get("data.subtitle")),
		Author:           doc.Get("data.author").String(),
	}
	if err := validate.Struct(s); err != nil {
		return Summary{}, fmt.Errorf("%w: document %s: %v", ErrMalformedDocument, doc.ID, err)
	}
	return s, nil
}

// PageFromResponse normalizes a search result page.
func PageFromResponse(resp *prismic.Response) (Page, error) {
	items := make([]Summary, 0, len(resp.Results))
	for _, doc := range resp.Results {
		s, err := NormalizeSummary(doc)
		if err != nil {
			return Page{}, err
		}
		items = append(items, s)
	}
	cursor, err := resp.NextCursor()
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, NextCursor: cursor}, nil
}

func timeField(doc prismic.Document, path string) (*time.Time, error) {
	res := doc.Get(path)
	if !res.Exists() || res.Type == gjson.Null || res.String() == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(res.String())
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: %s: %v", ErrMalformedDocument, doc.ID, path, err)
	}
	return &t, nil
}

// ParseTimestamp parses Prismic publication dates, which use a numeric zone
// without a colon. RFC 3339 is accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(prismicTimeLayout, s)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

// textField reads a key text field, or the plain text of a title field
// modelled as structured text.
func textField(res gjson.Result) (string, bool) {
	switch {
	case res.Type == gjson.String:
		return res.String(), true
	case res.IsArray():
		var rt richtext.RichText
		if err := json.Unmarshal([]byte(res.Raw), &rt); err != nil {
			return "", false
		}
		return richtext.AsText(rt), true
	default:
		return "", false
	}
}

func optionalText(res gjson.Result) *string {
	s, ok := textField(res)
	if !ok {
		return nil
	}
	return &s
}

func contentField(doc prismic.Document) ([]Section, error) {
	res := doc.Get("data.content")
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: document %s has no data.content", ErrMalformedDocument, doc.ID)
	}

	sections := make([]Section, 0, len(res.Array()))
	seen := make(map[string]int)
	for i, item := range res.Array() {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: document %s: data.content[%d] is not an object", ErrMalformedDocument, doc.ID, i)
		}

		heading, _ := textField(item.Get("heading"))

		var body richtext.RichText
		if b := item.Get("body"); b.IsArray() {
			if err := json.Unmarshal([]byte(b.Raw), &body); err != nil {
				return nil, fmt.Errorf("%w: document %s: data.content[%d].body: %v", ErrMalformedDocument, doc.ID, i, err)
			}
		}

		sections = append(sections, Section{Heading: heading, Anchor: util.HeadingID(heading, seen), Body: body})
	}
	return sections, nil
}
