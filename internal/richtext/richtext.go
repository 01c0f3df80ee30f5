// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext converts Prismic structured text into plain text and
// sanitized HTML.
package richtext

import "strings"

// Block types emitted by Prismic structured text fields.
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeHeading1     = "heading1"
	TypeHeading2     = "heading2"
	TypeHeading3     = "heading3"
	TypeHeading4     = "heading4"
	TypeHeading5     = "heading5"
	TypeHeading6     = "heading6"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
	TypeEmbed        = "embed"
)

// Span types.
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
	SpanLabel     = "label"
)

// RichText is an ordered list of structured text blocks.
type RichText []Block

// Block is one structured text element.
type Block struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	Spans      []Span      `json:"spans,omitempty"`
	URL        string      `json:"url,omitempty"`
	Alt        *string     `json:"alt,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Oembed     *Embed      `json:"oembed,omitempty"`
}

// Dimensions of an image block.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Embed is the oEmbed payload of an embed block.
type Embed struct {
	EmbedURL     string `json:"embed_url"`
	Type         string `json:"type"`
	Title        string `json:"title,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Span marks up a range of a block's text. Start and End are UTF-16 code
// unit offsets.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

// SpanData carries hyperlink targets and label names.
type SpanData struct {
	LinkType string `json:"link_type,omitempty"` // Web, Document, Media
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	ID       string `json:"id,omitempty"`
	UID      string `json:"uid,omitempty"`
	Type     string `json:"type,omitempty"`
	Label    string `json:"label,omitempty"`
}

// AsText flattens rich text to plain text, one line per block.
func AsText(rt RichText) string {
	parts := make([]string, 0, len(rt))
	for _, b := range rt {
		if b.Text == "" {
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n")
}

// WordCount counts whitespace-separated words in the plain text rendering.
func WordCount(rt RichText) int {
	n := 0
	for _, b := range rt {
		n += len(strings.Fields(b.Text))
	}
	return n
}

func isHeading(t string) bool {
	return len(t) == len(TypeHeading1) && strings.HasPrefix(t, "heading") && t[7] >= '1' && t[7] <= '6'
}

func isListItem(t string) bool {
	return t == TypeListItem || t == TypeOListItem
}
