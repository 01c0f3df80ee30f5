// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"html"
	"html/template"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/microcosm-cc/bluemonday"
)

// LinkResolver maps a hyperlink span to an href. An empty result drops the link.
type LinkResolver func(link SpanData) string

// DefaultLinkResolver links web and media URLs directly and documents by UID
// under /post/.
func DefaultLinkResolver(link SpanData) string {
	switch link.LinkType {
	case "Document":
		if link.UID == "" {
			return ""
		}
		return "/post/" + link.UID
	default:
		return link.URL
	}
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9 _-]+$`)).OnElements("p", "span", "div")
	return p
}

// AsHTML renders rich text to sanitized HTML using DefaultLinkResolver.
func AsHTML(rt RichText) template.HTML {
	return AsHTMLWith(rt, DefaultLinkResolver)
}

// AsHTMLWith renders rich text to sanitized HTML.
func AsHTMLWith(rt RichText, resolve LinkResolver) template.HTML {
	if resolve == nil {
		resolve = DefaultLinkResolver
	}

	var b strings.Builder
	for i := 0; i < len(rt); {
		blk := rt[i]
		if isListItem(blk.Type) {
			tag := "ul"
			if blk.Type == TypeOListItem {
				tag = "ol"
			}
			b.WriteString("<" + tag + ">")
			for i < len(rt) && rt[i].Type == blk.Type {
				b.WriteString("<li>")
				b.WriteString(renderSpans(rt[i].Text, rt[i].Spans, resolve))
				b.WriteString("</li>")
				i++
			}
			b.WriteString("</" + tag + ">")
			continue
		}
		writeBlock(&b, blk, resolve)
		i++
	}

	return template.HTML(policy.Sanitize(b.String())) //nolint:gosec // sanitized by bluemonday
}

func writeBlock(b *strings.Builder, blk Block, resolve LinkResolver) {
	switch {
	case blk.Type == TypeParagraph:
		b.WriteString("<p>" + renderSpans(blk.Text, blk.Spans, resolve) + "</p>")
	case isHeading(blk.Type):
		tag := "h" + blk.Type[7:]
		b.WriteString("<" + tag + ">" + renderSpans(blk.Text, blk.Spans, resolve) + "</" + tag + ">")
	case blk.Type == TypePreformatted:
		b.WriteString("<pre>" + html.EscapeString(blk.Text) + "</pre>")
	case blk.Type == TypeImage:
		if blk.URL == "" {
			return
		}
		b.WriteString(`<p class="block-img"><img src="` + html.EscapeString(blk.URL) + `"`)
		if blk.Alt != nil {
			b.WriteString(` alt="` + html.EscapeString(*blk.Alt) + `"`)
		}
		if blk.Dimensions != nil && blk.Dimensions.Width > 0 && blk.Dimensions.Height > 0 {
			b.WriteString(` width="` + strconv.Itoa(blk.Dimensions.Width) + `" height="` + strconv.Itoa(blk.Dimensions.Height) + `"`)
		}
		b.WriteString("></p>")
	case blk.Type == TypeEmbed:
		if blk.Oembed == nil || blk.Oembed.EmbedURL == "" {
			return
		}
		title := blk.Oembed.Title
		if title == "" {
			title = blk.Oembed.EmbedURL
		}
		b.WriteString(`<div class="embed"><a href="` + html.EscapeString(blk.Oembed.EmbedURL) + `">` + html.EscapeString(title) + `</a></div>`)
	default:
		if blk.Text != "" {
			b.WriteString("<p>" + renderSpans(blk.Text, blk.Spans, resolve) + "</p>")
		}
	}
}

// renderSpans applies span markup to text. Overlapping spans are split so
// the output stays well nested.
func renderSpans(text string, spans []Span, resolve LinkResolver) string {
	units := utf16.Encode([]rune(text))
	n := len(units)

	active := make([]Span, 0, len(spans))
	for _, s := range spans {
		s.Start = max(0, min(s.Start, n))
		s.End = max(0, min(s.End, n))
		if s.Start < s.End {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return escapeText(text)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Start != active[j].Start {
			return active[i].Start < active[j].Start
		}
		return active[i].End > active[j].End
	})

	bounds := []int{0, n}
	for _, s := range active {
		bounds = append(bounds, s.Start, s.End)
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	var b strings.Builder
	var stack []int
	for k := 0; k+1 < len(bounds); k++ {
		from, to := bounds[k], bounds[k+1]

		var covering []int
		for i, s := range active {
			if s.Start <= from && s.End >= to {
				covering = append(covering, i)
			}
		}

		keep := 0
		for keep < len(stack) && keep < len(covering) && stack[keep] == covering[keep] {
			keep++
		}
		for j := len(stack) - 1; j >= keep; j-- {
			b.WriteString(closeTag(active[stack[j]], resolve))
		}
		stack = stack[:keep]
		for _, i := range covering[keep:] {
			b.WriteString(openTag(active[i], resolve))
			stack = append(stack, i)
		}

		b.WriteString(escapeText(string(utf16.Decode(units[from:to]))))
	}
	for j := len(stack) - 1; j >= 0; j-- {
		b.WriteString(closeTag(active[stack[j]], resolve))
	}

	return b.String()
}

func openTag(s Span, resolve LinkResolver) string {
	switch s.Type {
	case SpanStrong:
		return "<strong>"
	case SpanEm:
		return "<em>"
	case SpanHyperlink:
		if href := linkHref(s, resolve); href != "" {
			return `<a href="` + html.EscapeString(href) + `">`
		}
		return ""
	case SpanLabel:
		if s.Data != nil && s.Data.Label != "" {
			return `<span class="` + html.EscapeString(s.Data.Label) + `">`
		}
		return "<span>"
	default:
		return "<span>"
	}
}

func closeTag(s Span, resolve LinkResolver) string {
	switch s.Type {
	case SpanStrong:
		return "</strong>"
	case SpanEm:
		return "</em>"
	case SpanHyperlink:
		if linkHref(s, resolve) != "" {
			return "</a>"
		}
		return ""
	default:
		return "</span>"
	}
}

func linkHref(s Span, resolve LinkResolver) string {
	if s.Data == nil {
		return ""
	}
	return resolve(*s.Data)
}

func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
