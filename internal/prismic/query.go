// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"net/url"
	"strconv"
	"strings"
)

// Orderings accepted by the search endpoint.
const (
	OrderFirstPublicationDesc = "[document.first_publication_date desc]"
	OrderFirstPublicationAsc  = "[document.first_publication_date]"
)

// MaxPageSize is the largest page the search endpoint serves.
const MaxPageSize = 100

// Predicate is one clause of the q parameter.
type Predicate string

// At matches documents where path equals value.
func At(path, value string) Predicate {
	return Predicate("[at(" + path + "," + strconv.Quote(value) + ")]")
}

// DocumentType matches documents of the given custom type.
func DocumentType(t string) Predicate {
	return At("document.type", t)
}

// Query describes a documents search.
type Query struct {
	Predicates []Predicate
	Fetch      []string // field projection, e.g. "posts.title"; nil fetches everything
	PageSize   int
	Page       int
	Orderings  string
	After      string // document id; results start after it in the given ordering
	Ref        string // content release or preview ref; empty means master
}

func (q Query) values(ref string) url.Values {
	v := url.Values{}
	v.Set("ref", ref)

	if len(q.Predicates) > 0 {
		var b strings.Builder
		b.WriteByte('[')
		for _, p := range q.Predicates {
			b.WriteString(string(p))
		}
		b.WriteByte(']')
		v.Set("q", b.String())
	}
	if q.Fetch != nil {
		v.Set("fetch", strings.Join(q.Fetch, ","))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(min(q.PageSize, MaxPageSize)))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Orderings != "" {
		v.Set("orderings", q.Orderings)
	}
	if q.After != "" {
		v.Set("after", q.After)
	}

	return v
}
