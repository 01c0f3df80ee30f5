// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/spacetraveling/internal/prismic"
)

// NavLink points at an adjacent post.
type NavLink struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
}

// Navigation holds the posts published immediately before and after the
// current one. Either side may be nil.
type Navigation struct {
	Previous *NavLink `json:"previous,omitempty"`
	Next     *NavLink `json:"next,omitempty"`
}

// Searcher runs content queries.
type Searcher interface {
	Query(ctx context.Context, q prismic.Query) (*prismic.Response, error)
}

// NavigationResolver finds adjacent posts by first publication date. Both
// directions use the same field, so previous and next are mirror images.
type NavigationResolver struct {
	client  Searcher
	docType string
}

// NewNavigationResolver creates a resolver for documents of docType.
func NewNavigationResolver(client Searcher, docType string) *NavigationResolver {
	return &NavigationResolver{client: client, docType: docType}
}

// Resolve looks up both neighbours of the document with the given id.
func (r *NavigationResolver) Resolve(ctx context.Context, documentID, ref string) (Navigation, error) {
	var nav Navigation
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		link, err := r.neighbour(gctx, documentID, ref, prismic.OrderFirstPublicationDesc)
		if err != nil {
			return fmt.Errorf("resolving previous post: %w", err)
		}
		nav.Previous = link
		return nil
	})
	g.Go(func() error {
		link, err := r.neighbour(gctx, documentID, ref, prismic.OrderFirstPublicationAsc)
		if err != nil {
			return fmt.Errorf("resolving next post: %w", err)
		}
		nav.Next = link
		return nil
	})

	if err := g.Wait(); err != nil {
		return Navigation{}, err
	}
	return nav, nil
}

func (r *NavigationResolver) neighbour(ctx context.Context, documentID, ref, orderings string) (*NavLink, error) {
	resp, err := r.client.Query(ctx, prismic.Query{
		Predicates: []prismic.Predicate{prismic.DocumentType(r.docType)},
		Fetch:      []string{r.docType + ".title"},
		PageSize:   1,
		Orderings:  orderings,
		After:      documentID,
		Ref:        ref,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	s, err := NormalizeSummary(resp.Results[0])
	if err != nil {
		return nil, err
	}
	return &NavLink{UID: s.UID, Title: s.Title}, nil
}
