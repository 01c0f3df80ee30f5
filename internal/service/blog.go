// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic and service layer functionality.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/olegiv/spacetraveling/internal/cache"
	"github.com/olegiv/spacetraveling/internal/post"
	"github.com/olegiv/spacetraveling/internal/prismic"
)

// ErrPostNotFound is returned when no published post has the requested UID.
var ErrPostNotFound = errors.New("post not found")

const (
	homeKey           = "home"
	pathsKey          = "paths"
	generationTimeout = 30 * time.Second
)

// ContentClient is the subset of the CMS client the blog needs.
type ContentClient interface {
	post.Searcher
	QueryCursor(ctx context.Context, cursor, ref string) (*prismic.Response, error)
	GetByUID(ctx context.Context, docType, uid, ref string) (prismic.Document, error)
	GetByID(ctx context.Context, id, ref string) (prismic.Document, error)
}

// Recorder receives blog service metrics.
type Recorder interface {
	cache.HitRecorder
	IncrementPostGenerations(success bool)
	IncrementRevalidations(success bool)
}

// BlogOptions configure a BlogService.
type BlogOptions struct {
	DocType          string
	PageSize         int
	StaticPathsLimit int
	ListingTTL       time.Duration // also used for negative post entries
	PostTTL          time.Duration
	Language         string
	Location         *time.Location
	Logger           *slog.Logger
	Metrics          Recorder
}

// postEntry is the cached outcome of generating one post. Missing marks a
// UID the CMS does not know, so repeat requests redirect without a fetch.
type postEntry struct {
	Detail  *post.Detail `json:"detail,omitempty"`
	Missing bool         `json:"missing,omitempty"`
}

type staticPaths struct {
	UIDs []string `json:"uids"`
}

// BlogService turns CMS documents into listing pages and post details,
// caching published results between revalidations.
type BlogService struct {
	client ContentClient
	nav    *post.NavigationResolver
	opts   BlogOptions
	logger *slog.Logger

	listing *cache.TypedCache[post.Page]
	posts   *cache.TypedCache[postEntry]
	paths   *cache.TypedCache[staticPaths]

	group singleflight.Group
}

// NewBlogService creates a BlogService backed by store.
func NewBlogService(client ContentClient, store cache.Cacher, opts BlogOptions) *BlogService {
	if opts.DocType == "" {
		opts.DocType = "posts"
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	if opts.StaticPathsLimit < 1 || opts.StaticPathsLimit > prismic.MaxPageSize {
		opts.StaticPathsLimit = prismic.MaxPageSize
	}
	if opts.ListingTTL <= 0 {
		opts.ListingTTL = 5 * time.Minute
	}
	if opts.PostTTL <= 0 {
		opts.PostTTL = time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var hits cache.HitRecorder
	if opts.Metrics != nil {
		hits = opts.Metrics
	}

	return &BlogService{
		client:  client,
		nav:     post.NewNavigationResolver(client, opts.DocType),
		opts:    opts,
		logger:  logger,
		listing: cache.NewTypedCache[post.Page](store, "listing", opts.ListingTTL, hits),
		posts:   cache.NewTypedCache[postEntry](store, "post", opts.PostTTL, hits),
		paths:   cache.NewTypedCache[staticPaths](store, "paths", opts.ListingTTL, hits),
	}
}

// Language returns the language labels are rendered in.
func (s *BlogService) Language() string {
	return s.opts.Language
}

// Location returns the time zone dates are displayed in.
func (s *BlogService) Location() *time.Location {
	return s.opts.Location
}

// HomePage returns the first listing page, cached for the listing TTL.
func (s *BlogService) HomePage(ctx context.Context) (post.Page, error) {
	page, err := s.listing.GetOrSet(ctx, homeKey, func() (*post.Page, error) {
		p, err := s.firstPage(ctx, "")
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return post.Page{}, err
	}
	return *page, nil
}

// PreviewHomePage returns the first listing page at a preview ref, uncached.
func (s *BlogService) PreviewHomePage(ctx context.Context, ref string) (post.Page, error) {
	return s.firstPage(ctx, ref)
}

func (s *BlogService) firstPage(ctx context.Context, ref string) (post.Page, error) {
	resp, err := s.client.Query(ctx, prismic.Query{
		Predicates: []prismic.Predicate{prismic.DocumentType(s.opts.DocType)},
		Fetch:      s.summaryFields(),
		PageSize:   s.opts.PageSize,
		Ref:        ref,
	})
	if err != nil {
		return post.Page{}, fmt.Errorf("fetching listing: %w", err)
	}
	return post.PageFromResponse(resp)
}

func (s *BlogService) summaryFields() []string {
	t := s.opts.DocType
	return []string{t + ".title", t + ".subtitle", t + ".author"}
}

// NextPage returns the page a cursor points at, read at ref (the master ref
// when empty). It is never cached.
func (s *BlogService) NextPage(ctx context.Context, cursor, ref string) (post.Page, error) {
	resp, err := s.client.QueryCursor(ctx, cursor, ref)
	if err != nil {
		return post.Page{}, err
	}
	return post.PageFromResponse(resp)
}

// Fetcher returns a post.PageFetcher that follows cursors at ref, so every
// page of a walk comes from the same release.
func (s *BlogService) Fetcher(ref string) post.PageFetcher {
	return post.PageFetcherFunc(func(ctx context.Context, cursor string) (post.Page, error) {
		return s.NextPage(ctx, cursor, ref)
	})
}

// Listing returns the first page, or the page cursor points at, followed by
// up to steps more pages, the way repeated "load more" clicks would build it.
// A non-empty ref reads a preview release for every page and bypasses the
// listing cache.
func (s *BlogService) Listing(ctx context.Context, cursor, ref string, steps int) (post.Page, error) {
	var (
		first post.Page
		err   error
	)
	switch {
	case cursor != "":
		first, err = s.NextPage(ctx, cursor, ref)
	case ref != "":
		first, err = s.PreviewHomePage(ctx, ref)
	default:
		first, err = s.HomePage(ctx)
	}
	if err != nil {
		return post.Page{}, err
	}

	w := post.NewWalker(first, s.Fetcher(ref))
	if err := w.LoadAll(ctx, steps); err != nil {
		return post.Page{}, err
	}
	return w.Page(), nil
}

// Post returns the detail for uid. A non-empty ref is a preview ref: the
// document is fetched at that revision and nothing is cached.
func (s *BlogService) Post(ctx context.Context, uid, ref string) (*post.Detail, error) {
	if ref != "" {
		return s.build(ctx, uid, ref)
	}

	if entry, ok := s.posts.Get(ctx, uid); ok {
		if entry.Missing {
			return nil, ErrPostNotFound
		}
		return entry.Detail, nil
	}
	return s.Generate(ctx, uid)
}

// Generate builds and caches the published post uid. Concurrent calls for
// the same uid share one build, which is detached from the caller's
// cancellation.
func (s *BlogService) Generate(ctx context.Context, uid string) (*post.Detail, error) {
	v, err, _ := s.group.Do(uid, func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generationTimeout)
		defer cancel()

		detail, err := s.build(gctx, uid, "")
		switch {
		case errors.Is(err, ErrPostNotFound):
			if cerr := s.posts.SetWithTTL(gctx, uid, &postEntry{Missing: true}, s.opts.ListingTTL); cerr != nil {
				s.logger.Warn("failed to cache missing post", "uid", uid, "error", cerr)
			}
			return nil, err
		case err != nil:
			s.recordGeneration(false)
			return nil, err
		}

		if cerr := s.posts.Set(gctx, uid, &postEntry{Detail: detail}); cerr != nil {
			s.logger.Warn("failed to cache post", "uid", uid, "error", cerr)
		}
		s.recordGeneration(true)
		s.logger.Debug("post generated", "uid", uid)
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*post.Detail), nil
}

// IsGenerated reports whether a cached result exists for uid, including a
// cached "missing" result.
func (s *BlogService) IsGenerated(ctx context.Context, uid string) bool {
	return s.posts.Has(ctx, uid)
}

func (s *BlogService) build(ctx context.Context, uid, ref string) (*post.Detail, error) {
	doc, err := s.client.GetByUID(ctx, s.opts.DocType, uid, ref)
	if err != nil {
		if prismic.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("fetching post %q: %w", uid, err)
	}

	p, err := post.Normalize(doc)
	if err != nil {
		return nil, err
	}

	nav, err := s.nav.Resolve(ctx, doc.ID, ref)
	if err != nil {
		return nil, err
	}

	return &post.Detail{
		Post:       p,
		Navigation: nav,
		Reading:    post.EstimateReadingTime(p.Content),
		Revision:   post.DetectRevision(s.opts.Language, s.opts.Location, p.FirstPublishedAt, p.LastPublishedAt),
	}, nil
}

// StaticPaths returns up to StaticPathsLimit post UIDs, cached for the
// listing TTL.
func (s *BlogService) StaticPaths(ctx context.Context) ([]string, error) {
	paths, err := s.paths.GetOrSet(ctx, pathsKey, func() (*staticPaths, error) {
		uids, err := s.fetchPaths(ctx)
		if err != nil {
			return nil, err
		}
		return &staticPaths{UIDs: uids}, nil
	})
	if err != nil {
		return nil, err
	}
	return paths.UIDs, nil
}

func (s *BlogService) fetchPaths(ctx context.Context) ([]string, error) {
	resp, err := s.client.Query(ctx, prismic.Query{
		Predicates: []prismic.Predicate{prismic.DocumentType(s.opts.DocType)},
		Fetch:      []string{},
		PageSize:   s.opts.StaticPathsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching static paths: %w", err)
	}

	uids := make([]string, 0, len(resp.Results))
	for _, doc := range resp.Results {
		if doc.UID != "" {
			uids = append(uids, doc.UID)
		}
	}
	return uids, nil
}

// Revalidate refreshes the listing and static paths and generates posts
// that are not cached yet. Cached posts keep their own TTL.
func (s *BlogService) Revalidate(ctx context.Context) (generated int, err error) {
	defer func() {
		if s.opts.Metrics != nil {
			s.opts.Metrics.IncrementRevalidations(err == nil)
		}
	}()

	page, err := s.firstPage(ctx, "")
	if err != nil {
		return 0, err
	}
	if err := s.listing.Set(ctx, homeKey, &page); err != nil {
		s.logger.Warn("failed to cache listing", "error", err)
	}

	uids, err := s.fetchPaths(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.paths.Set(ctx, pathsKey, &staticPaths{UIDs: uids}); err != nil {
		s.logger.Warn("failed to cache static paths", "error", err)
	}

	var errs []error
	for _, uid := range uids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if entry, ok := s.posts.Get(ctx, uid); ok && !entry.Missing {
			continue
		}
		if _, gerr := s.Generate(ctx, uid); gerr != nil {
			errs = append(errs, fmt.Errorf("%s: %w", uid, gerr))
			continue
		}
		generated++
	}
	return generated, errors.Join(errs...)
}

// ResolvePreview returns the path to open for a preview session: the post
// page of the previewed document, or "/" when it has no UID or cannot be
// found at the preview ref.
func (s *BlogService) ResolvePreview(ctx context.Context, ref, documentID string) (string, error) {
	if documentID == "" {
		return "/", nil
	}
	doc, err := s.client.GetByID(ctx, documentID, ref)
	if err != nil {
		if prismic.IsNotFound(err) {
			return "/", nil
		}
		return "", err
	}
	if doc.Type != s.opts.DocType || doc.UID == "" {
		return "/", nil
	}
	return "/post/" + doc.UID, nil
}

func (s *BlogService) recordGeneration(success bool) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.IncrementPostGenerations(success)
	}
}
