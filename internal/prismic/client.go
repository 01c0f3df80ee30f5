// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package prismic is a small client for the Prismic REST API v2. It covers
// the operations the blog needs: master ref resolution, document search with
// cursor pagination, and lookups by UID or ID.
package prismic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default settings.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRate    = 20 // requests per second
	refTTL         = 5 * time.Second
	maxBodySize    = 8 << 20
)

// Recorder receives one observation per API call.
type Recorder interface {
	RecordCMSRequest(operation, status string, duration time.Duration)
}

// Options configure a Client.
type Options struct {
	Endpoint          string // API entry point, e.g. https://repo.cdn.prismic.io/api/v2
	AccessToken       string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
	Metrics           Recorder
}

// Client is safe for concurrent use. Its configuration is fixed at construction.
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	metrics  Recorder

	refMu     sync.Mutex
	masterRef string
	refAt     time.Time
	now       func() time.Time
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", opts.Endpoint)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: u,
		token:    opts.AccessToken,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		logger:   logger,
		metrics:  opts.Metrics,
		now:      time.Now,
	}, nil
}

// Endpoint returns the API entry point.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// MasterRef returns the current master ref. It is memoized briefly so a
// burst of queries shares one entry point call.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	c.refMu.Lock()
	defer c.refMu.Unlock()

	if c.masterRef != "" && c.now().Sub(c.refAt) < refTTL {
		return c.masterRef, nil
	}

	var info apiInfo
	if err := c.get(ctx, "api", c.endpoint.String(), url.Values{}, &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			c.masterRef = r.Ref
			c.refAt = c.now()
			return r.Ref, nil
		}
	}
	return "", ErrNoMasterRef
}

// Query runs a documents search.
func (c *Client) Query(ctx context.Context, q Query) (*Response, error) {
	ref, err := c.resolveRef(ctx, q.Ref)
	if err != nil {
		return nil, err
	}
	return c.search(ctx, "query", q.values(ref))
}

// QueryCursor fetches the page a cursor points at. Cursors never carry a ref:
// an empty ref reads the current master ref, anything else a preview release.
func (c *Client) QueryCursor(ctx context.Context, cursor, ref string) (*Response, error) {
	params, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	ref, err = c.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	params.Set("ref", ref)
	return c.search(ctx, "cursor", params)
}

// GetByUID returns the document of docType with the given UID.
func (c *Client) GetByUID(ctx context.Context, docType, uid, ref string) (Document, error) {
	return c.getOne(ctx, "get_by_uid", Query{
		Predicates: []Predicate{At("my."+docType+".uid", uid)},
		PageSize:   1,
		Ref:        ref,
	})
}

// GetByID returns the document with the given ID.
func (c *Client) GetByID(ctx context.Context, id, ref string) (Document, error) {
	return c.getOne(ctx, "get_by_id", Query{
		Predicates: []Predicate{At("document.id", id)},
		PageSize:   1,
		Ref:        ref,
	})
}

func (c *Client) getOne(ctx context.Context, operation string, q Query) (Document, error) {
	ref, err := c.resolveRef(ctx, q.Ref)
	if err != nil {
		return Document{}, err
	}
	resp, err := c.search(ctx, operation, q.values(ref))
	if err != nil {
		return Document{}, err
	}
	if len(resp.Results) == 0 {
		return Document{}, ErrNotFound
	}
	return resp.Results[0], nil
}

func (c *Client) resolveRef(ctx context.Context, ref string) (string, error) {
	if ref != "" {
		return ref, nil
	}
	return c.MasterRef(ctx)
}

func (c *Client) search(ctx context.Context, operation string, params url.Values) (*Response, error) {
	var resp Response
	if err := c.get(ctx, operation, c.endpoint.String()+"/documents/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, operation, rawURL string, params url.Values, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordCMSRequest(operation, status, time.Since(start))
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("prismic: %s: %w", operation, err)
	}

	if c.token != "" {
		params.Set("access_token", c.token)
	}
	reqURL := rawURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("prismic: %s: building request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("prismic: %s: %w", operation, err)
	}
	defer func() { _ = res.Body.Close() }()

	status = strconv.Itoa(res.StatusCode)
	body := io.LimitReader(res.Body, maxBodySize)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Operation: operation, StatusCode: res.StatusCode, Message: errorMessage(body)}
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("prismic: %s: decoding response: %w", operation, err)
	}

	c.logger.Debug("prismic request", "operation", operation, "status", res.StatusCode, "duration", time.Since(start))
	return nil
}

// errorMessage extracts the "message" or "error" field of an error body.
func errorMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
