// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"strconv"
	"time"
)

// Provider records application metrics into the package collectors.
// The zero value is ready to use.
type Provider struct{}

// NewProvider returns a Provider.
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) RecordCMSRequest(operation, status string, duration time.Duration) {
	CMSRequestsTotal.WithLabelValues(operation, status).Inc()
	CMSRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *Provider) IncrementCacheHits(cache string) {
	CacheHitsTotal.WithLabelValues(cache).Inc()
}

func (p *Provider) IncrementCacheMisses(cache string) {
	CacheMissesTotal.WithLabelValues(cache).Inc()
}

func (p *Provider) RecordPageRender(page string, success bool, duration time.Duration) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	PageRendersTotal.WithLabelValues(page, outcome).Inc()
	PageRenderDuration.WithLabelValues(page).Observe(duration.Seconds())
}

func (p *Provider) IncrementPostGenerations(success bool) {
	PostGenerationsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (p *Provider) IncrementRevalidations(success bool) {
	RevalidationsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (p *Provider) IncrementLogEvents(level, category string) {
	LogEventsTotal.WithLabelValues(level, category).Inc()
}
