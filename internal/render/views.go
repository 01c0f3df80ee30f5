// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"

	"github.com/olegiv/spacetraveling/internal/post"
)

// Page template names.
const (
	PageHome     = "home"
	PagePost     = "post"
	PageLoading  = "loading"
	PageNotFound = "404"
	PageError    = "error"
)

// HomeView is the data of the listing page. More is the number of load-more
// steps already applied server side, MaxMore the cap on them. NextHref is the
// load-more link for browsers without JavaScript.
type HomeView struct {
	Page     post.Page
	More     int
	MaxMore  int
	NextHref string
}

// PostView is the data of the post page.
type PostView struct {
	Detail   *post.Detail
	Comments template.HTML
}

// ErrorView is the data of the generic error page.
type ErrorView struct {
	Status     int
	MessageKey string
}
