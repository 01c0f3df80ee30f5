// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package prismic

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	next := `https://spacetraveling.cdn.prismic.io/api/v2/documents/search?ref=YEp&q=%5B%5Bat%28document.type%2C%22posts%22%29%5D%5D&page=2&pageSize=1&fetch=posts.title`

	c, err := EncodeCursor(next)
	require.NoError(t, err)
	assert.NotContains(t, c, "prismic.io")

	v, err := DecodeCursor(c)
	require.NoError(t, err)
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "1", v.Get("pageSize"))
	assert.Equal(t, `[[at(document.type,"posts")]]`, v.Get("q"))
	assert.Equal(t, "posts.title", v.Get("fetch"))
	assert.Empty(t, v.Get("ref"), "ref is resolved at fetch time")
}

func TestCursor_StripsCredentialsAndUnknownParams(t *testing.T) {
	c, err := EncodeCursor("https://repo.cdn.prismic.io/api/v2/documents/search?page=3&access_token=secret&callback=x")
	require.NoError(t, err)

	v, err := DecodeCursor(c)
	require.NoError(t, err)
	assert.Empty(t, v.Get("access_token"))
	assert.Empty(t, v.Get("callback"))
	assert.Equal(t, "3", v.Get("page"))

	forged := base64.RawURLEncoding.EncodeToString([]byte("page=2&access_token=stolen&host=evil.example"))
	v, err = DecodeCursor(forged)
	require.NoError(t, err)
	assert.Empty(t, v.Get("access_token"))
	assert.Empty(t, v.Get("host"))
}

func TestCursor_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"not base64":    "%%%",
		"missing page":  base64.RawURLEncoding.EncodeToString([]byte("pageSize=1")),
		"zero page":     base64.RawURLEncoding.EncodeToString([]byte("page=0")),
		"negative page": base64.RawURLEncoding.EncodeToString([]byte("page=-4")),
		"bad query":     base64.RawURLEncoding.EncodeToString([]byte("page=2&%zz")),
	}

	for name, cursor := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(cursor)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestEncodeCursor_RequiresPage(t *testing.T) {
	_, err := EncodeCursor("https://repo.cdn.prismic.io/api/v2/documents/search?pageSize=1")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestQuery_Values(t *testing.T) {
	q := Query{
		Predicates: []Predicate{DocumentType("posts"), At("my.posts.uid", `a"b`)},
		Fetch:      []string{},
		PageSize:   500,
		Page:       1,
	}

	v := q.values("ref-1")
	assert.Equal(t, "ref-1", v.Get("ref"))
	assert.Equal(t, `[[at(document.type,"posts")][at(my.posts.uid,"a\"b")]]`, v.Get("q"))
	assert.Equal(t, "100", v.Get("pageSize"))
	assert.Empty(t, v.Get("page"))
	_, hasFetch := v["fetch"]
	assert.True(t, hasFetch, "empty projection is sent explicitly")
}
