// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/spacetraveling/internal/richtext"
)

func TestMinutesFor(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
		{-5, 0},
	}

	for _, tt := range tests {
		if got := MinutesFor(tt.words); got != tt.want {
			t.Errorf("MinutesFor(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestEstimateReadingTime(t *testing.T) {
	body := func(texts ...string) richtext.RichText {
		rt := make(richtext.RichText, 0, len(texts))
		for _, s := range texts {
			rt = append(rt, richtext.Block{Type: richtext.TypeParagraph, Text: s})
		}
		return rt
	}

	tests := []struct {
		name     string
		sections []Section
		words    int
		minutes  int
	}{
		{"no sections", nil, 0, 0},
		{"heading only", []Section{{Heading: "Proin et varius"}}, 3, 1},
		{
			"heading and body",
			[]Section{{Heading: "Um dois", Body: body("três quatro cinco", "seis")}},
			6, 1,
		},
		{
			"exactly two hundred",
			[]Section{{Heading: "", Body: body(strings.Repeat("palavra ", 200))}},
			200, 1,
		},
		{
			"two hundred and one across sections",
			[]Section{
				{Heading: "título", Body: body(strings.Repeat("a ", 100))},
				{Heading: "", Body: body(strings.Repeat("b ", 100))},
			},
			201, 2,
		},
		{
			"irregular whitespace",
			[]Section{{Heading: "  muitos   espaços ", Body: body("\tum\n dois  ")}},
			4, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateReadingTime(tt.sections)
			assert.Equal(t, tt.words, got.Words)
			assert.Equal(t, tt.minutes, got.Minutes)
		})
	}
}

func TestIsEdited(t *testing.T) {
	first := time.Date(2021, 3, 25, 19, 25, 0, 0, time.UTC)
	same := first.In(time.FixedZone("BRT", -3*3600))
	later := first.Add(24 * time.Hour)
	tiny := first.Add(time.Second)

	assert.False(t, IsEdited(&first, &same), "same instant in another zone")
	assert.True(t, IsEdited(&first, &later))
	assert.True(t, IsEdited(&first, &tiny), "no tolerance window")
	assert.False(t, IsEdited(nil, &later))
	assert.False(t, IsEdited(&first, nil))
	assert.False(t, IsEdited(nil, nil))
}

func TestDetectRevision(t *testing.T) {
	initCatalog(t)
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	first := time.Date(2021, 3, 25, 19, 25, 0, 0, time.UTC)

	t.Run("unedited", func(t *testing.T) {
		rev := DetectRevision("pt-BR", sp, &first, &first)
		assert.False(t, rev.Edited)
		assert.Empty(t, rev.Label)
		assert.Nil(t, rev.EditedAt)
	})

	t.Run("edited a day later", func(t *testing.T) {
		last := time.Date(2021, 3, 26, 17, 5, 0, 0, time.UTC)
		rev := DetectRevision("pt-BR", sp, &first, &last)
		assert.True(t, rev.Edited)
		assert.Equal(t, "* editado em 26 mar 2021, às 14:05", rev.Label)
		require.NotNil(t, rev.EditedAt)
		assert.True(t, rev.EditedAt.Equal(last))
	})

	t.Run("english", func(t *testing.T) {
		last := time.Date(2021, 3, 26, 17, 5, 0, 0, time.UTC)
		rev := DetectRevision("en", time.UTC, &first, &last)
		assert.Equal(t, "* edited on 26 Mar 2021, at 17:05", rev.Label)
	})
}
