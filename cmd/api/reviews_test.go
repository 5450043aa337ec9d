package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"welp/internal/domain/reviews"
	"welp/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippetOf_ShortContentUntouched(t *testing.T) {
	assert.Equal(t, "short review", snippetOf("short review"))
}

func TestSnippetOf_TruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("é", 100)

	snippet := snippetOf(content)

	assert.True(t, utf8.ValidString(snippet))
	assert.Equal(t, strings.Repeat("é", 80)+"...", snippet)
}

func TestRedactReview_LockedHidesContactFields(t *testing.T) {
	name := "Jane Doe"
	review := &reviews.Review{
		ID:           3,
		BusinessID:   10,
		BusinessName: "Acme Plumbing",
		Rating:       2,
		Content:      "Long story about a no-show appointment.",
		CustomerName: &name,
	}

	view := redactReview(review, nil, false)

	assert.NotContains(t, view, "content")
	assert.NotContains(t, view, "customer_name")
	assert.NotContains(t, view, "customer_phone")
	require.Contains(t, view, "content_snippet")
	assert.Equal(t, review.Content, view["content_snippet"])
}

func TestRedactReview_AnonymousHidesBusinessExceptFromAuthor(t *testing.T) {
	review := &reviews.Review{
		ID:           3,
		BusinessID:   10,
		BusinessName: "Acme Plumbing",
		IsAnonymous:  true,
		Rating:       2,
		Content:      "text",
	}

	public := redactReview(review, nil, false)
	assert.NotContains(t, public, "business_id")
	assert.NotContains(t, public, "business_name")

	author := &users.User{ID: 10, AccountType: users.AccountBusiness}
	own := redactReview(review, author, false)
	assert.Equal(t, int64(10), own["business_id"])
	assert.Equal(t, "text", own["content"])
}
