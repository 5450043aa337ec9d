package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination_Defaults(t *testing.T) {
	p := ParsePagination(url.Values{})

	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePagination_ClampsLimit(t *testing.T) {
	q := url.Values{"limit": {"500"}, "page": {"3"}}
	p := ParsePagination(q)

	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 100, p.Offset)
}

func TestParsePagination_IgnoresGarbage(t *testing.T) {
	q := url.Values{"limit": {"abc"}, "page": {"-2"}}
	p := ParsePagination(q)

	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 1, p.Page)
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 20, Page: 2, Offset: 20}
	p.ComputeMeta(45)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
