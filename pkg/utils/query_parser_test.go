package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
	assert.True(t, filter.WithPagination)
	assert.Empty(t, filter.Filter)
	assert.Empty(t, filter.Sort)
}

func TestParseFilterFromQueryFull(t *testing.T) {
	q := url.Values{}
	q.Set("filter[role]", "1")
	q.Set("filter[active]", "true")
	q.Set("sort[created_at]", "DESC")
	q.Set("search", "acme")
	q.Set("limit", "25")
	q.Set("page", "3")

	filter := ParseFilterFromQuery(q)

	assert.Equal(t, "1", filter.Filter["role"])
	assert.Equal(t, "true", filter.Filter["active"])
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.Equal(t, "acme", filter.Search)
	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 50, filter.Offset)
}

func TestParseFilterFromQueryOffsetWinsOverPage(t *testing.T) {
	q := url.Values{}
	q.Set("limit", "10")
	q.Set("offset", "40")
	q.Set("page", "2")

	filter := ParseFilterFromQuery(q)

	assert.Equal(t, 40, filter.Offset)
	assert.Equal(t, 5, filter.Page)
}

func TestParseFilterFromQueryDisablePagination(t *testing.T) {
	q := url.Values{}
	q.Set("withPagination", "false")

	filter := ParseFilterFromQuery(q)
	assert.False(t, filter.WithPagination)
}

func TestParseFilterFromQueryIgnoresGarbage(t *testing.T) {
	q := url.Values{}
	q.Set("limit", "-5")
	q.Set("offset", "x")
	q.Set("page", "0")

	filter := ParseFilterFromQuery(q)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
}
