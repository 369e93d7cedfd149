package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 5000}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, 2*defaultPerPage, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	pg = NewPagination(1, 10, 0)
	assert.Equal(t, 0, pg.TotalPages)
	assert.False(t, pg.HasNext)
}

func TestNewPaginatedResult_NilItems(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, 10, 0))
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
