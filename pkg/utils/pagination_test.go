package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page       int
		limit      int
		totalPages int
		hasMore    bool
	}{
		{"empty", 0, 1, 10, 0, false},
		{"exact fit", 20, 1, 10, 2, true},
		{"last page", 20, 2, 10, 2, false},
		{"partial last page", 21, 2, 10, 3, true},
		{"beyond last page", 5, 4, 10, 1, false},
		{"single item", 1, 1, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)

			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasMore, p.HasMore)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestNormalizePagination(t *testing.T) {
	p := NormalizePagination(0, 0, 10, 100)
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10, Offset: 0}, p)

	p = NormalizePagination(3, 500, 10, 100)
	assert.Equal(t, PaginationParams{Page: 3, PageSize: 100, Offset: 200}, p)

	p = NormalizePagination(2, 5, 10, 100)
	assert.Equal(t, 5, p.Offset)
}

func TestNormalizePaginationHugePage(t *testing.T) {
	for _, size := range []int{1, 7, 10, 100} {
		p := NormalizePagination(math.MaxInt, size, 10, 100)

		assert.GreaterOrEqual(t, p.Offset, 0)
		assert.Equal(t, (p.Page-1)*p.PageSize, p.Offset)
		assert.GreaterOrEqual(t, p.Offset+p.PageSize, p.Offset, "offset+pageSize must not overflow")
	}

	p := NormalizePagination(1e18, 10, 10, 100)
	assert.Positive(t, p.Offset)
}
