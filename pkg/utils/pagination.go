package utils

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// Pagination is the metadata block returned next to every paginated list.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	HasMore     bool  `json:"hasMore"`
	Limit       int   `json:"limit"`
}

// NewPagination derives totalPages = ceil(total/limit) and hasMore = page < totalPages.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}

	return Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasMore:     page < totalPages,
		Limit:       limit,
	}
}

// NormalizePagination clamps page to >= 1 and pageSize to [1, maxPageSize],
// falling back to defaultPageSize when pageSize is not positive.
func NormalizePagination(page, pageSize, defaultPageSize, maxPageSize int) PaginationParams {
	if page <= 0 {
		page = 1
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	// Keep (page-1)*pageSize inside int. Such a page is past the end of any
	// collection, so the result is the same empty page.
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
