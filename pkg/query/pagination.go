package query

import "fmt"

// Direction orders a sort key.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Sort is one ordering key. A sequence of Sort entries defines multi-key
// ordering with the first entry taking precedence.
type Sort struct {
	Field     string
	Direction Direction
}

// Pagination selects one page of results. Page and PerPage are 1-based.
type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination validates page and per-page bounds.
func NewPagination(page, perPage int) (Pagination, error) {
	if page < 1 {
		return Pagination{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if perPage < 1 {
		return Pagination{}, fmt.Errorf("per_page must be >= 1, got %d", perPage)
	}
	return Pagination{Page: page, PerPage: perPage}, nil
}

// Limit returns the row cap for the page.
func (p Pagination) Limit() int { return p.PerPage }

// Offset returns the number of rows preceding the page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// PaginatedResult is one page of data plus the totals computed at query
// time. The count and the page rows come from two independent statements,
// so under concurrent writes they may observe different snapshots.
type PaginatedResult[T any] struct {
	Data        []T
	TotalCount  int64
	CurrentPage int
	TotalPages  int
	PerPage     int
}

// NewPaginatedResult computes TotalPages as ceil(totalCount / perPage).
func NewPaginatedResult[T any](data []T, totalCount int64, p Pagination) *PaginatedResult[T] {
	totalPages := int((totalCount + int64(p.PerPage) - 1) / int64(p.PerPage))
	return &PaginatedResult[T]{
		Data:        data,
		TotalCount:  totalCount,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		PerPage:     p.PerPage,
	}
}
