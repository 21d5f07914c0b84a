package model

import "math"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is one slice of an id-ordered listing.
type Page[T any] struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	Data        []T   `json:"data"`
}

// NewPage fills in LastPage and guarantees a non-nil Data slice.
func NewPage[T any](data []T, page, perPage int, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Page[T]{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
		Data:        data,
	}
}

// NormalizePaging clamps page and perPage to usable values. page is capped so
// the row offset stays within int32.
func NormalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if maxPage := math.MaxInt32/perPage + 1; page > maxPage {
		page = maxPage
	}
	return page, perPage
}

// Offset is the number of rows preceding the page.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}
