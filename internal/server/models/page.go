package models

// Page is one page of a listing.
type Page[T any] struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	IsNextPage bool  `json:"isNextPage"`
	Data       []T   `json:"data"`
}

// NewPage builds a Page; IsNextPage is set when total exceeds page*pageSize.
func NewPage[T any](data []T, total int64, page, pageSize int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Total:      total,
		Page:       page,
		IsNextPage: total > int64(page)*int64(pageSize),
		Data:       data,
	}
}
