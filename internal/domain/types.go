package domain

// ID is used across domain entities.
type ID int64

// PagedResult is one page of a list read. It is replaced wholesale on refetch.
type PagedResult[T any] struct {
	Items            []T `json:"items"`
	TotalPages       int `json:"totalPages"`
	NumberOfElements int `json:"numberOfElements"`
}

// NewPagedResult derives TotalPages from the total match count.
func NewPagedResult[T any](items []T, total, pageSize int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PagedResult[T]{
		Items:            items,
		TotalPages:       pages,
		NumberOfElements: total,
	}
}

// Envelope is the {"data": ...} wrapper used by every success response.
type Envelope[T any] struct {
	Data T `json:"data"`
}
