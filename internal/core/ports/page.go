package ports

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery is a 1-based page request.
type PageQuery struct {
	Page int
	Size int
}

// Normalize clamps Size into [1, MaxPageSize]. Page is left alone so that
// out-of-range pages can still be rejected.
func (q PageQuery) Normalize() PageQuery {
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Offset is the number of rows to skip.
func (q PageQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Size
}

// TotalPages never returns less than 1 so that page 1 of an empty set is valid.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items     []T
	Total     int64
	TotalPage int
}
