package shared

// Filter carries paging, ordering and free-text search for list queries.
// OrderBy is validated against a whitelist by each repository.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// Paged reports whether the query should be limited to one page
func (f Filter) Paged() bool {
	return f.PageSize > 0
}

// Offset returns the number of rows to skip; pages are 1-based and a page
// below 1 is treated as the first.
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
