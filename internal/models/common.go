package models

// Pagination carries offset pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

const (
	defaultPageSize = 20
	// MaxPageSize caps how many rows a single list page may return.
	MaxPageSize = 100
)

// NormalizePaging clamps requested paging values to the supported window.
// Repositories and the pagination envelope both use the returned values, so
// the reported page_size always matches what was actually queried.
func NormalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = defaultPageSize
	}
	return page, size
}
