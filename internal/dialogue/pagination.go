package dialogue

import "fmt"

// Row budgets per screen. Category pages leave one row for the "all" entry.
const (
	categoryPageSize = 9
	itemPageSize     = 10
)

// page slices a zero-based page out of n entries. Out-of-range pages are not
// separately validated; tokens are only generated by the controller itself.
func page(n, pageIndex, pageSize int) (start, end int) {
	start = pageIndex * pageSize
	if start > n {
		start = n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end
}

// totalPages is ceil(n / pageSize); zero entries still occupy one page.
func totalPages(n, pageSize int) int {
	if n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// pageToken encodes the navigation id for a page of the given kind
// ("cat" or "item").
func pageToken(kind string, pageIndex int) string {
	return fmt.Sprintf("%s_page_%d", kind, pageIndex)
}
