// Package listutil parses and validates the query parameters shared by the
// roster and finance list views: pagination, sorting and free-text search.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// Params carries the parsed list view parameters.
type Params struct {
	Page    int    // 1-indexed page number
	PerPage int    // rows per page
	Sort    string // column name, "" for the view's default
	Dir     string // "asc" or "desc"
	Search  string // free-text search query
	Status  string // exact-match status filter, "" for all
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// Parse extracts list parameters from URL query values. Unknown sort columns
// and out-of-range values fall back to safe defaults, so the output is always
// usable directly in a query.
// PRE: allowedSortCols lists the sortable column names for the view
// POST: Page >= 1, PerPage is one of PerPageOptions, Dir is "asc" or "desc"
func Parse(q url.Values, allowedSortCols []string) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}

	sort := q.Get("sort")
	if !contains(allowedSortCols, sort) {
		sort = ""
	}
	dir := q.Get("dir")
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}

	return Params{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Dir:     dir,
		Search:  q.Get("q"),
		Status:  q.Get("status"),
	}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped into [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page,
// 0 when there are no rows.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// ShowPagination returns true if pagination controls should be displayed.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
