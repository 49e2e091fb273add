// Package pagination parses page requests from query strings and shapes
// paged list responses.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/keepsake/pkg/query"
)

// PageRequest is a normalized request for one page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
	Search   *string
	Sort     []query.SortField
}

// PageRequestFromQuery reads page, page_size (alias limit), search and sort
// from values. Malformed numbers fall back to defaults; a blank search is ignored.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	size := values.Get("page_size")
	if size == "" {
		size = values.Get("limit")
	}

	req := PageRequest{
		Page:     atoi(values.Get("page")),
		PageSize: atoi(size),
		Sort:     query.ParseSortFields(values.Get("sort")),
	}
	if s := strings.TrimSpace(values.Get("search")); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

// Normalize clamps PageSize into [1, cfg.MaxPageSize], substituting
// cfg.DefaultPageSize when unset, and Page into [1, MaxPage(PageSize)].
func (r *PageRequest) Normalize(cfg Config) {
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = max(min(r.PageSize, cfg.MaxPageSize), 1)
	r.Page = min(max(r.Page, 1), MaxPage(r.PageSize))
}

// MaxPage is the largest page whose offset fits in an int.
func MaxPage(pageSize int) int {
	if pageSize < 1 {
		return math.MaxInt
	}
	return math.MaxInt / pageSize
}

// Offset is the number of rows preceding the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Beyond reports whether the page starts at or past total, in which case the
// listing is empty and the row query can be skipped.
func (r *PageRequest) Beyond(total int) bool {
	return r.Page > TotalPages(total, r.PageSize)
}

// PageResult is the JSON envelope for a listing.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult builds a PageResult; nil data is rendered as an empty list.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}
	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages is ceil(total / pageSize), or 0 for an empty set.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
