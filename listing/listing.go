package listing

import "strings"

// PageSize is the fixed number of rows on an admin list page.
const PageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Where keeps the items for which keep returns true.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps items where any of the strings returned by fields contains
// query, ignoring case. An empty query keeps everything.
func Search[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	return Where(items, func(it T) bool {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	})
}

// Paginate returns page (1-based) of items. Out-of-range pages are clamped.
func Paginate[T any](items []T, page int) Page[T] {
	total := len(items)
	pages := (total + PageSize - 1) / PageSize
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      append(make([]T, 0, end-start), items[start:end]...),
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}
