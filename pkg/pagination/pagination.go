// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

// Package pagination provides the shared page arithmetic for list views.
//
// # Overview
//
// Every paginated view in Parley — the topic list on the home page and the
// comment thread under a topic — shows a fixed number of items per page and
// addresses pages with zero-based indices taken straight from the URL path.
// This package is the single source of truth for translating between item
// ranks, page indices, and SQL offsets so that the list views and the
// redirect targets computed after a mutation always agree.
package pagination

// PageSize is the fixed number of items shown per page, for both the
// topic list and any topic's comment thread.
const PageSize = 5

// PageOfRank returns the zero-based page index holding the item with the
// given zero-based rank in its chronological order.
//
// Ranks 0–4 land on page 0, ranks 5–9 on page 1, and so on.
func PageOfRank(rank int) int {
	if rank < 0 {
		return 0
	}
	return rank / PageSize
}

// Offset returns the SQL OFFSET value for a zero-based page index.
func Offset(page int) int {
	if page < 0 {
		return 0
	}
	return page * PageSize
}

// LastPage returns the highest reachable page index for a collection of the
// given size.
//
// The bound uses floor division of the current count, so the last page is
// reachable even when it holds fewer than [PageSize] items — and when the
// count is an exact multiple of [PageSize], one trailing empty page remains
// addressable. An empty collection still has page 0.
func LastPage(total int) int {
	if total < 0 {
		return 0
	}
	return total / PageSize
}

// InRange reports whether the zero-based page index is addressable for a
// collection of the given size: 0 <= page <= [LastPage].
func InRange(total, page int) bool {
	return page >= 0 && page <= LastPage(total)
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, total int) Meta {
	return Meta{
		Page:     page,
		PageSize: PageSize,
		Total:    total,
		LastPage: LastPage(total),
	}
}
