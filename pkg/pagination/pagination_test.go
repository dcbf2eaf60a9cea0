// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parleyhq/parley/pkg/pagination"
)

/*
TestPageOfRank verifies the rank-to-page mapping for a twelve-comment thread.
*/
func TestPageOfRank(t *testing.T) {
	tests := []struct {
		name string
		rank int
		want int
	}{
		{"first_item", 0, 0},
		{"last_of_page_zero", 4, 0},
		{"first_of_page_one", 5, 1},
		{"mid_page_one", 7, 1},
		{"last_of_page_one", 9, 1},
		{"first_of_page_two", 10, 2},
		{"twelfth_item", 11, 2},
		{"negative_rank_clamps", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.PageOfRank(tt.rank))
		})
	}
}

/*
TestInRange walks every count from 0 to 10 and asserts that exactly the
pages in [0, count/5] are addressable.
*/
func TestInRange(t *testing.T) {
	for total := 0; total <= 10; total++ {
		last := total / pagination.PageSize
		for page := -1; page <= last+2; page++ {
			want := page >= 0 && page <= last
			assert.Equal(t, want, pagination.InRange(total, page),
				"total=%d page=%d", total, page)
		}
	}
}

/*
TestLastPage covers the exact-multiple edge: a count of 5 leaves an empty
but addressable page 1.
*/
func TestLastPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"empty_collection", 0, 0},
		{"partial_page", 3, 0},
		{"exact_multiple", 5, 1},
		{"six_items", 6, 1},
		{"two_full_pages", 10, 2},
		{"negative_total_clamps", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.LastPage(tt.total))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Offset(0))
	assert.Equal(t, 5, pagination.Offset(1))
	assert.Equal(t, 15, pagination.Offset(3))
	assert.Equal(t, 0, pagination.Offset(-2))
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 12)

	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, pagination.PageSize, meta.PageSize)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 2, meta.LastPage)
}
