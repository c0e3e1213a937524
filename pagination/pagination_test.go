package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/eventhub/pagination"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		req      pagination.Request
		opts     []pagination.Option
		expected pagination.Request
	}{
		{
			name:     "zero values get defaults",
			req:      pagination.Request{},
			expected: pagination.Request{PageNumber: 1, PageSize: 20},
		},
		{
			name:     "valid values are kept",
			req:      pagination.Request{PageNumber: 3, PageSize: 15},
			expected: pagination.Request{PageNumber: 3, PageSize: 15},
		},
		{
			name:     "page size is capped",
			req:      pagination.Request{PageNumber: 2, PageSize: 1000},
			expected: pagination.Request{PageNumber: 2, PageSize: 100},
		},
		{
			name:     "custom options",
			req:      pagination.Request{PageSize: 80},
			opts:     []pagination.Option{pagination.WithMaxPageSize(50), pagination.WithDefaultPageSize(5)},
			expected: pagination.Request{PageNumber: 1, PageSize: 50},
		},
		{
			name:     "custom default",
			req:      pagination.Request{PageNumber: -4},
			opts:     []pagination.Option{pagination.WithDefaultPageSize(5)},
			expected: pagination.Request{PageNumber: 1, PageSize: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize(tt.opts...)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestOffsetAndLimit(t *testing.T) {
	req := pagination.Request{PageNumber: 3, PageSize: 10}
	assert.Equal(t, 20, req.Offset())
	assert.Equal(t, 10, req.Limit())
}

func TestNewResponse(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		items     []string
		pageCount int
	}{
		{name: "exact pages", total: 20, items: []string{"a"}, pageCount: 2},
		{name: "partial last page", total: 21, items: []string{"a"}, pageCount: 3},
		{name: "empty", total: 0, items: nil, pageCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := pagination.NewResponse(tt.items, tt.total, pagination.Request{PageNumber: 1, PageSize: 10})
			assert.Equal(t, tt.pageCount, resp.PageCount)
			assert.Equal(t, tt.total, resp.TotalCount)
			assert.NotNil(t, resp.PageContent)
		})
	}
}
