package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestConstants tests the package constants
func TestConstants(t *testing.T) {
	if DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", DefaultLimit)
	}
	if MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want 100", MaxLimit)
	}
	if DefaultOffset != 0 {
		t.Errorf("DefaultOffset = %d, want 0", DefaultOffset)
	}
}

// TestParseParams tests the ParseParams function
func TestParseParams(t *testing.T) {
	tests := []struct {
		name           string
		queryString    string
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "no params uses defaults",
			queryString:    "",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "valid limit and offset",
			queryString:    "limit=10&offset=20",
			expectedLimit:  10,
			expectedOffset: 20,
		},
		{
			name:           "zero limit uses default",
			queryString:    "limit=0",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative limit uses default",
			queryString:    "limit=-10",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "limit exceeds max",
			queryString:    "limit=200",
			expectedLimit:  MaxLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative offset uses default",
			queryString:    "offset=-10",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "non-numeric values use defaults",
			queryString:    "limit=abc&offset=xyz",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "both at boundary",
			queryString:    "limit=100&offset=0",
			expectedLimit:  100,
			expectedOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest("GET", "/?"+tt.queryString, nil)

			params := ParseParams(c)

			if params.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, tt.expectedLimit)
			}
			if params.Offset != tt.expectedOffset {
				t.Errorf("Offset = %d, want %d", params.Offset, tt.expectedOffset)
			}
		})
	}
}

// TestBuildMeta tests the BuildMeta function
func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name               string
		limit              int
		offset             int
		total              int64
		expectedTotalPages int
	}{
		{"first page with 100 items", 10, 0, 100, 10},
		{"partial last page", 10, 0, 25, 3},
		{"no items", 10, 0, 0, 0},
		{"zero limit", 0, 0, 100, 0},
		{"limit greater than total", 50, 0, 10, 1},
		{"one item over page", 10, 0, 11, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.limit, tt.offset, tt.total)

			if meta.Limit != tt.limit {
				t.Errorf("Limit = %d, want %d", meta.Limit, tt.limit)
			}
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
			if meta.TotalPages != tt.expectedTotalPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.expectedTotalPages)
			}
		})
	}
}

// TestHasMore tests the HasMore function
func TestHasMore(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		limit    int
		total    int64
		expected bool
	}{
		{"first page has more", 0, 10, 100, true},
		{"last page no more", 90, 10, 100, false},
		{"one before last page", 89, 10, 100, true},
		{"offset past total", 110, 10, 100, false},
		{"no items", 0, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HasMore(tt.offset, tt.limit, tt.total)
			if result != tt.expected {
				t.Errorf("HasMore(%d, %d, %d) = %v, want %v", tt.offset, tt.limit, tt.total, result, tt.expected)
			}
		})
	}
}

// TestGetCurrentPage tests the GetCurrentPage function
func TestGetCurrentPage(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		limit    int
		expected int
	}{
		{"first page", 0, 10, 1},
		{"second page", 10, 10, 2},
		{"partial offset", 15, 10, 2},
		{"zero limit returns 1", 10, 0, 1},
		{"negative limit returns 1", 10, -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetCurrentPage(tt.offset, tt.limit)
			if result != tt.expected {
				t.Errorf("GetCurrentPage(%d, %d) = %d, want %d", tt.offset, tt.limit, result, tt.expected)
			}
		})
	}
}

// TestSlice tests the Slice window helper
func TestSlice(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		limit         int
		offset        int
		expectedStart int
		expectedEnd   int
	}{
		{"full window inside", 100, 10, 20, 20, 30},
		{"window past end is clamped", 25, 10, 20, 20, 25},
		{"offset past end is empty", 10, 10, 50, 10, 10},
		{"zero limit takes everything", 10, 0, 0, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Slice(tt.n, tt.limit, tt.offset)
			if start != tt.expectedStart || end != tt.expectedEnd {
				t.Errorf("Slice(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.n, tt.limit, tt.offset, start, end, tt.expectedStart, tt.expectedEnd)
			}
		})
	}
}
