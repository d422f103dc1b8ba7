package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is the page size used when the client does not send one
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request
	MaxLimit = 100
	// DefaultOffset is the offset used when the client does not send one
	DefaultOffset = 0
)

// Params holds parsed pagination query parameters
type Params struct {
	Limit  int
	Offset int
}

// Meta describes the page of results returned alongside the data
type Meta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ParseParams extracts limit/offset from the request query, applying defaults
// and bounds
func ParseParams(c *gin.Context) Params {
	params := Params{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			if limit > MaxLimit {
				limit = MaxLimit
			}
			params.Limit = limit
		}
	}

	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	return params
}

// BuildMeta builds pagination metadata for a response
func BuildMeta(limit, offset int, total int64) Meta {
	meta := Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
	if limit > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return meta
}

// HasMore reports whether more results exist beyond the current page
func HasMore(offset, limit int, total int64) bool {
	return int64(offset+limit) < total
}

// GetCurrentPage returns the 1-based page number for an offset
func GetCurrentPage(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}

// Slice returns the [offset, offset+limit) window of n items as start/end
// indexes, clamped to the collection bounds. In-memory repositories page with
// it instead of SQL LIMIT/OFFSET.
func Slice(n, limit, offset int) (start, end int) {
	if offset >= n {
		return n, n
	}
	start = offset
	end = offset + limit
	if limit <= 0 || end > n {
		end = n
	}
	return start, end
}
