package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
)

// Pages are 1-based
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1
)

func normalizePage(page, size int) (int, int) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	return page, size
}

// CalculateOffsetLimit converts a page number and size into SQL OFFSET and LIMIT values
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	page, limit = normalizePage(page, size)
	return uint64((page - 1) * limit), limit
}

// NewPaginationInfo describes the page of a listing. An empty listing has one page and a
// page past the end reports the last page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	page, size = normalizePage(page, size)

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads the page and size query parameters. "limit" is accepted as
// an alias of size.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	raw := c.Query("size")
	if raw == "" {
		raw = c.Query("limit")
	}
	size, _ = strconv.Atoi(raw)
	return normalizePage(page, size)
}
