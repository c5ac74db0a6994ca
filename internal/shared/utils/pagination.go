package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

// Pagination holds parsed offset pagination parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ValidatePagination normalizes limit/offset.
// Limit defaults to DefaultPageSize when below 1 and is capped at MaxPageSize.
// Negative offsets are clamped to zero.
func ValidatePagination(limit, offset int) Pagination {
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// ParsePagination reads limit and offset from the query string.
// Unparseable values fall back to their defaults.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		parseQueryInt(c, "limit", constants.DefaultPageSize),
		parseQueryInt(c, "offset", 0),
	)
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
