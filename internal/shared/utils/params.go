package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// ParseUintParam parses a positive integer id from a URL path parameter.
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(n), nil
}

// ParseBoolQuery parses an optional boolean query parameter.
func ParseBoolQuery(c *gin.Context, key string, defaultVal bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidationError(key + " must be a boolean")
	}
	return b, nil
}
