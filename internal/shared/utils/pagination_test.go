package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"valid values", 10, 20, 10, 20},
		{"zero limit defaults", 0, 0, constants.DefaultPageSize, 0},
		{"limit capped", 500, 0, constants.MaxPageSize, 0},
		{"limit at max", constants.MaxPageSize, 5, constants.MaxPageSize, 5},
		{"negative offset clamped", 10, -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePagination(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", constants.DefaultPageSize, 0},
		{"explicit", "limit=5&offset=10", 5, 10},
		{"garbage falls back", "limit=abc&offset=x", constants.DefaultPageSize, 0},
		{"limit capped", "limit=1000", constants.MaxPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/notifications?"+tt.query, nil)

			got := ParsePagination(c)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}
