package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// currentUserID returns the caller set by the auth middleware.
func currentUserID(c *gin.Context) (uint, error) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, nil
}
