package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/shared/errors"
)

func TestValidateIDList(t *testing.T) {
	t.Run("deduplicates keeping order", func(t *testing.T) {
		ids, err := ValidateIDList([]uint{3, 1, 3, 2, 1}, 100)
		require.NoError(t, err)
		assert.Equal(t, []uint{3, 1, 2}, ids)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		_, err := ValidateIDList(nil, 100)
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
	})

	t.Run("zero id rejected", func(t *testing.T) {
		_, err := ValidateIDList([]uint{1, 0}, 100)
		require.Error(t, err)
		assert.Equal(t, 400, errors.GetAppError(err).Code)
	})

	t.Run("too many ids rejected", func(t *testing.T) {
		_, err := ValidateIDList([]uint{1, 2, 3}, 2)
		require.Error(t, err)
		assert.Contains(t, errors.GetAppError(err).Details, "at most 2")
	})
}

type createNotificationRequest struct {
	Message string   `json:"message" binding:"required" validate:"required,max=10"`
	Roles   []string `json:"role_targets" validate:"max=2,dive,oneof=ADMIN HR EMPLOYEE EVERYONE"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(createNotificationRequest{Message: "ok", Roles: []string{"HR"}})
	assert.NoError(t, err)

	err = ValidateStruct(createNotificationRequest{Roles: []string{"HR", "ADMIN", "EMPLOYEE"}})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "message is required")
	assert.Contains(t, appErr.Details, "role_targets must contain at most 2 items")

	err = ValidateStruct(createNotificationRequest{Message: "ok", Roles: []string{"ROOT"}})
	require.Error(t, err)
	assert.Contains(t, errors.GetAppError(err).Details, "role_targets[0] must be one of")
}
