package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/shared/errors"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"ADMIN", "hr", " Employee "} {
		role, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.True(t, role.IsValid())
	}

	for _, in := range []string{"", "EVERYONE", "superuser", "user"} {
		role, err := ParseRole(in)
		assert.Empty(t, role)
		assert.True(t, errors.IsValidationError(err), in)
	}
}

func TestRole_IsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleHR.IsAdmin())
	assert.Len(t, AllRoles(), 3)
}
