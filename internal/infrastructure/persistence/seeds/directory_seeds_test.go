package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/testdb"
)

func TestSeedDemoDirectory_Idempotent(t *testing.T) {
	db := testdb.New(t)

	n, err := SeedDemoDirectory(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(DemoUsers)), n)

	n, err = SeedDemoDirectory(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.Equal(t, int64(len(DemoUsers)), count)
}
