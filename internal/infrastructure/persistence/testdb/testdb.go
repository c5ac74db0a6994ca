// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/infrastructure/database"
	"github.com/orris-inc/notifyd/internal/infrastructure/migration"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/config"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// New returns a fresh, fully migrated database that is closed when the test ends.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)

	require.NoError(t, migration.NewManager(config.DriverSQLite, logger.NewLogger()).Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a directory user and returns its id.
func SeedUser(t *testing.T, db *gorm.DB, username, role, status string) uint {
	t.Helper()

	m := &models.UserModel{Username: username, Role: role, Status: status}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}
